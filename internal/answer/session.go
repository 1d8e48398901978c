package answer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/retrieval"
)

const defaultTopK = 4

// Answerer produces an answer for a prompt grounded on retrieved passages.
type Answerer interface {
	Answer(ctx context.Context, tier model.Tier, prompt string, passages []retrieval.Passage) (*model.RawAnswer, error)
}

// Session resolves one question against a primary source and an ordered
// fallback chain. The chain is consumed front to back, one source per
// quality failure; an exhausted source is never revisited. The cached
// answer is valid only for the current source: switching sources clears
// every cached field together.
type Session struct {
	question  model.Question
	answerer  Answerer
	current   retrieval.Source
	fallbacks []retrieval.Source
	topK      int

	cached   *model.RawAnswer
	switches int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTopK sets how many passages are retrieved per answering call.
func WithTopK(k int) SessionOption {
	return func(s *Session) {
		s.topK = k
	}
}

// NewSession creates a session for one question. The fallback slice is
// copied so no two sessions ever share a chain's backing array.
func NewSession(q model.Question, a Answerer, primary retrieval.Source, fallbacks []retrieval.Source, opts ...SessionOption) *Session {
	s := &Session{
		question:  q,
		answerer:  a,
		current:   primary,
		fallbacks: append([]retrieval.Source(nil), fallbacks...),
		topK:      defaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Question returns the session's immutable question definition.
func (s *Session) Question() model.Question {
	return s.question
}

// CurrentSource names the source the session is (or last was) answering
// from.
func (s *Session) CurrentSource() string {
	return s.current.Name()
}

// Switches reports how many fallback switches have happened so far.
func (s *Session) Switches() int {
	return s.switches
}

// GetAnswer drives the session to its final answer. A trustworthy answer
// is terminal. An untrustworthy one consumes the front of the fallback
// chain and retries from a cold cache; when the chain is exhausted the
// last untrustworthy answer is returned as the best effort, not an error.
// Source-build and transport failures propagate and consume nothing.
//
// The answering service is invoked at most once per (question, source)
// within a session's lifetime.
func (s *Session) GetAnswer(ctx context.Context) (*model.RawAnswer, error) {
	for {
		if s.cached == nil {
			raw, err := s.compute(ctx)
			if err != nil {
				return nil, err
			}
			s.cached = raw
		}

		if Trustworthy(s.cached.Answer, s.cached.Sources) {
			return s.cached, nil
		}

		if len(s.fallbacks) == 0 {
			zap.L().Warn("answer: chain exhausted, surfacing best effort",
				zap.String("question", s.question.Title),
				zap.String("source", s.current.Name()),
			)
			return s.cached, nil
		}

		next := s.fallbacks[0]
		s.fallbacks = s.fallbacks[1:]
		zap.L().Info("answer: switching source",
			zap.String("question", s.question.Title),
			zap.String("from", s.current.Name()),
			zap.String("to", next.Name()),
		)
		// Cache fields are invalidated together: no answer from the old
		// source may survive the switch.
		s.cached = nil
		s.current = next
		s.switches++
	}
}

// Trustworthy re-runs the quality verdict on the session's final answer.
// Callers that have not resolved the session yet get false.
func (s *Session) Trustworthy() bool {
	return s.cached != nil && Trustworthy(s.cached.Answer, s.cached.Sources)
}

// Parsed returns the final answer with sources split, resolving the
// session first if needed.
func (s *Session) Parsed(ctx context.Context) (model.ParsedAnswer, error) {
	raw, err := s.GetAnswer(ctx)
	if err != nil {
		return model.ParsedAnswer{}, err
	}
	return raw.Parse(), nil
}

func (s *Session) compute(ctx context.Context) (*model.RawAnswer, error) {
	retriever, err := s.current.Retriever(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "answer: build source %s", s.current.Name())
	}

	passages, err := retriever.Retrieve(ctx, s.question.Prompt, s.topK)
	if err != nil {
		return nil, eris.Wrapf(err, "answer: retrieve for %q", s.question.Title)
	}

	raw, err := s.answerer.Answer(ctx, s.question.Tier, s.question.Prompt, passages)
	if err != nil {
		return nil, eris.Wrapf(err, "answer: answer %q", s.question.Title)
	}
	return raw, nil
}
