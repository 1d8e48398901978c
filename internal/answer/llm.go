package answer

import (
	"context"

	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/retrieval"
	"github.com/sells-group/company-report/pkg/answerer"
)

// LLMAnswerer adapts the answerer client to the session's interface,
// mapping the question tier to a concrete model ID.
type LLMAnswerer struct {
	client        answerer.Client
	standardModel string
	advancedModel string
	maxTokens     int64
}

// NewLLMAnswerer creates the adapter. Model IDs come from configuration;
// the advanced tier serves structured extraction questions.
func NewLLMAnswerer(client answerer.Client, standardModel, advancedModel string, maxTokens int64) *LLMAnswerer {
	return &LLMAnswerer{
		client:        client,
		standardModel: standardModel,
		advancedModel: advancedModel,
		maxTokens:     maxTokens,
	}
}

func (a *LLMAnswerer) Answer(ctx context.Context, tier model.Tier, prompt string, passages []retrieval.Passage) (*model.RawAnswer, error) {
	m := a.standardModel
	if tier == model.TierAdvanced {
		m = a.advancedModel
	}

	req := answerer.Request{
		Model:     m,
		MaxTokens: a.maxTokens,
		Prompt:    prompt,
		Passages:  make([]answerer.Passage, len(passages)),
	}
	for i, p := range passages {
		req.Passages[i] = answerer.Passage{Text: p.Text, Origin: p.Origin}
	}

	resp, err := a.client.Answer(ctx, req)
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(m, prompt)

	return &model.RawAnswer{Answer: resp.Answer, Sources: resp.Sources}, nil
}
