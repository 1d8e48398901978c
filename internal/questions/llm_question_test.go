package questions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/retrieval"
)

type fixedRetriever struct{}

func (fixedRetriever) Retrieve(_ context.Context, _ string, _ int) ([]retrieval.Passage, error) {
	return []retrieval.Passage{{Text: "passage", Origin: "report.txt"}}, nil
}

type fixedSource struct{ name string }

func (s fixedSource) Name() string { return s.name }
func (s fixedSource) Retriever(_ context.Context) (retrieval.Retriever, error) {
	return fixedRetriever{}, nil
}

type fixedAnswerer struct{ raw *model.RawAnswer }

func (a fixedAnswerer) Answer(_ context.Context, _ model.Tier, _ string, _ []retrieval.Passage) (*model.RawAnswer, error) {
	return a.raw, nil
}

func newTestSession(title string, raw *model.RawAnswer) *answer.Session {
	return answer.NewSession(
		model.Question{Title: title, Prompt: "prompt", Tier: model.TierStandard},
		fixedAnswerer{raw: raw}, fixedSource{name: "docs"}, nil,
	)
}

func TestLLMQuestionResolve(t *testing.T) {
	q := NewLLMQuestion(newTestSession("Who are the clients of Acme?", &model.RawAnswer{
		Answer:  "The main clients are X & Y.",
		Sources: "report.txt ; https://example.com",
	}))

	assert.Equal(t, "Who are the clients of Acme?", q.Title())

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, q.Title(), section.Title)
	assert.Contains(t, section.Body, "The main clients are X &amp; Y.")
	assert.Equal(t, []string{"report.txt", "https://example.com"}, section.Sources)
	assert.NotContains(t, section.Body, "no sources available")
}

func TestLLMQuestionResolveNoSources(t *testing.T) {
	q := NewLLMQuestion(newTestSession("Scandals?", &model.RawAnswer{
		Answer:  "No information about scandals.",
		Sources: "",
	}))

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.Contains(t, section.Body, "An error occured: no sources available")
	assert.Empty(t, section.Sources)
}
