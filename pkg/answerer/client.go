// Package answerer wraps the Anthropic API as a question answering
// service: a prompt plus retrieved context passages in, an answer with
// cited origin identifiers out.
package answerer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Client defines the answering operations used by the report engine.
type Client interface {
	Answer(ctx context.Context, req Request) (*Response, error)
}

// Passage is a retrieved context snippet with its origin identifier.
type Passage struct {
	Text   string
	Origin string
}

// Request is a single answering request.
type Request struct {
	Model     string
	MaxTokens int64
	Prompt    string
	Passages  []Passage
}

// Response is the parsed answering result. Sources is a single
// semicolon-separated string of origin identifiers, or "none" when the
// model cited nothing.
type Response struct {
	Answer  string
	Sources string
	Usage   TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-opus-4-6":            {15.00, 75.00},
}

// EstimateCost computes an estimated cost in USD from a TokenUsage and
// model ID. Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return (float64(u.InputTokens)/1e6)*pricing[0] + (float64(u.OutputTokens)/1e6)*pricing[1]
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u TokenUsage) LogCost(model, question string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("question", question),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

const systemPrompt = `You answer business research questions using only the extracted document parts provided.
Cite the origin of every part you used. Respond with a JSON object of exactly two keys:
"answer" (your final answer as a string) and "sources" (the origin identifiers you used,
joined by " ; ", or "none" if no part was relevant).
If the extracts do not contain the information, say so in the answer and set sources to "none".`

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
}

// NewClient creates an answering client backed by the Anthropic SDK.
func NewClient(apiKey string) Client {
	return &sdkClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
	}
}

func (c *sdkClient) Answer(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(buildUserPrompt(req))),
		},
		Temperature: sdk.Float(0),
	})
	if err != nil {
		return nil, eris.Wrap(err, "answerer: create message")
	}

	var text strings.Builder
	for _, b := range msg.Content {
		text.WriteString(b.Text)
	}

	resp := parseResponse(text.String())
	resp.Usage = TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	return resp, nil
}

// buildUserPrompt formats the passages and the question into one message.
func buildUserPrompt(req Request) string {
	var b strings.Builder
	for _, p := range req.Passages {
		fmt.Fprintf(&b, "Content: %s\nOrigin: %s\n\n", p.Text, p.Origin)
	}
	fmt.Fprintf(&b, "Question: %s", req.Prompt)
	return b.String()
}

// parseResponse decodes the model's {"answer", "sources"} payload. When
// the text is not valid JSON the whole text becomes the answer with
// sources "none", so the quality gate downstream can judge it.
func parseResponse(text string) *Response {
	var payload struct {
		Answer  string `json:"answer"`
		Sources string `json:"sources"`
	}

	candidate := text
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		candidate = text[start : end+1]
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err == nil && payload.Answer != "" {
		return &Response{Answer: payload.Answer, Sources: payload.Sources}
	}

	return &Response{Answer: strings.TrimSpace(text), Sources: "none"}
}
