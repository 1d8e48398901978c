package model

import "strings"

// Tier selects which answering model services a question.
type Tier string

const (
	TierStandard Tier = "standard"
	TierAdvanced Tier = "advanced"
)

// Question is an immutable question definition: the title shown in the
// report and the prompt sent to the answering service. Created once at
// question-set construction time and never mutated.
type Question struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	Tier   Tier   `json:"tier"`
}

// RawAnswer is the answering service's response for one prompt: the answer
// text plus a single semicolon-separated string of origin identifiers, or
// "none" when the model cited nothing.
type RawAnswer struct {
	Answer  string `json:"answer"`
	Sources string `json:"sources"`
}

// ParsedAnswer is a RawAnswer with its sources split into individual
// identifiers. An empty Sources slice means the answer carried no sources
// at all, which is distinct from a single identifier that happens to be
// the literal string "none".
type ParsedAnswer struct {
	AnswerText string   `json:"answer_text"`
	Sources    []string `json:"sources"`
}

// Parse derives a ParsedAnswer from a raw response. Identifiers are
// separated by ";", surrounding whitespace trimmed.
func (r RawAnswer) Parse() ParsedAnswer {
	return ParsedAnswer{
		AnswerText: r.Answer,
		Sources:    SplitSources(r.Sources),
	}
}

// SplitSources splits a semicolon-separated origin string into identifiers.
// An empty or all-whitespace input yields nil.
func SplitSources(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
