// Package report assembles the final company report from an ordered list
// of resolvable question sections. Rendering is plain HTML string
// assembly; the core only guarantees each section a title, a body, and a
// provenance list.
package report

import "context"

// Section is one fully resolved report entry.
type Section struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"` // HTML fragment
	Sources []string `json:"sources,omitempty"`
}

// Renderable is a question capable of resolving itself into a report
// section: either an LLM-backed session or a pure computation (financial
// table, spend analytics). Resolve errors do not abort the report; the
// builder substitutes an explanatory sentence for the failing entry.
type Renderable interface {
	Title() string
	Resolve(ctx context.Context) (Section, error)
}
