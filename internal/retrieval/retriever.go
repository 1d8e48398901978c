// Package retrieval builds queryable passage indexes from fixed document
// sets or web-search result sets, and exposes them through lazily built,
// memoized retrievers.
package retrieval

import (
	"context"
	"sync"
)

// Passage is one ranked unit of retrievable text together with the
// identifier of the document or URL it came from.
type Passage struct {
	Text   string `json:"text"`
	Origin string `json:"origin"`
}

// Retriever answers similarity queries over an already built index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Source is a retrieval source: it can build (once) and hand out a
// Retriever over its corpus. Building is expensive, so implementations
// memoize the result; build failures propagate to every caller and are
// not retried.
type Source interface {
	// Name identifies the source in logs and run audits.
	Name() string
	// Retriever returns the memoized retriever, building the underlying
	// index on first use. The first caller's context governs the build.
	Retriever(ctx context.Context) (Retriever, error)
}

// memoized guards a one-shot index build so that repeated calls, including
// concurrent ones, share a single Retriever instance.
type memoized struct {
	once  sync.Once
	ret   Retriever
	err   error
	build func(ctx context.Context) (Retriever, error)
}

func (m *memoized) get(ctx context.Context) (Retriever, error) {
	m.once.Do(func() {
		m.ret, m.err = m.build(ctx)
	})
	return m.ret, m.err
}
