package retrieval

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultChunkChars = 1200

// DocumentSource indexes the pre-extracted text of one or more filed
// report documents. Passages carry the originating file path as their
// origin identifier.
type DocumentSource struct {
	paths      []string
	chunkChars int
	memo       *memoized
}

// DocumentOption configures a DocumentSource.
type DocumentOption func(*DocumentSource)

// WithChunkChars overrides the target passage size in characters.
func WithChunkChars(n int) DocumentOption {
	return func(s *DocumentSource) {
		s.chunkChars = n
	}
}

// NewDocumentSource creates a source over the given text files. The slice
// is copied; callers may reuse theirs.
func NewDocumentSource(paths []string, opts ...DocumentOption) *DocumentSource {
	s := &DocumentSource{
		paths:      append([]string(nil), paths...),
		chunkChars: defaultChunkChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.memo = &memoized{build: s.buildIndex}
	return s
}

func (s *DocumentSource) Name() string {
	return "documents:" + strings.Join(s.paths, ",")
}

func (s *DocumentSource) Retriever(ctx context.Context) (Retriever, error) {
	return s.memo.get(ctx)
}

func (s *DocumentSource) buildIndex(ctx context.Context) (Retriever, error) {
	var passages []Passage
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "retrieval: build document index")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "retrieval: read document %s", path)
		}
		chunks := SplitText(string(data), s.chunkChars)
		for _, c := range chunks {
			passages = append(passages, Passage{Text: c, Origin: path})
		}
	}
	zap.L().Info("retrieval: document index built",
		zap.Int("documents", len(s.paths)),
		zap.Int("passages", len(passages)),
	)
	return NewIndex(passages)
}

// SplitText splits text into passages of roughly maxChars characters,
// preferring paragraph boundaries and falling back to whole-line cuts.
func SplitText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = defaultChunkChars
	}

	var chunks []string
	var buf strings.Builder
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			chunks = append(chunks, s)
		}
		buf.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if buf.Len() > 0 && buf.Len()+len(para) > maxChars {
			flush()
		}
		if len(para) > maxChars {
			// Oversized paragraph: cut on lines.
			for _, line := range strings.Split(para, "\n") {
				if buf.Len() > 0 && buf.Len()+len(line) > maxChars {
					flush()
				}
				buf.WriteString(line)
				buf.WriteString("\n")
			}
			continue
		}
		buf.WriteString(para)
		buf.WriteString("\n\n")
	}
	flush()
	return chunks
}
