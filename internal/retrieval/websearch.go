package retrieval

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-report/pkg/websearch"
)

const (
	defaultMaxURLsPerQuery = 5
	defaultFetchWorkers    = 4
	defaultFetchPerSecond  = 2
)

// WebSearchSource indexes the textual content of pages found by running a
// list of search queries. Building fails when no query yields a usable
// URL. Passages carry the page URL as their origin.
type WebSearchSource struct {
	queries      []string
	client       websearch.Client
	maxPerQuery  int
	fetchWorkers int
	limiter      *rate.Limiter
	chunkChars   int
	memo         *memoized
}

// WebSearchOption configures a WebSearchSource.
type WebSearchOption func(*WebSearchSource)

// WithMaxURLsPerQuery caps how many result URLs each query contributes.
func WithMaxURLsPerQuery(n int) WebSearchOption {
	return func(s *WebSearchSource) {
		s.maxPerQuery = n
	}
}

// WithFetchWorkers sets the page-fetch concurrency.
func WithFetchWorkers(n int) WebSearchOption {
	return func(s *WebSearchSource) {
		s.fetchWorkers = n
	}
}

// WithFetchRate sets the outbound page-fetch pacing in requests per second.
func WithFetchRate(perSecond float64) WebSearchOption {
	return func(s *WebSearchSource) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithWebChunkChars overrides the target passage size in characters.
func WithWebChunkChars(n int) WebSearchOption {
	return func(s *WebSearchSource) {
		s.chunkChars = n
	}
}

// NewWebSearchSource creates a source over the given search queries.
// The query slice is copied; callers may reuse theirs.
func NewWebSearchSource(client websearch.Client, queries []string, opts ...WebSearchOption) *WebSearchSource {
	s := &WebSearchSource{
		queries:      append([]string(nil), queries...),
		client:       client,
		maxPerQuery:  defaultMaxURLsPerQuery,
		fetchWorkers: defaultFetchWorkers,
		limiter:      rate.NewLimiter(rate.Limit(defaultFetchPerSecond), 1),
		chunkChars:   defaultChunkChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.memo = &memoized{build: s.buildIndex}
	return s
}

func (s *WebSearchSource) Name() string {
	return "websearch:" + strings.Join(s.queries, " | ")
}

func (s *WebSearchSource) Retriever(ctx context.Context) (Retriever, error) {
	return s.memo.get(ctx)
}

func (s *WebSearchSource) buildIndex(ctx context.Context) (Retriever, error) {
	urls, err := s.collectURLs(ctx)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, eris.Errorf("retrieval: no usable search results for %q", strings.Join(s.queries, " | "))
	}

	passages, err := s.fetchPages(ctx, urls)
	if err != nil {
		return nil, err
	}

	zap.L().Info("retrieval: web search index built",
		zap.Int("queries", len(s.queries)),
		zap.Int("urls", len(urls)),
		zap.Int("passages", len(passages)),
	)
	return NewIndex(passages)
}

// collectURLs runs every query in order and gathers result URLs, keeping
// the provider's ranking and dropping URLs an earlier query already found.
func (s *WebSearchSource) collectURLs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string
	for _, query := range s.queries {
		found, err := s.client.Search(ctx, query, s.maxPerQuery)
		if err != nil {
			return nil, eris.Wrapf(err, "retrieval: search %q", query)
		}
		for _, u := range found {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// fetchPages reads pages with bounded concurrency and shared rate pacing.
// Individual page failures are logged and skipped; the build fails only
// when every fetch fails.
func (s *WebSearchSource) fetchPages(ctx context.Context, urls []string) ([]Passage, error) {
	var mu sync.Mutex
	var passages []Passage

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchWorkers)

	for _, u := range urls {
		g.Go(func() error {
			if err := s.limiter.Wait(gCtx); err != nil {
				return eris.Wrap(err, "retrieval: fetch pacing")
			}
			content, err := s.client.Read(gCtx, u)
			if err != nil {
				zap.L().Warn("retrieval: page fetch failed",
					zap.String("url", u),
					zap.Error(err),
				)
				return nil
			}
			chunks := SplitText(content, s.chunkChars)
			mu.Lock()
			for _, c := range chunks {
				passages = append(passages, Passage{Text: c, Origin: u})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(passages) == 0 {
		return nil, eris.New("retrieval: all page fetches failed")
	}
	return passages, nil
}
