// Package websearch exposes a reader-style search provider through the two
// primitives the retrieval layer consumes: ranked result URLs for a query,
// and the markdown text of a single page.
package websearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the search provider operations.
type Client interface {
	// Search runs a web search and returns usable result URLs in the
	// provider's ranking order, capped at maxURLs when maxURLs > 0.
	// Results without a URL and direct PDF links are dropped here so
	// callers only ever see fetchable pages. An empty slice means the
	// query matched nothing.
	Search(ctx context.Context, query string, maxURLs int) ([]string, error)
	// Read fetches a page and returns its markdown text.
	Read(ctx context.Context, pageURL string) (string, error)
}

// The provider wraps every payload in a code/data envelope; only the
// fields the retrieval layer needs are decoded.
type searchEnvelope struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type readEnvelope struct {
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey        string
	readBaseURL   string
	searchBaseURL string
	http          *http.Client
}

// NewClient creates a search provider client. The two base URLs come from
// configuration; the read endpoint serves page content, the search
// endpoint serves ranked results.
func NewClient(apiKey, readBaseURL, searchBaseURL string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		readBaseURL:   strings.TrimRight(readBaseURL, "/"),
		searchBaseURL: strings.TrimRight(searchBaseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, maxURLs int) ([]string, error) {
	body, status, err := c.fetch(ctx, c.searchBaseURL+"/"+url.QueryEscape(query), false)
	if err != nil {
		return nil, eris.Wrapf(err, "websearch: search %q", query)
	}

	// The provider answers 422 when a query matches nothing.
	if status == http.StatusUnprocessableEntity {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("websearch: search %q: status %d: %s", query, status, string(body))
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "websearch: decode search response")
	}

	urls := make([]string, 0, len(env.Data))
	for _, r := range env.Data {
		if maxURLs > 0 && len(urls) == maxURLs {
			break
		}
		if r.URL == "" || isPDFLink(r.URL) {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls, nil
}

func (c *httpClient) Read(ctx context.Context, pageURL string) (string, error) {
	body, status, err := c.fetch(ctx, c.readBaseURL+"/"+pageURL, true)
	if err != nil {
		return "", eris.Wrapf(err, "websearch: read %s", pageURL)
	}
	if status != http.StatusOK {
		return "", eris.Errorf("websearch: read %s: status %d: %s", pageURL, status, string(body))
	}

	var env readEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", eris.Wrap(err, "websearch: decode read response")
	}
	return env.Data.Content, nil
}

// The reader endpoint cannot extract text from PDFs, so their URLs are
// filtered out of search results.
func isPDFLink(u string) bool {
	return strings.HasSuffix(strings.ToLower(u), ".pdf")
}

const fetchAttempts = 3

// fetch issues an authenticated GET and retries transient failures (429,
// 500, 502, 503 and transport errors) with exponential backoff. A response
// with any other status is returned to the caller to interpret.
func (c *httpClient) fetch(ctx context.Context, reqURL string, asMarkdown bool) ([]byte, int, error) {
	backoff := 1 * time.Second

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, eris.Wrap(err, "websearch: build request")
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if asMarkdown {
			req.Header.Set("X-Return-Format", "markdown")
		}

		body, status, err := c.doOnce(req)
		if err == nil && !transientStatus(status) {
			return body, status, nil
		}
		if attempt == fetchAttempts {
			if err == nil {
				err = eris.Errorf("websearch: status %d: %s", status, string(body))
			}
			return nil, status, err
		}

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *httpClient) doOnce(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "websearch: read response body")
	}
	return body, resp.StatusCode, nil
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}
