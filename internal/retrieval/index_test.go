package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexEmpty(t *testing.T) {
	_, err := NewIndex(nil)
	assert.Error(t, err)
}

func TestRetrieveRanksByOverlap(t *testing.T) {
	idx, err := NewIndex([]Passage{
		{Text: "The board of directors includes Jane Smith as chairwoman.", Origin: "a"},
		{Text: "Net sales grew by twelve percent in the fiscal year.", Origin: "b"},
		{Text: "The board approved the dividend. Board meetings are quarterly.", Origin: "c"},
	})
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "board of directors", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Both board passages rank above the sales one.
	origins := []string{got[0].Origin, got[1].Origin}
	assert.Contains(t, origins, "a")
	assert.Contains(t, origins, "c")
}

func TestRetrieveTopKLimits(t *testing.T) {
	idx, err := NewIndex([]Passage{
		{Text: "alpha beta gamma", Origin: "1"},
		{Text: "alpha beta", Origin: "2"},
		{Text: "alpha", Origin: "3"},
	})
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "alpha", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRetrieveNoMatches(t *testing.T) {
	idx, err := NewIndex([]Passage{{Text: "alpha beta", Origin: "1"}})
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "unrelated query terms", 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	idx, err := NewIndex([]Passage{{Text: "alpha beta", Origin: "1"}})
	require.NoError(t, err)

	_, err = idx.Retrieve(context.Background(), " , . ", 4)
	assert.Error(t, err)
}

func TestRetrieveCancelledContext(t *testing.T) {
	idx, err := NewIndex([]Passage{{Text: "alpha beta", Origin: "1"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = idx.Retrieve(ctx, "alpha", 4)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"total", "assets", "2022"}, tokenize("Total Assets: 2022!"))
	assert.Empty(t, tokenize("a b c"), "single-character tokens are dropped")
}
