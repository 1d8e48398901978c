package retrieval

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// lexicalIndex is the default in-process Retriever: passages ranked by
// query-term overlap with inverse document frequency weighting. It stands
// in for an external vector index so the engine runs without services.
type lexicalIndex struct {
	passages []Passage
	terms    []map[string]int // term frequency per passage
	docFreq  map[string]int
}

// NewIndex builds a retriever over the given passages.
func NewIndex(passages []Passage) (Retriever, error) {
	if len(passages) == 0 {
		return nil, eris.New("retrieval: no passages to index")
	}
	idx := &lexicalIndex{
		passages: passages,
		terms:    make([]map[string]int, len(passages)),
		docFreq:  make(map[string]int),
	}
	for i, p := range passages {
		tf := make(map[string]int)
		for _, tok := range tokenize(p.Text) {
			tf[tok]++
		}
		idx.terms[i] = tf
		for tok := range tf {
			idx.docFreq[tok]++
		}
	}
	return idx, nil
}

func (x *lexicalIndex) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "retrieval: retrieve")
	}
	if topK <= 0 {
		topK = 4
	}

	qTerms := tokenize(query)
	if len(qTerms) == 0 {
		return nil, eris.New("retrieval: empty query")
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(x.passages))
	n := float64(len(x.passages))
	for i, tf := range x.terms {
		var s float64
		for _, q := range qTerms {
			cnt, ok := tf[q]
			if !ok {
				continue
			}
			// Rarer terms weigh more; repeated matches saturate quickly.
			weight := 1.0 + (n-float64(x.docFreq[q]))/n
			s += weight * (1.0 + float64(cnt)/(float64(cnt)+1.0))
		}
		if s > 0 {
			scores = append(scores, scored{idx: i, score: s})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]Passage, len(scores))
	for i, s := range scores {
		out[i] = x.passages[s.idx]
	}
	return out, nil
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}
