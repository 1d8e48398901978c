// Package answer resolves a question against an ordered chain of
// retrieval sources, gating every answer through a trust heuristic and
// falling back to the next source when the answer fails it.
package answer

import "regexp"

// negativeEvidence matches phrases an answering model uses when the
// retrieved context did not contain the requested information.
var negativeEvidence = regexp.MustCompile(
	`(?i)(not\smention|no\sinformation|no\smention|not\sprovid|not\scontain|i\sdon't\sknow)`,
)

// emptySources matches sources strings that cite nothing.
var emptySources = regexp.MustCompile(`(?i)^(none|n/a|none\sprovided|)$`)

// Trustworthy is the quality verdict over an answer and its raw sources
// string. It is a pure function: callers re-evaluate it for every newly
// computed answer rather than caching the verdict on its own.
func Trustworthy(answerText, sources string) bool {
	if negativeEvidence.MatchString(answerText) {
		return false
	}
	if emptySources.MatchString(sources) {
		return false
	}
	return true
}
