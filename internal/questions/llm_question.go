// Package questions defines the fixed research question set built for a
// company: LLM-session questions over the filed-report index with
// web-search fallbacks, the combined financial-indicators question, and
// the spend-cube analysis.
package questions

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/report"
)

// LLMQuestion renders an answer session as a report section.
type LLMQuestion struct {
	session *answer.Session
}

// NewLLMQuestion wraps a session.
func NewLLMQuestion(session *answer.Session) *LLMQuestion {
	return &LLMQuestion{session: session}
}

func (q *LLMQuestion) Title() string {
	return q.session.Question().Title
}

// Session exposes the underlying session for run audits.
func (q *LLMQuestion) Session() *answer.Session {
	return q.session
}

func (q *LLMQuestion) Resolve(ctx context.Context) (report.Section, error) {
	parsed, err := q.session.Parsed(ctx)
	if err != nil {
		return report.Section{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h4 style=\"color: #d30473;font-size: 110%%;\">%s</h4>\n",
		html.EscapeString(parsed.AnswerText))
	if len(parsed.Sources) == 0 {
		b.WriteString("<h4 style=\"color: #223349;font-size: 110%;\"><a> <li>An error occured: no sources available</li> </a></h4>\n")
	}

	return report.Section{
		Title:   q.Title(),
		Body:    b.String(),
		Sources: parsed.Sources,
	}, nil
}
