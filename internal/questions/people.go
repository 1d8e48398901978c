package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/report"
)

// PeopleQuestion renders a session whose answer lists people with their
// position titles as an HTML table. An answer that fails the quality gate
// or does not decode as the expected payload falls back to plain-text
// rendering, so a partial extraction still reaches the report.
type PeopleQuestion struct {
	session *answer.Session
}

// NewPeopleQuestion wraps a session expected to answer in the people
// payload shape.
func NewPeopleQuestion(session *answer.Session) *PeopleQuestion {
	return &PeopleQuestion{session: session}
}

func (q *PeopleQuestion) Title() string {
	return q.session.Question().Title
}

// Session exposes the underlying session for run audits.
func (q *PeopleQuestion) Session() *answer.Session {
	return q.session
}

func (q *PeopleQuestion) Resolve(ctx context.Context) (report.Section, error) {
	raw, err := q.session.GetAnswer(ctx)
	if err != nil {
		return report.Section{}, err
	}

	if !q.session.Trustworthy() {
		return q.plainSection(raw), nil
	}

	names, titles, err := parsePeople(raw.Answer)
	if err != nil {
		return q.plainSection(raw), nil
	}

	var b strings.Builder
	b.WriteString("<h4 style=\"color: #d30473;font-size: 110%;\">")
	b.WriteString("<table class=\"table table-stripped\">\n<thead>\n<tr><th>Name</th><th>Job Title</th></tr>\n</thead>\n<tbody>\n")
	for i, name := range names {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(name), html.EscapeString(title))
	}
	b.WriteString("</tbody>\n</table></h4>\n")

	parsed := raw.Parse()
	return report.Section{
		Title:   q.Title(),
		Body:    b.String(),
		Sources: parsed.Sources,
	}, nil
}

func (q *PeopleQuestion) plainSection(raw *model.RawAnswer) report.Section {
	parsed := raw.Parse()

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
	}
}

// parsePeople decodes a {'Name': [...], 'Job Title': [...]} payload,
// repairing single quotes first. Name is required; titles may be shorter
// than names.
func parsePeople(text string) (names, titles []string, err error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, nil, fmt.Errorf("questions: people payload: %w", err)
	}

	var payload struct {
		Name     []string `json:"Name"`
		JobTitle []string `json:"Job Title"`
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, nil, fmt.Errorf("questions: decode people payload: %w", err)
	}
	if len(payload.Name) == 0 {
		return nil, nil, fmt.Errorf("questions: people payload has no names")
	}
	return payload.Name, payload.JobTitle, nil
}
