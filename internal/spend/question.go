package spend

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/sells-group/company-report/internal/report"
)

// Question is the spend-cube report entry: a pure-computation question
// with no LLM session behind it.
type Question struct {
	cube *Cube
}

// NewQuestion wraps a loaded spend cube as a report question.
func NewQuestion(cube *Cube) *Question {
	return &Question{cube: cube}
}

func (q *Question) Title() string {
	return "Spending with " + q.cube.Company
}

func (q *Question) Resolve(_ context.Context) (report.Section, error) {
	var b strings.Builder

	b.WriteString("<h4 style=\"color: #d30473;font-size: 110%;\">")
	for _, yt := range q.cube.YearlyTotals() {
		fmt.Fprintf(&b, "<br> In %d, the amount spent with %s was %s euros\n",
			yt.FiscalYear, html.EscapeString(q.cube.Company), FormatAmount(yt.SpendEUR))
	}
	b.WriteString("</h4>\n")

	b.WriteString("<h4 style=\"color: #d30473;font-size: 110%;\">")
	b.WriteString("Here are the purchasing segments with their respective spending in euros: ")
	writePivot(&b, q.cube.PivotBy(BySegment), "Segment")
	b.WriteString("</h4>\n")

	b.WriteString("<h4 style=\"color: #d30473;font-size: 110%;\">")
	fmt.Fprintf(&b, "Here are the vendor entities on %s side with their respective spending in euros: ",
		html.EscapeString(q.cube.Company))
	writePivot(&b, q.cube.PivotBy(BySupplier), "Supplier")
	b.WriteString("</h4>\n")

	fmt.Fprintf(&b, "<h4 style=\"color: #d30473;font-size: 110%%;\">Source: %s</h4>\n",
		html.EscapeString(filepath.Base(q.cube.Path)))

	return report.Section{
		Title: q.Title(),
		Body:  b.String(),
	}, nil
}

func writePivot(b *strings.Builder, p *Pivot, entityHeader string) {
	b.WriteString("<table class=\"table table-stripped\">\n<thead>\n<tr>")
	fmt.Fprintf(b, "<th>%s</th>", html.EscapeString(entityHeader))
	for _, y := range p.Years {
		fmt.Fprintf(b, "<th>%d</th>", y)
	}
	b.WriteString("<th>Total</th></tr>\n</thead>\n<tbody>\n")
	for _, row := range p.Rows {
		fmt.Fprintf(b, "<tr><td>%s</td>", html.EscapeString(row.Entity))
		for _, y := range p.Years {
			fmt.Fprintf(b, "<td>%s</td>", FormatAmount(row.ByYear[y]))
		}
		fmt.Fprintf(b, "<td>%s</td></tr>\n", FormatAmount(row.TotalEUR))
	}
	b.WriteString("</tbody>\n</table>")
}
