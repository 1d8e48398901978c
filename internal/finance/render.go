package finance

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
)

// RenderHTML renders a highlighted table as an HTML fragment: the matrix
// itself, the unit line, the concern legend, and a provenance footer
// naming the source document.
func RenderHTML(r *Rendered, company, unit, sourceDoc string) string {
	var b strings.Builder

	b.WriteString("<h4 style=\"color: #d30473;font-size: 110%;\">")
	b.WriteString("<table class=\"center\">\n<thead>\n<tr><th>Year</th>")
	for _, col := range r.Columns {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(col))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, year := range r.Years {
		fmt.Fprintf(&b, "<tr><th>%d</th>", year)
		for _, col := range r.Columns {
			// Flagged cells carry their own span markup.
			fmt.Fprintf(&b, "<td>%s</td>", r.Cells[col][year])
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")

	fmt.Fprintf(&b, "<br>The displayed figures are all in %s. ", html.EscapeString(unit))
	fmt.Fprintf(&b, "<br>Figures highlighted in red indicate concerning aspect regarding %s's financial health.", html.EscapeString(company))
	b.WriteString("</h4>\n")

	fmt.Fprintf(&b, "<h4 style=\"color: #d30473;font-size: 110%%;\">Source: %s</h4>\n", html.EscapeString(filepath.Base(sourceDoc)))

	return b.String()
}
