package report

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Build resolves every question in order and assembles the HTML document.
// Questions are resolved to completion one at a time, fallbacks included;
// a failing question renders an explanatory sentence in place of its
// content and never blocks the others.
func Build(ctx context.Context, company string, questions []Renderable) string {
	var b strings.Builder
	b.WriteString("<html>\n<body>\n")
	fmt.Fprintf(&b, "<h1 style=\"color: #003883;\">Market Research on %s</h1>\n", html.EscapeString(company))

	for _, q := range questions {
		section, err := q.Resolve(ctx)
		if err != nil {
			zap.L().Error("report: question failed",
				zap.String("question", q.Title()),
				zap.Error(err),
			)
			section = Section{
				Title: q.Title(),
				Body:  fmt.Sprintf("<h4 style=\"color: #d30473;font-size: 110%%;\">%s</h4>\n", html.EscapeString(err.Error())),
			}
		}
		writeSection(&b, section)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// WriteFile builds the report and writes it to path.
func WriteFile(ctx context.Context, company string, questions []Renderable, path string) error {
	doc := Build(ctx, company, questions)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	zap.L().Info("report: written",
		zap.String("company", company),
		zap.String("path", path),
		zap.Int("questions", len(questions)),
	)
	return nil
}

func writeSection(b *strings.Builder, s Section) {
	if s.Title != "" {
		fmt.Fprintf(b, "<h2 style=\"color: #003883;font-size: 130%%;\">%s</h2>\n", html.EscapeString(s.Title))
	}
	b.WriteString(s.Body)
	if len(s.Sources) > 0 {
		b.WriteString("<h4 style=\"color: #223349;font-size: 110%;\">\n")
		for _, src := range s.Sources {
			fmt.Fprintf(b, "<a href=%q> <li>%s</li> </a>\n", src, html.EscapeString(src))
		}
		b.WriteString("</h4>\n")
	}
}
