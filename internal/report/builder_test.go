package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuestion resolves to a fixed section or error.
type fakeQuestion struct {
	title   string
	section Section
	err     error
}

func (q fakeQuestion) Title() string { return q.title }

func (q fakeQuestion) Resolve(_ context.Context) (Section, error) {
	if q.err != nil {
		return Section{}, q.err
	}
	return q.section, nil
}

func TestBuild(t *testing.T) {
	questions := []Renderable{
		fakeQuestion{
			title: "General information about Acme",
			section: Section{
				Title:   "General information about Acme",
				Body:    "<h4>Founded in 1987.</h4>\n",
				Sources: []string{"report.txt"},
			},
		},
	}

	doc := Build(context.Background(), "Acme", questions)

	assert.Contains(t, doc, `<h1 style="color: #003883;">Market Research on Acme</h1>`)
	assert.Contains(t, doc, "General information about Acme")
	assert.Contains(t, doc, "Founded in 1987.")
	assert.Contains(t, doc, `<a href="report.txt"> <li>report.txt</li> </a>`)
}

func TestBuildFailingQuestionDoesNotBlockOthers(t *testing.T) {
	questions := []Renderable{
		fakeQuestion{title: "Broken question", err: eris.New("The Annual Balance Sheet for Acme is not provided.")},
		fakeQuestion{
			title:   "Working question",
			section: Section{Title: "Working question", Body: "<h4>fine</h4>\n"},
		},
	}

	doc := Build(context.Background(), "Acme", questions)

	assert.Contains(t, doc, "The Annual Balance Sheet for Acme is not provided.")
	assert.Contains(t, doc, "Working question")
	assert.Contains(t, doc, "fine")
}

func TestBuildEscapesCompany(t *testing.T) {
	doc := Build(context.Background(), "A&B <Corp>", nil)
	assert.Contains(t, doc, "A&amp;B &lt;Corp&gt;")
}

func TestBuildUntitledSection(t *testing.T) {
	questions := []Renderable{
		fakeQuestion{section: Section{Body: "<h4>body only</h4>\n"}},
	}
	doc := Build(context.Background(), "Acme", questions)
	assert.NotContains(t, doc, "<h2")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	questions := []Renderable{
		fakeQuestion{title: "Q", section: Section{Title: "Q", Body: "<h4>x</h4>\n"}},
	}

	require.NoError(t, WriteFile(context.Background(), "Acme", questions, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Market Research on Acme")
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(context.Background(), "Acme", nil, "/nonexistent/dir/report.html")
	assert.Error(t, err)
}
