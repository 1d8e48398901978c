package questions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-report/internal/model"
)

func TestPeopleQuestionResolveTable(t *testing.T) {
	q := NewPeopleQuestion(newTestSession("Board of directors?", &model.RawAnswer{
		Answer:  `{'Name': ['Jane Smith', 'John Doe'], 'Job Title': ['Chairwoman', 'CEO']}`,
		Sources: "report.txt",
	}))

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.Contains(t, section.Body, "<th>Name</th><th>Job Title</th>")
	assert.Contains(t, section.Body, "<td>Jane Smith</td><td>Chairwoman</td>")
	assert.Contains(t, section.Body, "<td>John Doe</td><td>CEO</td>")
	assert.Equal(t, []string{"report.txt"}, section.Sources)
}

func TestPeopleQuestionMissingTitles(t *testing.T) {
	q := NewPeopleQuestion(newTestSession("Board?", &model.RawAnswer{
		Answer:  `{'Name': ['Jane Smith', 'John Doe'], 'Job Title': ['Chairwoman']}`,
		Sources: "report.txt",
	}))

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.Contains(t, section.Body, "<td>John Doe</td><td></td>")
}

func TestPeopleQuestionUnstructuredFallsBack(t *testing.T) {
	q := NewPeopleQuestion(newTestSession("Board?", &model.RawAnswer{
		Answer:  "The board is chaired by Jane Smith.",
		Sources: "report.txt",
	}))

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, section.Body, "<table")
	assert.Contains(t, section.Body, "The board is chaired by Jane Smith.")
}

func TestPeopleQuestionUntrustworthyFallsBack(t *testing.T) {
	q := NewPeopleQuestion(newTestSession("Board?", &model.RawAnswer{
		Answer:  "The context does not mention any board members.",
		Sources: "none",
	}))

	section, err := q.Resolve(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, section.Body, "<table")
	assert.Contains(t, section.Body, "does not mention")
}

func TestParsePeople(t *testing.T) {
	names, titles, err := parsePeople(`{'Name': ['A'], 'Job Title': ['B']}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names)
	assert.Equal(t, []string{"B"}, titles)

	_, _, err = parsePeople(`{'Job Title': ['B']}`)
	assert.Error(t, err)
}
