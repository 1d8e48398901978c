package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/retrieval"
)

type fixedRetriever struct{}

func (fixedRetriever) Retrieve(_ context.Context, _ string, _ int) ([]retrieval.Passage, error) {
	return []retrieval.Passage{{Text: "statement text", Origin: "report.txt"}}, nil
}

type fixedSource struct{ name string }

func (s fixedSource) Name() string { return s.name }
func (s fixedSource) Retriever(_ context.Context) (retrieval.Retriever, error) {
	return fixedRetriever{}, nil
}

// countingAnswerer returns the same raw answer every time and counts calls.
type countingAnswerer struct {
	raw   *model.RawAnswer
	calls int
}

func (a *countingAnswerer) Answer(_ context.Context, _ model.Tier, _ string, _ []retrieval.Passage) (*model.RawAnswer, error) {
	a.calls++
	return a.raw, nil
}

func statementSession(t *testing.T, statement string, raw *model.RawAnswer) (*StatementSession, *countingAnswerer) {
	t.Helper()
	ans := &countingAnswerer{raw: raw}
	session := answer.NewSession(
		model.Question{Title: "", Prompt: "extract figures", Tier: model.TierAdvanced},
		ans, fixedSource{name: "docs"}, nil,
	)
	return NewStatementSession("Acme Corp", statement, session), ans
}

func TestStatementSessionTable(t *testing.T) {
	raw := &model.RawAnswer{
		Answer:  `{'Year': [2022], 'Total Assets': ['1,000'], 'Unit': 'million USD'}`,
		Sources: "report.txt",
	}
	s, ans := statementSession(t, StatementBalanceSheet, raw)

	table, err := s.Table(context.Background())
	require.NoError(t, err)
	v, ok := table.Value("Total Assets", 2022)
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)

	again, err := s.Table(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, again, "the parsed table is memoized")
	assert.Equal(t, 1, ans.calls)
}

func TestStatementSessionNotProvided(t *testing.T) {
	raw := &model.RawAnswer{
		Answer:  "The context does not contain the Annual Balance Sheet.",
		Sources: "none",
	}
	s, _ := statementSession(t, StatementBalanceSheet, raw)

	_, err := s.Table(context.Background())
	require.Error(t, err)

	var npe *NotProvidedError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, "The Annual Balance Sheet for Acme Corp is not provided.", err.Error())
}

func TestStatementSessionMalformedPayload(t *testing.T) {
	raw := &model.RawAnswer{
		Answer:  `{'Year': [2022], 'Unit': 'USD'}`,
		Sources: "report.txt",
	}
	s, _ := statementSession(t, StatementIncomeStatement, raw)

	_, err := s.Table(context.Background())
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestKeyFinancialsResolve(t *testing.T) {
	balanceRaw := &model.RawAnswer{
		Answer: `{
			'Year': [2022, 2021],
			'Total Assets': ['1,000', '1,100'],
			'Total Current Assets': ['500', '450'],
			'Total Liabilities': ['400', '380'],
			'Total Shareholders Equity': ['600', '720'],
			'Total Current Liabilities': ['200', '190'],
			'Unit': 'million USD'
		}`,
		Sources: "report.txt",
	}
	incomeRaw := &model.RawAnswer{
		Answer: `{
			'Year': [2022, 2021],
			'Net Sales or Revenue': ['1,000', '950'],
			'Operating Income': ['150', '140'],
			'Net Income': ['90', '100'],
			'Unit': 'million USD'
		}`,
		Sources: "report.txt",
	}
	balance, _ := statementSession(t, StatementBalanceSheet, balanceRaw)
	income, _ := statementSession(t, StatementIncomeStatement, incomeRaw)

	k := NewKeyFinancials("Acme Corp", balance, income, "/data/acme_report.txt", DefaultRules())
	assert.Equal(t, "Key financial indicators of Acme Corp", k.Title())
	assert.Len(t, k.Sessions(), 2)

	section, err := k.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, k.Title(), section.Title)

	assert.Contains(t, section.Body, "Debt-to-Equity Ratio")
	assert.Contains(t, section.Body, "Return on Equity (ROE)")
	assert.Contains(t, section.Body, "The displayed figures are all in million USD")
	assert.Contains(t, section.Body, "Source: acme_report.txt")

	// Total Assets and Net Income both declined in 2022.
	assert.Contains(t, section.Body, "lower than the previous year")
}

func TestKeyFinancialsMissingStatementPropagates(t *testing.T) {
	balance, _ := statementSession(t, StatementBalanceSheet, &model.RawAnswer{
		Answer:  "No information available.",
		Sources: "none",
	})
	income, _ := statementSession(t, StatementIncomeStatement, &model.RawAnswer{
		Answer:  `{'Year': [2022], 'Net Income': ['5'], 'Unit': 'USD'}`,
		Sources: "report.txt",
	})

	k := NewKeyFinancials("Acme Corp", balance, income, "report.txt", DefaultRules())

	_, err := k.Resolve(context.Background())
	require.Error(t, err)
	var npe *NotProvidedError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, StatementBalanceSheet, npe.Statement)
}
