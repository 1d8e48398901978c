package questions

import (
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/finance"
	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/report"
	"github.com/sells-group/company-report/internal/retrieval"
	"github.com/sells-group/company-report/internal/spend"
	"github.com/sells-group/company-report/pkg/websearch"
)

// Deps carries the collaborators every question needs.
type Deps struct {
	Answerer answer.Answerer
	Search   websearch.Client
	Rules    *finance.Rules
	// ReportPaths are the pre-extracted text files of the filed report;
	// SpendPath is the spend-cube workbook ("" disables the analysis).
	ReportPaths []string
	SpendPath   string
	// Retrieval tuning. Zero values keep the package defaults.
	TopK            int
	ChunkChars      int
	MaxURLsPerQuery int
	FetchWorkers    int
	FetchRate       float64
}

// Build assembles the full question set for a company, in report order.
// Every question gets its own freshly allocated fallback list; sessions
// sharing the filed-report source share one memoized index build.
func Build(company string, deps Deps) ([]report.Renderable, error) {
	var docOpts []retrieval.DocumentOption
	if deps.ChunkChars > 0 {
		docOpts = append(docOpts, retrieval.WithChunkChars(deps.ChunkChars))
	}
	docs := retrieval.NewDocumentSource(deps.ReportPaths, docOpts...)

	var webOpts []retrieval.WebSearchOption
	if deps.ChunkChars > 0 {
		webOpts = append(webOpts, retrieval.WithWebChunkChars(deps.ChunkChars))
	}
	if deps.MaxURLsPerQuery > 0 {
		webOpts = append(webOpts, retrieval.WithMaxURLsPerQuery(deps.MaxURLsPerQuery))
	}
	if deps.FetchWorkers > 0 {
		webOpts = append(webOpts, retrieval.WithFetchWorkers(deps.FetchWorkers))
	}
	if deps.FetchRate > 0 {
		webOpts = append(webOpts, retrieval.WithFetchRate(deps.FetchRate))
	}

	var sessionOpts []answer.SessionOption
	if deps.TopK > 0 {
		sessionOpts = append(sessionOpts, answer.WithTopK(deps.TopK))
	}

	newSession := func(title, prompt string, tier model.Tier, primary retrieval.Source, fallbackQueries ...string) *answer.Session {
		var fallbacks []retrieval.Source
		if len(fallbackQueries) > 0 {
			fallbacks = []retrieval.Source{
				retrieval.NewWebSearchSource(deps.Search, fallbackQueries, webOpts...),
			}
		}
		q := model.Question{Title: title, Prompt: prompt, Tier: tier}
		return answer.NewSession(q, deps.Answerer, primary, fallbacks, sessionOpts...)
	}
	webSource := func(queries ...string) retrieval.Source {
		return retrieval.NewWebSearchSource(deps.Search, queries, webOpts...)
	}

	var items []report.Renderable

	if deps.SpendPath != "" {
		cube, err := spend.Load(deps.SpendPath, company)
		if err != nil {
			return nil, eris.Wrap(err, "questions: load spend cube")
		}
		items = append(items, spend.NewQuestion(cube))
	}

	items = append(items,
		NewLLMQuestion(newSession(
			fmt.Sprintf("What do clients say about %s?", company),
			fmt.Sprintf("Give me an overview of the media reviews about %s and always specify the date (year, month, day)", company),
			model.TierStandard,
			webSource(
				fmt.Sprintf("%s media reviews", company),
				fmt.Sprintf("%s online reviews", company),
				fmt.Sprintf("Client reviews of %s?", company),
			),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("What are the major announcements of %s?", company),
			fmt.Sprintf("List the major announcements made by %s in the last two years, with their dates", company),
			model.TierStandard,
			webSource(
				fmt.Sprintf("%s major announcements", company),
				fmt.Sprintf("%s press releases", company),
			),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("Was %s involved in scandals or legal issues?", company),
			fmt.Sprintf("Describe any scandals, lawsuits or legal issues involving %s, with dates", company),
			model.TierStandard,
			webSource(
				fmt.Sprintf("%s scandal", company),
				fmt.Sprintf("%s lawsuit", company),
			),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("General information about %s", company),
			fmt.Sprintf("Give a general overview of %s: founding year, headquarters, number of employees and main activities", company),
			model.TierStandard,
			docs,
			fmt.Sprintf("%s company overview", company),
		)),
		NewPeopleQuestion(newSession(
			fmt.Sprintf("Who are the members of %s's management team?", company),
			fmt.Sprintf(managementPrompt, company),
			model.TierAdvanced,
			docs,
			fmt.Sprintf("%s management team", company),
		)),
		NewPeopleQuestion(newSession(
			fmt.Sprintf("Who are the members of %s's Board of directors?", company),
			fmt.Sprintf(boardPrompt, company),
			model.TierAdvanced,
			docs,
			fmt.Sprintf("%s board members", company),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("Who are the clients of %s?", company),
			fmt.Sprintf("List the main clients of %s", company),
			model.TierStandard,
			docs,
			fmt.Sprintf("%s main clients", company),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("Where does %s operate?", company),
			fmt.Sprintf("List the countries and locations where %s operates", company),
			model.TierStandard,
			docs,
			fmt.Sprintf("%s office locations", company),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("Who is the parent company of %s?", company),
			fmt.Sprintf("Extract the name of the parent company of %s, if any", company),
			model.TierStandard,
			docs,
			fmt.Sprintf("%s parent company", company),
		)),
		NewLLMQuestion(newSession(
			fmt.Sprintf("Who are the competitors of %s?", company),
			fmt.Sprintf("List the main competitors of %s", company),
			model.TierStandard,
			docs,
			fmt.Sprintf("%s competitors", company),
		)),
	)

	balance := finance.NewStatementSession(company, finance.StatementBalanceSheet, newSession(
		"",
		balanceSheetPrompt,
		model.TierAdvanced,
		docs,
		fmt.Sprintf("%s Total Assets, Total Current Assets, Total Liabilities, Total Shareholders Equity, Total Current Liabilities", company),
	))
	income := finance.NewStatementSession(company, finance.StatementIncomeStatement, newSession(
		"",
		incomeStatementPrompt,
		model.TierAdvanced,
		docs,
		fmt.Sprintf("%s Net Sales", company),
		fmt.Sprintf("%s Revenue", company),
		fmt.Sprintf("%s Operating Income Net Income", company),
	))

	sourceDoc := ""
	if len(deps.ReportPaths) > 0 {
		sourceDoc = deps.ReportPaths[0]
	}
	items = append(items, finance.NewKeyFinancials(company, balance, income, sourceDoc, deps.Rules))

	items = append(items, NewLLMQuestion(newSession(
		fmt.Sprintf("General financial information about %s", company),
		fmt.Sprintf("Give an overview of the financial situation of %s: revenue trend, profitability and debt position", company),
		model.TierStandard,
		docs,
		fmt.Sprintf("%s financial results", company),
		fmt.Sprintf("%s annual revenue", company),
	)))

	zap.L().Info("questions: set built",
		zap.String("company", company),
		zap.Int("questions", len(items)),
	)
	return items, nil
}

const managementPrompt = `Please extract the names in the management team of %s with their respective position title.

Provide your answer in a json format.

Example of answer:
{
    'Name': ['Jane Smith', 'John Doe'],
    'Job Title': ['Chief Executive Officer', 'Chief Financial Officer']
}`

const boardPrompt = `Please extract the names in the board of directors of %s with their respective position title.

Provide your answer in a json format.

Example of answer:
{
    'Name': ['Jane Smith', 'John Doe'],
    'Job Title': ['Chairwoman', 'Chief Executive Officer']
}`

const balanceSheetPrompt = `Please extract from the "Annual Balance Sheet" table the following figures for all years displayed:
1. Total Assets
2. Total Current Assets
3. Total Liabilities
4. Total Shareholders Equity
5. Total Current Liabilities

Provide your answer in a json format.

Example of answer:
{
    'Year': [2022, 2021, 2020],
    'Total Assets': ['3,321.76', '2.7', '6.637'],
    'Total Current Assets': ['3,321.76', '2.7', '12.537'],
    'Total Liabilities': ['3,14.76', '2.1345', '6.637'],
    'Total Shareholders Equity': ['3,34.76', '2.45345', '6.637'],
    'Total Current Liabilities': ['3,1456.76', '2.1345', '6.637'],
    'Unit': 'million USD'
}

Be careful to display the unit ONLY in the 'Unit' section as in the example.`

const incomeStatementPrompt = `Please extract from the "Annual Income Statement" table the following figures for all years displayed:
1. Net Sales or Revenue
2. Operating Income
3. Net Income

Provide your answer in a json format.

Example of answer:
{
    'Year': [2022, 2021, 2020],
    'Net Sales or Revenue': ['3,321.76', '2.7', '6.637'],
    'Operating Income': ['3,321.76', '2.7', '12.637'],
    'Net Income': ['3,14.76', '2.1345', '6.637'],
    'Unit': 'million USD'
}

Be careful to display the unit ONLY in the 'Unit' section as in the example.`
