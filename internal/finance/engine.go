package finance

import (
	"context"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/report"
)

// StatementSession resolves one financial-statement question and parses
// its answer into a numeric table. The parse is derived from the
// session's final answer only, and only after the quality verdict passed:
// an untrustworthy answer is never parsed, it becomes a NotProvidedError.
type StatementSession struct {
	company   string
	statement string
	session   *answer.Session
	table     *Table
}

// NewStatementSession wraps an answer session for the given statement
// type ("Annual Balance Sheet" or "Annual Income Statement").
func NewStatementSession(company, statement string, session *answer.Session) *StatementSession {
	return &StatementSession{
		company:   company,
		statement: statement,
		session:   session,
	}
}

// Table resolves the session (fallbacks included) and returns the parsed
// numeric table, memoized for repeated calls.
func (s *StatementSession) Table(ctx context.Context) (*Table, error) {
	if s.table != nil {
		return s.table, nil
	}

	raw, err := s.session.GetAnswer(ctx)
	if err != nil {
		return nil, err
	}
	if !answer.Trustworthy(raw.Answer, raw.Sources) {
		return nil, &NotProvidedError{Company: s.company, Statement: s.statement}
	}

	t, err := ParseStatement(raw.Answer)
	if err != nil {
		return nil, err
	}
	s.table = t
	return t, nil
}

// Session exposes the underlying answer session for run audits.
func (s *StatementSession) Session() *answer.Session {
	return s.session
}

// KeyFinancials is the combined financial-indicators question: it joins
// the balance-sheet and income-statement tables, derives ratios, applies
// the alert rules, and renders the highlighted matrix with a provenance
// footer. A missing statement surfaces as its explanatory message in
// place of the table; other report entries are unaffected.
type KeyFinancials struct {
	company   string
	balance   *StatementSession
	income    *StatementSession
	sourceDoc string
	rules     *Rules
}

// NewKeyFinancials creates the combined question. rules must not be nil;
// pass DefaultRules() when no configuration file is in play.
func NewKeyFinancials(company string, balance, income *StatementSession, sourceDoc string, rules *Rules) *KeyFinancials {
	return &KeyFinancials{
		company:   company,
		balance:   balance,
		income:    income,
		sourceDoc: sourceDoc,
		rules:     rules,
	}
}

// Sessions exposes both statement sessions for run audits.
func (k *KeyFinancials) Sessions() []*answer.Session {
	return []*answer.Session{k.balance.session, k.income.session}
}

func (k *KeyFinancials) Title() string {
	return "Key financial indicators of " + k.company
}

// Resolve builds the combined highlighted table. Errors (statement not
// provided, malformed payload) propagate so the report builder can
// substitute the explanatory sentence.
func (k *KeyFinancials) Resolve(ctx context.Context) (report.Section, error) {
	balanceTable, err := k.balance.Table(ctx)
	if err != nil {
		return report.Section{}, err
	}
	incomeTable, err := k.income.Table(ctx)
	if err != nil {
		return report.Section{}, err
	}

	combined := Combine(balanceTable, incomeTable)
	AddRatios(combined)
	combined.Round()
	rendered := Highlight(combined, k.rules)

	return report.Section{
		Title: k.Title(),
		Body:  RenderHTML(rendered, k.company, combined.Unit, k.sourceDoc),
	}, nil
}
