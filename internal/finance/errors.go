// Package finance turns semi-structured statement answers into numeric
// tables, derives ratios across a balance sheet and an income statement,
// and flags concerning figures per configured alert rules.
package finance

import "fmt"

// Statement labels, used in prompts and user-facing failure messages.
const (
	StatementBalanceSheet    = "Annual Balance Sheet"
	StatementIncomeStatement = "Annual Income Statement"
)

// NotProvidedError reports that a statement could not be retrieved for a
// company: the answer stayed untrustworthy after every fallback. It is
// the user-facing substitute for the table, never a fatal condition for
// the rest of the report.
type NotProvidedError struct {
	Company   string
	Statement string
}

func (e *NotProvidedError) Error() string {
	return fmt.Sprintf("The %s for %s is not provided.", e.Statement, e.Company)
}

// ParseError reports that a trustworthy answer was nonetheless not shaped
// as the expected statement payload. Distinct from NotProvidedError: the
// retrieval succeeded, the payload did not decode.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "statement payload malformed: " + e.Reason
}
