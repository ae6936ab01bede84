package models

// UnknownAccountNumber is used when no account number could be detected in an email.
const UnknownAccountNumber = "Unknown"

// SplitConfidence tells how an account's trades were attributed.
type SplitConfidence string

const (
	// SplitSingle means the email carried at most one account; every trade belongs to it.
	SplitSingle SplitConfidence = "single"
	// SplitExact means trades were matched to the account through co-located tables.
	SplitExact SplitConfidence = "exact"
	// SplitFallback means no co-located trades were found and the full list was assigned.
	SplitFallback SplitConfidence = "fallback"
)

// AccountBundle groups the trades and summary found for one account in an email.
type AccountBundle struct {
	AccountNumber   string          `json:"account_number"`
	AccountName     string          `json:"account_name"`
	Currency        string          `json:"currency"`
	Trades          []Trade         `json:"trades"`
	AccountSummary  *AccountSummary `json:"account_summary"`
	SplitConfidence SplitConfidence `json:"split_confidence"`
}

// ParseDiagnostics records how much of an email was understood, so callers can tell
// a clean parse from a degraded one.
type ParseDiagnostics struct {
	DecodeStrategy string           `json:"decode_strategy"`
	LegsFound      int              `json:"legs_found"`
	UnmatchedLegs  []RawTransaction `json:"unmatched_legs"`

	// SplitFallback when any account fell back to the full trade list.
	SplitConfidence SplitConfidence `json:"split_confidence"`
}

// SmartParsedEmail is the top-level result of parsing one confirmation email.
type SmartParsedEmail struct {
	Accounts      []AccountBundle  `json:"accounts"`
	TotalTrades   int              `json:"total_trades"`
	TotalAccounts int              `json:"total_accounts"`
	Diagnostics   ParseDiagnostics `json:"diagnostics"`
}
