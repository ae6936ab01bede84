package models

import "time"

// AccountSummary is the account-level snapshot printed in a broker confirmation.
// Every numeric field defaults to zero when the label is absent from the document.
type AccountSummary struct {
	AccountNumber       string  `json:"account_number"`
	AccountName         string  `json:"account_name"`
	Currency            string  `json:"currency"`
	Date                string  `json:"date"`
	ClosedPL            float64 `json:"closed_pl"`
	Balance             float64 `json:"balance"`
	Equity              float64 `json:"equity"`
	PreviousBalance     float64 `json:"previous_balance"`
	PreviousEquity      float64 `json:"previous_equity"`
	TotalCreditFacility float64 `json:"total_credit_facility"`
	FloatingPL          float64 `json:"floating_pl"`
	MarginRequirements  float64 `json:"margin_requirements"`
	AvailableMargin     float64 `json:"available_margin"`
}

// TradingAccount is a persisted brokerage account that trades and summaries attach to.
type TradingAccount struct {
	ID            int64     `json:"id"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Currency      string    `json:"currency"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}
