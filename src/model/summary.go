package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

// InsertAccountSummary stores a statement summary for an account. uploadID may be 0 when
// the summary does not come from a recorded upload.
func InsertAccountSummary(db DBTX, accountID, uploadID int64, s *models.AccountSummary) error {
	var upload sql.NullInt64
	if uploadID > 0 {
		upload = sql.NullInt64{Int64: uploadID, Valid: true}
	}
	_, err := db.Exec(`
	INSERT INTO account_summaries (
		account_id, upload_id, statement_date, closed_pl, balance, equity, previous_balance, previous_equity,
		total_credit_facility, floating_pl, margin_requirements, available_margin, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, upload, s.Date, s.ClosedPL, s.Balance, s.Equity, s.PreviousBalance, s.PreviousEquity,
		s.TotalCreditFacility, s.FloatingPL, s.MarginRequirements, s.AvailableMargin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert account summary for account %d: %w", accountID, err)
	}
	return nil
}

// GetLatestAccountSummary returns the most recently stored summary of an account.
func GetLatestAccountSummary(db DBTX, accountID int64) (*models.AccountSummary, error) {
	row := db.QueryRow(`
	SELECT a.account_number, a.account_name, a.currency, s.statement_date, s.closed_pl, s.balance, s.equity,
	       s.previous_balance, s.previous_equity, s.total_credit_facility, s.floating_pl,
	       s.margin_requirements, s.available_margin
	FROM account_summaries s
	JOIN trading_accounts a ON a.id = s.account_id
	WHERE s.account_id = ?
	ORDER BY s.id DESC
	LIMIT 1`, accountID)

	var s models.AccountSummary
	err := row.Scan(&s.AccountNumber, &s.AccountName, &s.Currency, &s.Date, &s.ClosedPL, &s.Balance, &s.Equity,
		&s.PreviousBalance, &s.PreviousEquity, &s.TotalCreditFacility, &s.FloatingPL,
		&s.MarginRequirements, &s.AvailableMargin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account summary for account %d: %w", accountID, err)
	}
	return &s, nil
}
