// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
)

// AccountUploadResult reports what one upload stored for one trading account.
type AccountUploadResult struct {
	Account         models.TradingAccount  `json:"account"`
	Created         bool                   `json:"created"`
	TradesFound     int                    `json:"trades_found"`
	NewTrades       int                    `json:"new_trades"`
	SummaryStored   bool                   `json:"summary_stored"`
	SplitConfidence models.SplitConfidence `json:"split_confidence"`
}

// UploadResult is the result of a single ProcessUpload call.
type UploadResult struct {
	UploadID      int64                   `json:"upload_id"`
	Filename      string                  `json:"filename"`
	Accounts      []AccountUploadResult   `json:"accounts"`
	TotalAccounts int                     `json:"total_accounts"`
	TotalTrades   int                     `json:"total_trades"`
	NewTrades     int                     `json:"new_trades"`
	Diagnostics   models.ParseDiagnostics `json:"diagnostics"`
}

// Define common service errors
var (
	ErrParsingFailed   = errors.New("email parsing failed")
	ErrNoAccountsFound = errors.New("no trading accounts found in email")
	ErrUnsupportedFile = errors.New("unsupported file")
)

// UploadService defines the interface for the core upload processing logic.
type UploadService interface {
	ProcessUpload(fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error)
	// PreviewUpload parses without storing anything.
	PreviewUpload(fileReader io.Reader, source, filename string) (*models.SmartParsedEmail, error)
	GetTradingAccounts() ([]models.TradingAccount, error)
	GetTrades(accountID int64) ([]models.Trade, error)
	GetAccountSummary(accountID int64) (*models.AccountSummary, error)
	GetFeeDetails(accountID int64) ([]models.FeeDetail, error)
	DeleteTrades(accountID int64) (int64, error)
	GetUploadHistory(limit int) ([]model.UploadRecord, error)
	InvalidateAccountCache(accountID int64)
}
