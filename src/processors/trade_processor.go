// backend/src/processors/trade_processor.go
package processors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/security/validation"
)

// TradeProcessor prepares reconciled trades for storage under one trading account.
type TradeProcessor interface {
	Process(accountNumber string, accountID int64, trades []models.Trade) []models.Trade
}

type tradeProcessorImpl struct{}

func NewTradeProcessor() TradeProcessor { return &tradeProcessorImpl{} }

// Process sanitizes free-text fields, attaches the account and assigns the hash used to
// skip duplicates on re-upload. Trades failing validation are dropped.
func (p *tradeProcessorImpl) Process(accountNumber string, accountID int64, trades []models.Trade) []models.Trade {
	processed := make([]models.Trade, 0, len(trades))
	for _, tr := range trades {
		tr.Item = validation.StripUnprintable(validation.SanitizeText(tr.Item))
		tr.Comment = validation.StripUnprintable(validation.SanitizeText(tr.Comment))
		tr.Order = validation.SanitizeText(tr.Order)

		if err := validation.ValidateTrade(tr); err != nil {
			logger.L.Warn("Dropping invalid trade", "accountNumber", accountNumber, "ticket", tr.Ticket, "error", err)
			continue
		}

		tr.AccountID = accountID
		tr.HashID = generateHash(accountNumber, tr)
		processed = append(processed, tr)
	}
	return processed
}

// generateHash identifies a trade by account, composite ticket and open time.
func generateHash(accountNumber string, tr models.Trade) string {
	input := fmt.Sprintf("%s|%s|%s", accountNumber, tr.Ticket, tr.OpenTime)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
