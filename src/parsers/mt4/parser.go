// Package mt4 turns MetaTrader-style broker confirmation emails into reconciled trades
// and account summaries, one bundle per trading account found in the email.
package mt4

import (
	"fmt"
	"io"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/mimedecode"
)

// Parser implements parsers.Parser for MetaTrader confirmation emails.
type Parser struct{}

// NewParser creates a new instance of the Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a whole .eml or .html file and parses it.
func (p *Parser) Parse(r io.Reader) (*models.SmartParsedEmail, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mt4 parser: failed to read email: %w", err)
	}
	return ParseEmail(string(raw)), nil
}

// ParseEmail decodes raw email source and parses the confirmation inside it.
func ParseEmail(raw string) *models.SmartParsedEmail {
	decoded := mimedecode.Decode(raw)
	return parse(decoded.HTML, string(decoded.Strategy))
}

// ParseHTML parses an already decoded confirmation document.
func ParseHTML(htmlDoc string) *models.SmartParsedEmail {
	return parse(htmlDoc, "html")
}

func parse(htmlDoc, strategy string) *models.SmartParsedEmail {
	result := &models.SmartParsedEmail{
		Accounts:    []models.AccountBundle{},
		Diagnostics: models.ParseDiagnostics{DecodeStrategy: strategy, SplitConfidence: models.SplitSingle},
	}

	d, err := parseDocument(htmlDoc)
	if err != nil {
		logger.L.Warn("Failed to parse confirmation HTML, no trades extracted", "error", err)
		return result
	}

	legs := d.deals()
	rec := Reconcile(legs)
	trades := rec.Trades
	if trades == nil {
		trades = []models.Trade{}
	}
	if len(rec.Unmatched) > 0 {
		logger.L.Info("Some transaction legs could not be paired", "legs", len(legs), "unmatched", len(rec.Unmatched))
	}

	numbers := d.accountNumbers()
	bundles := d.splitAccounts(numbers, trades, d.accountSummary())
	for _, b := range bundles {
		if b.SplitConfidence == models.SplitFallback {
			result.Diagnostics.SplitConfidence = models.SplitFallback
		} else if b.SplitConfidence == models.SplitExact && result.Diagnostics.SplitConfidence != models.SplitFallback {
			result.Diagnostics.SplitConfidence = models.SplitExact
		}
	}
	if bundles != nil {
		result.Accounts = bundles
	}

	result.TotalTrades = len(trades)
	result.TotalAccounts = len(result.Accounts)
	result.Diagnostics.LegsFound = len(legs)
	result.Diagnostics.UnmatchedLegs = rec.Unmatched

	logger.L.Debug("Parsed confirmation email",
		"strategy", strategy, "legs", len(legs), "trades", result.TotalTrades, "accounts", result.TotalAccounts)
	return result
}
