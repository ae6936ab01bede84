package mt4

import (
	"regexp"
	"sort"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
)

// MinAccountDigits is the shortest numeric token accepted as an account number.
const MinAccountDigits = 6

var accountNumberRegexes = []*regexp.Regexp{
	regexp.MustCompile(`A/C No:\s*\**\s*(\d+)`),
	regexp.MustCompile(`Account\s*#\s*:?\s*(\d+)`),
	regexp.MustCompile(`Account Number:\s*(\d+)`),
	regexp.MustCompile(`Account:\s*(\d+)`),
	regexp.MustCompile(`MT4 Account:\s*(\d+)`),
	regexp.MustCompile(`MT5 Account:\s*(\d+)`),
}

// DetectAccountNumbers lists the distinct account numbers mentioned in an HTML
// confirmation, in order of first appearance.
func DetectAccountNumbers(htmlDoc string) []string {
	d, err := parseDocument(htmlDoc)
	if err != nil {
		logger.L.Warn("Failed to parse confirmation HTML", "error", err)
		return nil
	}
	return d.accountNumbers()
}

func (d *document) accountNumbers() []string {
	var numbers []string
	seen := make(map[string]bool)
	add := func(text string) {
		for _, n := range accountNumbersIn(text) {
			if !seen[n] {
				seen[n] = true
				numbers = append(numbers, n)
			}
		}
	}

	add(d.text)
	for _, t := range d.tables {
		for _, r := range t.rows {
			for _, c := range r.cells {
				add(c)
			}
		}
	}
	return numbers
}

// accountNumbersIn returns the plausible account numbers of text ordered by position.
func accountNumbersIn(text string) []string {
	type hit struct {
		pos    int
		number string
	}
	var hits []hit
	for _, re := range accountNumberRegexes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			number := text[m[2]:m[3]]
			if len(number) >= MinAccountDigits {
				hits = append(hits, hit{pos: m[2], number: number})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	numbers := make([]string, 0, len(hits))
	for _, h := range hits {
		numbers = append(numbers, h.number)
	}
	return numbers
}

// splitAccounts distributes the reconciled trades over the accounts found in the
// document. With at most one account every trade and the document-wide summary go to a
// single bundle. Otherwise each account gets the trades whose tickets appear in the
// tables that mention it; an account left with nothing receives the full trade list.
func (d *document) splitAccounts(numbers []string, trades []models.Trade, summary *models.AccountSummary) []models.AccountBundle {
	if len(numbers) <= 1 {
		number := models.UnknownAccountNumber
		if len(numbers) == 1 {
			number = numbers[0]
		}
		if len(numbers) == 0 && len(trades) == 0 && summary == nil {
			return nil
		}
		return []models.AccountBundle{singleBundle(number, trades, summary)}
	}

	bundles := make([]models.AccountBundle, 0, len(numbers))
	for _, number := range numbers {
		scoped := d.tablesFor(number, numbers)
		accountTrades := tradesInTables(scoped, trades)
		confidence := models.SplitExact
		if len(accountTrades) == 0 {
			logger.L.Warn("No trades co-located with account, assigning the full trade list",
				"accountNumber", number, "trades", len(trades))
			accountTrades = append([]models.Trade(nil), trades...)
			confidence = models.SplitFallback
		}

		accountSummary := summaryFor(d.headerFor(number), scoped)
		if accountSummary != nil && accountSummary.AccountNumber == "" {
			accountSummary.AccountNumber = number
		}

		b := models.AccountBundle{
			AccountNumber:   number,
			Trades:          accountTrades,
			AccountSummary:  accountSummary,
			SplitConfidence: confidence,
		}
		if accountSummary != nil {
			b.AccountName = accountSummary.AccountName
			b.Currency = accountSummary.Currency
		}
		bundles = append(bundles, b)
	}
	return bundles
}

func singleBundle(number string, trades []models.Trade, summary *models.AccountSummary) models.AccountBundle {
	b := models.AccountBundle{
		AccountNumber:   number,
		Trades:          trades,
		AccountSummary:  summary,
		SplitConfidence: models.SplitSingle,
	}
	if summary != nil {
		if summary.AccountNumber == "" && number != models.UnknownAccountNumber {
			summary.AccountNumber = number
		}
		b.AccountName = summary.AccountName
		b.Currency = summary.Currency
	}
	return b
}

// tablesFor returns the tables mentioning number. Tables that also mention another
// detected account wrap several sections and say nothing about ownership, so they are
// left out.
func (d *document) tablesFor(number string, all []string) []*table {
	var scoped []*table
	for _, t := range d.tables {
		if !strings.Contains(t.text, number) {
			continue
		}
		shared := false
		for _, other := range all {
			if other != number && strings.Contains(t.text, other) {
				shared = true
				break
			}
		}
		if !shared {
			scoped = append(scoped, t)
		}
	}
	return scoped
}

// tradesInTables selects, in their original order, the trades one of whose leg tickets
// appears in the ticket column of the given tables.
func tradesInTables(tables []*table, trades []models.Trade) []models.Trade {
	tickets := make(map[string]bool)
	for _, t := range tables {
		cols := detectColumns(t)
		for _, r := range t.rows {
			if ticket := r.cell(cols.Ticket); len(ticket) > 3 {
				tickets[ticket] = true
			}
		}
	}

	var selected []models.Trade
	for _, tr := range trades {
		for _, legTicket := range strings.Split(tr.Ticket, "-") {
			if tickets[legTicket] {
				selected = append(selected, tr)
				break
			}
		}
	}
	return selected
}
