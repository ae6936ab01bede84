package mt4

import (
	"regexp"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
)

const (
	labelAccountNo = "A/C No:"
	labelName      = "Name:"
	labelCurrency  = "Currency:"
	labelDate      = "Date:"
)

var headerRowLabels = []string{labelAccountNo, labelName, labelCurrency, labelDate}

var labelPrefixRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z /#]*:`)

// summaryTableMarkers select the tables scanned for account metrics.
var summaryTableMarkers = []string{"A/C Summary:", "Closed P/L:", "Balance:"}

// accountHeader is the identification row of one account section.
type accountHeader struct {
	number   string
	name     string
	currency string
	date     string
}

// ExtractAccountSummary returns the summary of the first account section in an HTML
// confirmation, with metrics taken from every summary table in the document. It returns
// nil when the document carries neither an account header nor any summary table.
func ExtractAccountSummary(htmlDoc string) *models.AccountSummary {
	d, err := parseDocument(htmlDoc)
	if err != nil {
		logger.L.Warn("Failed to parse confirmation HTML", "error", err)
		return nil
	}
	return d.accountSummary()
}

func (d *document) accountSummary() *models.AccountSummary {
	headers := d.accountHeaders()
	var header *accountHeader
	if len(headers) > 0 {
		header = &headers[0]
	}
	return summaryFor(header, d.tables)
}

// summaryFor combines an optional header with the metrics found in tables.
func summaryFor(header *accountHeader, tables []*table) *models.AccountSummary {
	summary := &models.AccountSummary{}
	found := scanMetrics(tables, summary)
	if header != nil {
		summary.AccountNumber = header.number
		summary.AccountName = header.name
		summary.Currency = header.currency
		summary.Date = header.date
		found = true
	}
	if !found {
		return nil
	}
	return summary
}

// accountHeaders returns every row that carries the A/C No, Name and Currency labels,
// in document order, one per distinct account number.
func (d *document) accountHeaders() []accountHeader {
	var headers []accountHeader
	seen := make(map[string]bool)
	for _, t := range d.tables {
		for _, r := range t.rows {
			if r.nested {
				continue
			}
			text := r.text()
			if !strings.Contains(text, labelAccountNo) || !strings.Contains(text, labelName) || !strings.Contains(text, labelCurrency) {
				continue
			}
			h := headerFromRow(r)
			if seen[h.number] {
				continue
			}
			seen[h.number] = true
			headers = append(headers, h)
		}
	}
	return headers
}

func (d *document) headerFor(number string) *accountHeader {
	for _, h := range d.accountHeaders() {
		if h.number == number {
			return &h
		}
	}
	return nil
}

func headerFromRow(r row) accountHeader {
	text := r.text()
	h := accountHeader{
		number:   strings.ReplaceAll(labelValue(text, labelAccountNo), " ", ""),
		name:     labelValue(text, labelName),
		currency: labelValue(text, labelCurrency),
		date:     labelValue(text, labelDate),
	}
	if h.date == "" {
		// Unlabelled date: the last cell that is not one of the labelled ones.
		for i := len(r.cells) - 1; i >= 0; i-- {
			c := stripPadding(r.cells[i])
			if c != "" && !labelPrefixRegex.MatchString(c) {
				h.date = c
				break
			}
		}
	}
	return h
}

// labelValue returns the text after label up to the next cell boundary or the next
// header label, without asterisk padding.
func labelValue(text, label string) string {
	idx := strings.Index(text, label)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(label):]
	end := len(rest)
	if tab := strings.IndexByte(rest, '\t'); tab >= 0 {
		end = tab
	}
	for _, other := range headerRowLabels {
		if other == label {
			continue
		}
		if i := strings.Index(rest[:end], other); i >= 0 {
			end = i
		}
	}
	return stripPadding(rest[:end])
}

func stripPadding(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}

// metricLabel describes one account metric: the labels announcing it, the rows to skip
// and where the value goes.
type metricLabel struct {
	labels  []string
	exclude string
	set     func(*models.AccountSummary, float64)
}

var metricLabels = []metricLabel{
	{labels: []string{"Closed Trade P/L:", "Closed P/L:"}, set: func(s *models.AccountSummary, v float64) { s.ClosedPL = v }},
	{labels: []string{"Balance:"}, exclude: "Previous", set: func(s *models.AccountSummary, v float64) { s.Balance = v }},
	{labels: []string{"Equity:"}, exclude: "Previous", set: func(s *models.AccountSummary, v float64) { s.Equity = v }},
	{labels: []string{"Previous Ledger Balance:"}, set: func(s *models.AccountSummary, v float64) { s.PreviousBalance = v }},
	{labels: []string{"Previous Equity:"}, set: func(s *models.AccountSummary, v float64) { s.PreviousEquity = v }},
	{labels: []string{"Total Credit Facility:"}, set: func(s *models.AccountSummary, v float64) { s.TotalCreditFacility = v }},
	{labels: []string{"Floating P/L:"}, set: func(s *models.AccountSummary, v float64) { s.FloatingPL = v }},
	{labels: []string{"Margin Requirements:"}, set: func(s *models.AccountSummary, v float64) { s.MarginRequirements = v }},
	{labels: []string{"Available Margin:"}, set: func(s *models.AccountSummary, v float64) { s.AvailableMargin = v }},
}

// The value may be separated from its label by punctuation or cell breaks, but not by
// another word, so an empty value never borrows the next label's number.
var metricValueRegex = regexp.MustCompile(`^[^\dA-Za-z+-]*([-+]?\d[\d ,]*(?:\.\d+)?)`)

// scanMetrics fills summary from the rows of every summary table and reports whether
// any such table was present.
func scanMetrics(tables []*table, summary *models.AccountSummary) bool {
	found := false
	for _, t := range tables {
		if !isSummaryTable(t) {
			continue
		}
		found = true
		for _, r := range t.rows {
			if r.nested {
				continue
			}
			text := r.text()
			for _, m := range metricLabels {
				if m.exclude != "" && strings.Contains(text, m.exclude) {
					continue
				}
				for _, label := range m.labels {
					if v, ok := numberAfter(text, label); ok {
						m.set(summary, v)
						break
					}
				}
			}
		}
	}
	return found
}

func isSummaryTable(t *table) bool {
	for _, marker := range summaryTableMarkers {
		if strings.Contains(t.text, marker) {
			return true
		}
	}
	return false
}

func numberAfter(text, label string) (float64, bool) {
	idx := strings.Index(text, label)
	if idx < 0 {
		return 0, false
	}
	m := metricValueRegex.FindStringSubmatch(text[idx+len(label):])
	if m == nil {
		return 0, false
	}
	d, ok := parseDecimal(strings.TrimSpace(m[1]))
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}
