package mt4

import (
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
)

// DealsTableMarker identifies the table that lists transaction legs.
const DealsTableMarker = "Deals:"

// ExtractDeals returns every transaction leg found in the Deals tables of an HTML
// confirmation, in document order. Unparseable documents yield no legs.
func ExtractDeals(htmlDoc string) []models.RawTransaction {
	d, err := parseDocument(htmlDoc)
	if err != nil {
		logger.L.Warn("Failed to parse confirmation HTML", "error", err)
		return nil
	}
	return d.deals()
}

func (d *document) deals() []models.RawTransaction {
	var legs []models.RawTransaction
	for _, t := range d.dealsTables() {
		cols := detectColumns(t)
		for _, r := range t.rows {
			leg, ok := legFromRow(r, cols)
			if ok {
				legs = append(legs, leg)
			}
		}
	}
	return legs
}

func (d *document) dealsTables() []*table {
	var tables []*table
	for _, t := range d.tables {
		if strings.Contains(t.text, DealsTableMarker) {
			tables = append(tables, t)
		}
	}
	return tables
}

// legFromRow maps a candidate row to a RawTransaction. Rows that are too short, that do
// not start with a timestamp, or that fail the ticket/type/item checks are rejected.
func legFromRow(r row, cols DealColumns) (models.RawTransaction, bool) {
	if len(r.cells) < cols.MinCells() {
		return models.RawTransaction{}, false
	}
	first := r.cell(cols.Time)
	if isHeaderLabel(first) || !isDateCell(first) {
		return models.RawTransaction{}, false
	}

	leg := models.RawTransaction{
		OpenTime:   r.cell(cols.Time),
		Ticket:     r.cell(cols.Ticket),
		Type:       strings.ToLower(r.cell(cols.Type)),
		Size:       parseNumber(r.cell(cols.Size)),
		Item:       r.cell(cols.Item),
		Price:      parseNumber(r.cell(cols.Price)),
		Order:      r.cell(cols.Order),
		Comment:    r.cell(cols.Comment),
		Entry:      strings.ToLower(r.cell(cols.Entry)),
		Commission: parseNumber(r.cell(cols.Commission)),
		Fee:        parseNumber(r.cell(cols.Fee)),
		Swap:       parseNumber(r.cell(cols.Swap)),
		Profit:     parseNumber(r.cell(cols.Profit)),
	}
	if leg.Entry != models.EntryIn && leg.Entry != models.EntryOut {
		leg.Entry = models.EntryIn
	}

	if len(leg.Ticket) <= 3 || leg.Item == "" {
		return models.RawTransaction{}, false
	}
	if leg.Type != models.TypeBuy && leg.Type != models.TypeSell {
		logger.L.Debug("Skipping deal row with unsupported type", "ticket", leg.Ticket, "type", leg.Type)
		return models.RawTransaction{}, false
	}
	return leg, true
}
