package mt4

import (
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func TestExtractDealsDefaultLayout(t *testing.T) {
	legs := ExtractDeals(singleAccountHTML)
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}

	open := legs[0]
	if open.OpenTime != "2024.01.15 10:00:00" || open.Ticket != "50001" || open.Item != "EURUSD" {
		t.Errorf("unexpected opening leg: %+v", open)
	}
	if open.Type != models.TypeBuy || open.Entry != models.EntryIn {
		t.Errorf("expected buy/in, got %s/%s", open.Type, open.Entry)
	}
	if !approx(open.Size, 1) || !approx(open.Price, 1.1) || !approx(open.Commission, -3.5) {
		t.Errorf("unexpected numbers on opening leg: %+v", open)
	}
	if open.Order != "750001" {
		t.Errorf("expected order 750001, got %q", open.Order)
	}

	closing := legs[1]
	if closing.Entry != models.EntryOut || !approx(closing.Profit, 50) || !approx(closing.Swap, -0.4) {
		t.Errorf("unexpected closing leg: %+v", closing)
	}
}

func TestExtractDealsRowRules(t *testing.T) {
	testCases := []struct {
		name   string
		row    string
		accept bool
	}{
		{"valid", deal("2024.01.15 10:00:00", "50001", "buy", "1", "EURUSD", "1.1", "in", "0", "0", "0"), true},
		{"short ticket", deal("2024.01.15 10:00:00", "501", "buy", "1", "EURUSD", "1.1", "in", "0", "0", "0"), false},
		{"empty item", deal("2024.01.15 10:00:00", "50001", "buy", "1", "", "1.1", "in", "0", "0", "0"), false},
		{"balance type", deal("2024.01.15 10:00:00", "50001", "balance", "", "EURUSD", "", "", "0", "0", "1000"), false},
		{"no timestamp", deal("Total", "50001", "buy", "1", "EURUSD", "1.1", "in", "0", "0", "0"), false},
		{"too few cells", tr("2024.01.15 10:00:00", "50001", "buy", "1", "EURUSD"), false},
		{"header row", tr(dealHeader...), false},
		{"dashed date", deal("2024-01-15 10:00", "50001", "sell", "1", "EURUSD", "1.1", "out", "0", "0", "0"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			legs := ExtractDeals(page(dealsTable(tc.row)))
			if got := len(legs) == 1; got != tc.accept {
				t.Errorf("accept = %v, want %v (legs: %+v)", got, tc.accept, legs)
			}
		})
	}
}

func TestExtractDealsNormalizesFields(t *testing.T) {
	row := tr("2024.01.15 10:00:00", "50001", "Buy", "1 000", "XAUUSD", "2 034,50", "", "", "", "", "", "-1,25", "1 234.50")
	legs := ExtractDeals(page(dealsTable(row)))
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(legs))
	}
	leg := legs[0]
	if leg.Type != models.TypeBuy {
		t.Errorf("expected type to be lowercased, got %q", leg.Type)
	}
	if leg.Entry != models.EntryIn {
		t.Errorf("expected missing entry to default to in, got %q", leg.Entry)
	}
	if !approx(leg.Size, 1000) || !approx(leg.Price, 2034.5) {
		t.Errorf("unexpected size/price: %v/%v", leg.Size, leg.Price)
	}
	if leg.Commission != 0 || leg.Fee != 0 {
		t.Errorf("expected empty amounts to default to 0, got %v/%v", leg.Commission, leg.Fee)
	}
	if !approx(leg.Swap, -1.25) || !approx(leg.Profit, 1234.5) {
		t.Errorf("unexpected swap/profit: %v/%v", leg.Swap, leg.Profit)
	}
}

func TestExtractDealsIgnoresOtherTables(t *testing.T) {
	positions := "<table>" + tr("Open Positions:") +
		deal("2024.01.15 10:00:00", "50009", "buy", "1", "EURUSD", "1.1", "in", "0", "0", "0") + "</table>"
	if legs := ExtractDeals(page(positions)); len(legs) != 0 {
		t.Errorf("expected rows outside Deals tables to be ignored, got %d", len(legs))
	}
}

func TestExtractDealsNestedTablesCountedOnce(t *testing.T) {
	inner := dealsTable(deal("2024.01.15 10:00:00", "50001", "buy", "1", "EURUSD", "1.1", "in", "0", "0", "0"))
	outer := "<table><tr><td>" + inner + "</td></tr></table>"
	if legs := ExtractDeals(page(outer)); len(legs) != 1 {
		t.Errorf("expected 1 leg, got %d", len(legs))
	}
}

func TestExtractDealsHeaderLayout(t *testing.T) {
	header := tr("Time", "Deal", "Symbol", "Type", "Direction", "Volume", "Price",
		"Order", "Commission", "Fee", "Swap", "Profit", "Comment")
	row := tr("2024.01.15 10:00:00", "80001", "GBPUSD", "sell", "in", "0.30", "1.2700",
		"90001", "-0.90", "0.00", "0.00", "0.00", "manual")
	table := "<table>" + tr("Deals:") + header + row + "</table>"

	legs := ExtractDeals(page(table))
	if len(legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(legs))
	}
	leg := legs[0]
	if leg.Ticket != "80001" || leg.Item != "GBPUSD" || leg.Type != models.TypeSell || leg.Entry != models.EntryIn {
		t.Errorf("columns not mapped from header: %+v", leg)
	}
	if !approx(leg.Size, 0.3) || !approx(leg.Commission, -0.9) || leg.Comment != "manual" || leg.Order != "90001" {
		t.Errorf("columns not mapped from header: %+v", leg)
	}
}

func TestDealColumnsMinCells(t *testing.T) {
	if got := DefaultDealColumns.MinCells(); got != 13 {
		t.Errorf("expected 13, got %d", got)
	}
	cols := DealColumns{Time: 0, Ticket: 1, Type: 2, Size: 3, Item: 4, Price: 5, Order: -1,
		Comment: -1, Entry: 6, Commission: -1, Fee: -1, Swap: -1, Profit: 7}
	if got := cols.MinCells(); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}
