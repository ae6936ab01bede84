package mt4

import (
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func leg(time, ticket, typ, entry, item string, size, price float64) models.RawTransaction {
	return models.RawTransaction{
		OpenTime: time, Ticket: ticket, Type: typ, Entry: entry,
		Item: item, Size: size, Price: price, Order: "o" + ticket,
	}
}

func TestReconcilePairsInWithOut(t *testing.T) {
	open := leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1)
	open.Commission, open.Swap = -3.5, -1.2
	closing := leg("2024.01.15 14:30:00", "50002", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.105)
	closing.Commission, closing.Swap, closing.Fee, closing.Profit = -3.5, -0.3, -0.1, 50

	rec := Reconcile([]models.RawTransaction{open, closing})
	if len(rec.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(rec.Trades))
	}
	trade := rec.Trades[0]

	if trade.Ticket != "50001-50002" || trade.Order != "o50001-o50002" {
		t.Errorf("unexpected composite ids: %s / %s", trade.Ticket, trade.Order)
	}
	if trade.Type != models.TypeBuy || trade.State != models.EntryOut {
		t.Errorf("expected buy/out, got %s/%s", trade.Type, trade.State)
	}
	if trade.OpenTime != open.OpenTime || trade.CloseTime != closing.OpenTime {
		t.Errorf("unexpected times: %s -> %s", trade.OpenTime, trade.CloseTime)
	}
	if !approx(trade.Price, 1.1) || trade.ExitPrice == nil || !approx(*trade.ExitPrice, 1.105) {
		t.Errorf("unexpected prices: %v -> %v", trade.Price, trade.ExitPrice)
	}
	if !approx(trade.Profit, 50) {
		t.Errorf("expected profit of closing leg, got %v", trade.Profit)
	}
	if !approx(trade.Commission, -7) || !approx(trade.Swap, -1.5) || !approx(trade.Fee, -0.1) {
		t.Errorf("expected summed costs, got commission=%v swap=%v fee=%v", trade.Commission, trade.Swap, trade.Fee)
	}
	wantComment := "Entry: 1.1 (2024.01.15 10:00:00) | Exit: 1.105 (2024.01.15 14:30:00) | P/L: 50"
	if trade.Comment != wantComment {
		t.Errorf("unexpected comment\n got: %q\nwant: %q", trade.Comment, wantComment)
	}
	if len(rec.Unmatched) != 0 {
		t.Errorf("expected no unmatched legs, got %d", len(rec.Unmatched))
	}
}

func TestReconcileOnlyOpeningLegs(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 10:05:00", "50002", models.TypeSell, models.EntryIn, "GBPUSD", 1, 1.27),
	}
	rec := Reconcile(legs)
	if len(rec.Trades) != 0 {
		t.Errorf("expected no trades, got %d", len(rec.Trades))
	}
	if len(rec.Unmatched) != 2 {
		t.Errorf("expected both legs unmatched, got %d", len(rec.Unmatched))
	}
}

func TestReconcileClosingLegMustFollowOpening(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 09:00:00", "50002", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.105),
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
	}
	if rec := Reconcile(legs); len(rec.Trades) != 0 {
		t.Errorf("expected an earlier out leg not to close a later in leg, got %d trades", len(rec.Trades))
	}
}

func TestReconcileSizeTolerance(t *testing.T) {
	testCases := []struct {
		name      string
		closeSize float64
		match     bool
	}{
		{"equal", 1.0, true},
		{"within tolerance", 1.0005, true},
		{"outside tolerance", 1.01, false},
		{"partial close", 0.5, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			legs := []models.RawTransaction{
				leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1.0, 1.1),
				leg("2024.01.15 11:00:00", "50002", models.TypeSell, models.EntryOut, "EURUSD", tc.closeSize, 1.2),
			}
			if got := len(Reconcile(legs).Trades) == 1; got != tc.match {
				t.Errorf("match = %v, want %v", got, tc.match)
			}
		})
	}
}

func TestReconcileItemsMustMatch(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 11:00:00", "50002", models.TypeSell, models.EntryOut, "GBPUSD", 1, 1.27),
	}
	if rec := Reconcile(legs); len(rec.Trades) != 0 {
		t.Errorf("expected no trade across instruments, got %d", len(rec.Trades))
	}
}

func TestReconcileFirstCandidateWins(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 11:00:00", "50002", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.11),
		leg("2024.01.15 12:00:00", "50003", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.12),
	}
	rec := Reconcile(legs)
	if len(rec.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(rec.Trades))
	}
	if rec.Trades[0].Ticket != "50001-50002" {
		t.Errorf("expected the first eligible out leg to be used, got %s", rec.Trades[0].Ticket)
	}

	wantStates := []LegState{LegMatchedOpener, LegMatchedCloser, LegUnconsumed}
	for i, s := range rec.States {
		if s != wantStates[i] {
			t.Errorf("leg %d: state %s, want %s", i, s, wantStates[i])
		}
	}
	if len(rec.Unmatched) != 1 || rec.Unmatched[0].Ticket != "50003" {
		t.Errorf("expected leg 50003 to be unmatched, got %+v", rec.Unmatched)
	}
}

func TestReconcileEachLegUsedOnce(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 10:10:00", "50002", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 11:00:00", "50003", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.11),
		leg("2024.01.15 12:00:00", "50004", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.12),
	}
	rec := Reconcile(legs)
	if len(rec.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(rec.Trades))
	}
	if rec.Trades[0].Ticket != "50001-50003" || rec.Trades[1].Ticket != "50002-50004" {
		t.Errorf("unexpected pairing: %s, %s", rec.Trades[0].Ticket, rec.Trades[1].Ticket)
	}
}

func TestReconcileDeterministicIDs(t *testing.T) {
	legs := []models.RawTransaction{
		leg("2024.01.15 10:00:00", "50001", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 11:00:00", "50002", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.11),
		leg("2024.01.15 12:00:00", "50003", models.TypeBuy, models.EntryIn, "EURUSD", 1, 1.1),
		leg("2024.01.15 13:00:00", "50004", models.TypeSell, models.EntryOut, "EURUSD", 1, 1.11),
	}
	first, second := Reconcile(legs), Reconcile(legs)
	if first.Trades[0].ID != second.Trades[0].ID {
		t.Errorf("expected stable IDs across runs: %s vs %s", first.Trades[0].ID, second.Trades[0].ID)
	}
	if first.Trades[0].ID == first.Trades[1].ID {
		t.Errorf("expected distinct trades to get distinct IDs")
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	rec := Reconcile(nil)
	if len(rec.Trades) != 0 || len(rec.Unmatched) != 0 || len(rec.States) != 0 {
		t.Errorf("expected empty reconciliation, got %+v", rec)
	}
}
