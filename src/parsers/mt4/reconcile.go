package mt4

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/username/tradejournal/backend/src/models"
)

// SizeTolerance is the largest size difference at which an opening and a closing leg
// are still considered the same position.
var SizeTolerance = decimal.RequireFromString("0.001")

// tradeNamespace scopes the name-based UUIDs given to reconciled trades, so the same
// pair of legs always yields the same trade ID.
var tradeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tradejournal/trade"))

// LegState tracks a leg through one reconciliation pass.
type LegState uint8

const (
	LegUnconsumed LegState = iota
	LegMatchedOpener
	LegMatchedCloser
)

func (s LegState) String() string {
	switch s {
	case LegMatchedOpener:
		return "matched-opener"
	case LegMatchedCloser:
		return "matched-closer"
	default:
		return "unconsumed"
	}
}

// Reconciliation is the outcome of pairing legs into trades.
type Reconciliation struct {
	Trades []models.Trade
	// Unmatched holds, in document order, every leg that ended the pass unconsumed.
	Unmatched []models.RawTransaction
	// States is indexed like the input legs.
	States []LegState
}

// Reconcile pairs each "in" leg with the first later, unconsumed "out" leg on the same
// instrument whose size is within SizeTolerance. It is a single greedy pass: there is no
// backtracking and no search for a better fit, and legs that find no partner are
// reported as unmatched rather than turned into trades. Worst case is O(n²).
func Reconcile(legs []models.RawTransaction) Reconciliation {
	states := make([]LegState, len(legs))
	var trades []models.Trade

	for i, open := range legs {
		if states[i] != LegUnconsumed || open.Entry != models.EntryIn {
			continue
		}
		for j := i + 1; j < len(legs); j++ {
			closing := legs[j]
			if states[j] != LegUnconsumed || closing.Entry != models.EntryOut {
				continue
			}
			if closing.Item != open.Item || !sameSize(open.Size, closing.Size) {
				continue
			}
			states[i] = LegMatchedOpener
			states[j] = LegMatchedCloser
			trades = append(trades, buildTrade(open, closing))
			break
		}
	}

	var unmatched []models.RawTransaction
	for i, s := range states {
		if s == LegUnconsumed {
			unmatched = append(unmatched, legs[i])
		}
	}
	return Reconciliation{Trades: trades, Unmatched: unmatched, States: states}
}

func sameSize(a, b float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThan(SizeTolerance)
}

func buildTrade(open, closing models.RawTransaction) models.Trade {
	ticket := open.Ticket + "-" + closing.Ticket
	exit := closing.Price
	return models.Trade{
		ID:         uuid.NewSHA1(tradeNamespace, []byte(ticket+"|"+open.OpenTime+"|"+closing.OpenTime)).String(),
		OpenTime:   open.OpenTime,
		CloseTime:  closing.OpenTime,
		Ticket:     ticket,
		Type:       open.Type,
		Size:       open.Size,
		Item:       open.Item,
		Price:      open.Price,
		ExitPrice:  &exit,
		Order:      open.Order + "-" + closing.Order,
		Comment:    FormatAuditComment(open.Price, open.OpenTime, closing.Price, closing.OpenTime, closing.Profit),
		State:      models.EntryOut,
		Commission: sum(open.Commission, closing.Commission),
		Fee:        sum(open.Fee, closing.Fee),
		Swap:       sum(open.Swap, closing.Swap),
		Profit:     closing.Profit,
	}
}
