// backend/src/models/transaction.go
package models

// Leg roles as printed in the broker's "Entry" column.
const (
	EntryIn  = "in"
	EntryOut = "out"
)

// Trade directions.
const (
	TypeBuy  = "buy"
	TypeSell = "sell"
)

// RawTransaction is one ledger leg (an opening or closing fill) as it appears in the
// Deals table of a broker confirmation. It only lives for the duration of a parse.
type RawTransaction struct {
	OpenTime   string  `json:"open_time"` // Broker-local timestamp, e.g. "2024.03.01 10:15:00"
	Ticket     string  `json:"ticket"`
	Type       string  `json:"type"` // "buy" or "sell"
	Size       float64 `json:"size"`
	Item       string  `json:"item"` // Instrument symbol
	Price      float64 `json:"price"`
	Order      string  `json:"order"`
	Comment    string  `json:"comment"`
	Entry      string  `json:"entry"` // "in" opens a position, "out" closes it
	Commission float64 `json:"commission"`
	Fee        float64 `json:"fee"`
	Swap       float64 `json:"swap"`
	Profit     float64 `json:"profit"`
}
