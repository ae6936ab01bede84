package models

// Trade is a reconstructed round-trip position built from a matched pair of legs.
type Trade struct {
	ID         string   `json:"id"`                   // Synthetic, derived from the leg tickets
	OpenTime   string   `json:"open_time"`            // From the opening leg
	CloseTime  string   `json:"close_time,omitempty"` // From the closing leg
	Ticket     string   `json:"ticket"`               // "openTicket-closeTicket"
	Type       string   `json:"type"`                 // Direction of the opening leg
	Size       float64  `json:"size"`
	Item       string   `json:"item"`
	Price      float64  `json:"price"`                // Entry price
	ExitPrice  *float64 `json:"exit_price,omitempty"` // Closing leg price
	Order      string   `json:"order"`                // References both legs' order ids
	Comment    string   `json:"comment"`              // Audit trail: entry, exit and P/L
	State      string   `json:"state"`                // Always "out" once reconciled
	Commission float64  `json:"commission"`           // Sum over both legs
	Fee        float64  `json:"fee"`                  // Sum over both legs
	Swap       float64  `json:"swap"`                 // Sum over both legs
	Profit     float64  `json:"profit"`               // Closing leg only

	// Populated once the trade is attached to a trading account.
	AccountID int64  `json:"account_id,omitempty"`
	HashID    string `json:"hash_id,omitempty"`
}

// FeeDetail is one cost line attributed to a reconciled trade.
type FeeDetail struct {
	Date     string  `json:"date"`
	Ticket   string  `json:"ticket"`
	Item     string  `json:"item"`
	Category string  `json:"category"` // "Commission", "Fee" or "Swap"
	Amount   float64 `json:"amount"`   // Signed, in the account currency
}
