package mt4

import (
	"regexp"
	"strings"
)

// DealColumns maps each RawTransaction field to a cell index in a Deals table row.
// A negative index means the column is absent from the layout.
type DealColumns struct {
	Time       int
	Ticket     int
	Type       int
	Size       int
	Item       int
	Price      int
	Order      int
	Comment    int
	Entry      int
	Commission int
	Fee        int
	Swap       int
	Profit     int
}

// DefaultDealColumns is the layout of the daily confirmation Deals table.
var DefaultDealColumns = DealColumns{
	Time: 0, Ticket: 1, Type: 2, Size: 3, Item: 4, Price: 5, Order: 6,
	Comment: 7, Entry: 8, Commission: 9, Fee: 10, Swap: 11, Profit: 12,
}

// MinCells is the number of cells a row needs to carry every mapped column.
func (c DealColumns) MinCells() int {
	max := -1
	for _, idx := range c.indexes() {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

func (c DealColumns) indexes() []int {
	return []int{c.Time, c.Ticket, c.Type, c.Size, c.Item, c.Price, c.Order,
		c.Comment, c.Entry, c.Commission, c.Fee, c.Swap, c.Profit}
}

// headerLabels lists, per field, the header captions that identify its column.
var headerLabels = map[string][]string{
	"time":       {"time", "open time", "date"},
	"ticket":     {"ticket", "deal"},
	"type":       {"type"},
	"size":       {"size", "volume", "lots"},
	"item":       {"item", "symbol"},
	"price":      {"price"},
	"order":      {"order"},
	"comment":    {"comment"},
	"entry":      {"entry", "direction"},
	"commission": {"commission"},
	"fee":        {"fee", "fees"},
	"swap":       {"swap"},
	"profit":     {"profit"},
}

// requiredHeaders must all be present for a header row to define the layout.
var requiredHeaders = []string{"time", "ticket", "type", "size", "item", "price", "entry", "profit"}

var (
	dealDateRegex = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)
	// Other timestamp shapes seen in forwarded confirmations.
	dateMarkerRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{2}[./]\d{2}[./]\d{4}`)
)

// columnsFromHeader derives a layout from a header row, or reports false when the row
// does not name every required column.
func columnsFromHeader(r row) (DealColumns, bool) {
	found := make(map[string]int)
	for i, cell := range r.cells {
		caption := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(cell), ":"))
		for field, labels := range headerLabels {
			if _, seen := found[field]; seen {
				continue
			}
			for _, label := range labels {
				if caption == label {
					found[field] = i
				}
			}
		}
	}
	for _, field := range requiredHeaders {
		if _, ok := found[field]; !ok {
			return DealColumns{}, false
		}
	}
	idx := func(field string) int {
		if i, ok := found[field]; ok {
			return i
		}
		return -1
	}
	return DealColumns{
		Time: idx("time"), Ticket: idx("ticket"), Type: idx("type"), Size: idx("size"),
		Item: idx("item"), Price: idx("price"), Order: idx("order"), Comment: idx("comment"),
		Entry: idx("entry"), Commission: idx("commission"), Fee: idx("fee"),
		Swap: idx("swap"), Profit: idx("profit"),
	}, true
}

// detectColumns returns the layout announced by the table's header row, if any,
// and DefaultDealColumns otherwise.
func detectColumns(t *table) DealColumns {
	for _, r := range t.rows {
		if cols, ok := columnsFromHeader(r); ok {
			return cols
		}
	}
	return DefaultDealColumns
}

func isHeaderLabel(s string) bool {
	caption := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":"))
	for _, label := range headerLabels["time"] {
		if caption == label {
			return true
		}
	}
	return false
}

func isDateCell(s string) bool {
	return dealDateRegex.MatchString(s) || dateMarkerRegex.MatchString(s)
}
