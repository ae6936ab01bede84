package mt4

import (
	"fmt"
	"regexp"
	"strconv"
)

var auditCommentRegex = regexp.MustCompile(
	`^Entry: (-?\d+(?:\.\d+)?) \((.*?)\) \| Exit: (-?\d+(?:\.\d+)?) \((.*?)\) \| P/L: (-?\d+(?:\.\d+)?)$`)

// AuditComment is the information a reconciled trade keeps in its comment.
type AuditComment struct {
	EntryPrice float64
	OpenTime   string
	ExitPrice  float64
	CloseTime  string
	Profit     float64
}

// FormatAuditComment renders "Entry: p (t) | Exit: p (t) | P/L: x".
func FormatAuditComment(entryPrice float64, openTime string, exitPrice float64, closeTime string, profit float64) string {
	return fmt.Sprintf("Entry: %s (%s) | Exit: %s (%s) | P/L: %s",
		formatNumber(entryPrice), openTime, formatNumber(exitPrice), closeTime, formatNumber(profit))
}

// ParseAuditComment reverses FormatAuditComment.
func ParseAuditComment(s string) (AuditComment, bool) {
	m := auditCommentRegex.FindStringSubmatch(s)
	if m == nil {
		return AuditComment{}, false
	}
	entry, err1 := strconv.ParseFloat(m[1], 64)
	exit, err2 := strconv.ParseFloat(m[3], 64)
	profit, err3 := strconv.ParseFloat(m[5], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return AuditComment{}, false
	}
	return AuditComment{EntryPrice: entry, OpenTime: m[2], ExitPrice: exit, CloseTime: m[4], Profit: profit}, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
