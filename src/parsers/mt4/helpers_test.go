package mt4

import (
	"encoding/base64"
	"math"
	"strings"
)

var dealHeader = []string{"Time", "Ticket", "Type", "Size", "Item", "Price", "Order",
	"Comment", "Entry", "Commission", "Fee", "Swap", "Profit"}

func tr(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

// deal renders a row in the default Deals layout.
func deal(time, ticket, typ, size, item, price, entry, commission, swap, profit string) string {
	return tr(time, ticket, typ, size, item, price, "7"+ticket, "", entry, commission, "0.00", swap, profit)
}

func dealsTable(rows ...string) string {
	return "<table>" + tr("Deals:") + tr(dealHeader...) + strings.Join(rows, "") + "</table>"
}

func page(body ...string) string {
	return "<html><head><title>Daily Confirmation</title></head><body>" + strings.Join(body, "") + "</body></html>"
}

// singleAccountHTML is a daily confirmation for one account holding one EURUSD round trip.
var singleAccountHTML = page(
	"<table>"+tr("A/C No: 12345678", "Name: John Doe", "Currency: USD", "2024.01.15 23:59")+"</table>",
	dealsTable(
		deal("2024.01.15 10:00:00", "50001", "buy", "1.00", "EURUSD", "1.1000", "in", "-3.50", "0.00", "0.00"),
		deal("2024.01.15 14:30:00", "50002", "sell", "1.00", "EURUSD", "1.1050", "out", "-3.50", "-0.40", "50.00"),
	),
	"<table>"+
		tr("A/C Summary:")+
		tr("Closed Trade P/L:", "50.00")+
		tr("Previous Ledger Balance:", "10 000.00")+
		tr("Balance:", "10 050.00")+
		tr("Previous Equity:", "10 000.00")+
		tr("Equity:", "10 050.00")+
		tr("Floating P/L:", "0.00")+
		tr("Margin Requirements:", "0.00")+
		tr("Available Margin:", "10 050.00")+
		"</table>",
)

func accountSection(number, name, currency string, deals ...string) string {
	return "<table>" +
		tr("A/C No: "+number, "Name: "+name, "Currency: "+currency, "Date: 2024.01.15") +
		tr("Deals:") +
		tr(dealHeader...) +
		strings.Join(deals, "") +
		tr("Balance:", "1 000.00") +
		"</table>"
}

var twoAccountSections = []string{
	accountSection("11111111", "Alpha", "USD",
		deal("2024.01.15 09:00:00", "60001", "buy", "0.50", "EURUSD", "1.1000", "in", "-1.00", "0.00", "0.00"),
		deal("2024.01.15 11:00:00", "60002", "sell", "0.50", "EURUSD", "1.1020", "out", "-1.00", "0.00", "10.00"),
	),
	accountSection("22222222", "Beta", "EUR",
		deal("2024.01.15 09:30:00", "60003", "sell", "2.00", "GBPUSD", "1.2700", "in", "-4.00", "0.00", "0.00"),
		deal("2024.01.15 12:00:00", "60004", "buy", "2.00", "GBPUSD", "1.2650", "out", "-4.00", "0.00", "100.00"),
		deal("2024.01.15 13:00:00", "60005", "buy", "1.00", "USDJPY", "148.20", "in", "-2.00", "0.00", "0.00"),
		deal("2024.01.15 15:00:00", "60006", "sell", "1.00", "USDJPY", "148.50", "out", "-2.00", "0.00", "20.27"),
	),
}

var twoAccountHTML = page(twoAccountSections...)

// fallbackHTML mentions a second account whose section carries no deals.
var fallbackHTML = page(
	accountSection("11111111", "Alpha", "USD",
		deal("2024.01.15 09:00:00", "60001", "buy", "0.50", "EURUSD", "1.1000", "in", "-1.00", "0.00", "0.00"),
		deal("2024.01.15 11:00:00", "60002", "sell", "0.50", "EURUSD", "1.1020", "out", "-1.00", "0.00", "10.00"),
	),
	"<table>"+tr("A/C No: 33333333", "Name: Gamma", "Currency: GBP", "Date: 2024.01.15")+"</table>",
)

func wrapLines(s string, n int) string {
	var b strings.Builder
	for len(s) > n {
		b.WriteString(s[:n])
		b.WriteString("\r\n")
		s = s[n:]
	}
	b.WriteString(s)
	return b.String()
}

func base64EML(htmlBody string) string {
	return strings.Join([]string{
		"From: confirmations@broker.example",
		"Subject: Fwd: Daily Confirmation",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		`Content-Type: text/html; charset="utf-8"`,
		"Content-Transfer-Encoding: base64",
		"",
		wrapLines(base64.StdEncoding.EncodeToString([]byte(htmlBody)), 76),
		"--b1--",
		"",
	}, "\r\n")
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
