package validation

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func TestValidateFileName(t *testing.T) {
	testCases := []struct {
		name    string
		wantErr error
	}{
		{"confirmation.eml", nil},
		{"Statement.HTML", nil},
		{"daily.htm", nil},
		{"statement.pdf", ErrPDFNotSupported},
		{"trades.csv", ErrValidationFailed},
		{"noextension", ErrValidationFailed},
	}
	for _, tc := range testCases {
		err := ValidateFileName(tc.name)
		if tc.wantErr == nil && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestValidateClientContentType(t *testing.T) {
	for _, ct := range []string{"", "message/rfc822", "text/html; charset=utf-8", "application/octet-stream"} {
		if err := ValidateClientContentType(ct); err != nil {
			t.Errorf("%q: unexpected error %v", ct, err)
		}
	}
	if err := ValidateClientContentType("application/pdf"); !errors.Is(err, ErrPDFNotSupported) {
		t.Errorf("expected PDF rejection, got %v", err)
	}
	if err := ValidateClientContentType("image/png"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation failure, got %v", err)
	}
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	eml := "From: broker@example.com\r\nSubject: Daily Confirmation\r\n\r\nHello"
	r := strings.NewReader(eml)
	if _, err := ValidateFileContentByMagicBytes(r); err != nil {
		t.Fatalf("unexpected error for email: %v", err)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != eml {
		t.Errorf("expected the reader to be rewound")
	}

	if ct, err := ValidateFileContentByMagicBytes(strings.NewReader("<html><body>Deals:</body></html>")); err != nil || ct != "text/html" {
		t.Errorf("expected text/html, got %q (%v)", ct, err)
	}

	if _, err := ValidateFileContentByMagicBytes(strings.NewReader("%PDF-1.7\n...")); !errors.Is(err, ErrPDFNotSupported) {
		t.Errorf("expected PDF rejection, got %v", err)
	}
	if _, err := ValidateFileContentByMagicBytes(strings.NewReader("MZ\x00\x01\x02")); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected binary rejection, got %v", err)
	}
	if _, err := ValidateFileContentByMagicBytes(strings.NewReader("")); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected empty file rejection, got %v", err)
	}
	controls := strings.Repeat("\x01\x02\x03ab", 50)
	if _, err := ValidateFileContentByMagicBytes(strings.NewReader(controls)); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected rejection of control-heavy content, got %v", err)
	}
}

func TestValidateFileContentAcceptsEightBitText(t *testing.T) {
	latin1HTML := "<html><body><table><tr><td>Name: Jos\xe9 M\xfcller</td></tr><tr><td>Deals:</td></tr></table></body></html>"
	if ct, err := ValidateFileContentByMagicBytes(strings.NewReader(latin1HTML)); err != nil || ct != "text/html" {
		t.Errorf("latin-1 HTML: got %q (%v)", ct, err)
	}

	eightBitEML := "From: broker@example.com\r\nContent-Type: text/html; charset=windows-1252\r\n" +
		"Content-Transfer-Encoding: 8bit\r\n\r\n<p>Soci\xe9t\xe9 G\xe9n\xe9rale \x80 500</p>"
	if _, err := ValidateFileContentByMagicBytes(strings.NewReader(eightBitEML)); err != nil {
		t.Errorf("8-bit email: unexpected error %v", err)
	}
}

func TestValidateAccountNumber(t *testing.T) {
	valid := []string{"12345678", "123456", models.UnknownAccountNumber}
	invalid := []string{"", "12345", "12a45678", " 1234567"}
	for _, s := range valid {
		if err := ValidateAccountNumber(s); err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
		}
	}
	for _, s := range invalid {
		if err := ValidateAccountNumber(s); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("%q: expected validation failure, got %v", s, err)
		}
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	for _, s := range []string{"", "USD", "eur"} {
		if err := ValidateCurrencyCode(s); err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
		}
	}
	for _, s := range []string{"US", "DOLLAR", "U5D"} {
		if err := ValidateCurrencyCode(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestValidateTrade(t *testing.T) {
	good := models.Trade{Ticket: "50001-50002", Item: "EURUSD", Type: models.TypeBuy, Size: 1}
	if err := ValidateTrade(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []models.Trade{
		{Ticket: "", Item: "EURUSD", Type: models.TypeBuy, Size: 1},
		{Ticket: "50001 50002", Item: "EURUSD", Type: models.TypeBuy, Size: 1},
		{Ticket: "50001-50002", Item: "", Type: models.TypeBuy, Size: 1},
		{Ticket: "50001-50002", Item: "EURUSD", Type: "balance", Size: 1},
		{Ticket: "50001-50002", Item: "EURUSD", Type: models.TypeSell, Size: 0},
	}
	for i, tr := range bad {
		if err := ValidateTrade(tr); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("case %d: expected validation failure, got %v", i, err)
		}
	}
}

func TestSanitizers(t *testing.T) {
	if got := SanitizeText("<b>EURUSD</b><script>alert(1)</script>"); got != "EURUSD" {
		t.Errorf("SanitizeText: got %q", got)
	}
	for _, plain := range []string{"S&P500", "Smith & Co", "O'Neil \"Ltd\""} {
		if got := SanitizeText(plain); got != plain {
			t.Errorf("SanitizeText(%q) = %q, want the text unchanged", plain, got)
		}
	}
	if got := StripUnprintable("EUR\x00USD\x07"); got != "EURUSD" {
		t.Errorf("StripUnprintable: got %q", got)
	}
}
