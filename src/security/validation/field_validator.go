// backend/src/security/validation/field_validator.go
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/username/tradejournal/backend/src/models"
)

var ErrValidationFailed = errors.New("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxCurrencyCodeLength  = 3
	MaxItemLength          = 32
	MaxTicketLength        = 100
	MaxCommentLength       = 1024
	MinAccountNumberDigits = 6
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Specific Format Validators ---

var (
	currencyCodeRegex  = regexp.MustCompile(`^[A-Z]{3}$`)
	accountNumberRegex = regexp.MustCompile(`^\d+$`)
	ticketRegex        = regexp.MustCompile(`^[A-Za-z0-9_]+(-[A-Za-z0-9_]+)*$`)
)

// ValidateCurrencyCode checks if currency code is 3 uppercase letters. Empty is allowed.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxCurrencyCodeLength, "Currency Code"); err != nil {
		return err
	}
	if !currencyCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Currency Code ('%s') is not in the expected format (3 uppercase letters)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAccountNumber accepts the placeholder for undetected accounts or a number with
// at least MinAccountNumberDigits digits.
func ValidateAccountNumber(s string) error {
	if s == models.UnknownAccountNumber {
		return nil
	}
	if err := ValidateStringNotEmpty(s, "Account Number"); err != nil {
		return err
	}
	if err := ValidateStringRegex(s, accountNumberRegex, "Account Number", "digits only"); err != nil {
		return err
	}
	if len(s) < MinAccountNumberDigits {
		return fmt.Errorf("%w: Account Number must have at least %d digits", ErrValidationFailed, MinAccountNumberDigits)
	}
	return nil
}

// ValidateTicket checks a leg ticket or a composite "open-close" ticket.
func ValidateTicket(s string) error {
	if err := ValidateStringNotEmpty(s, "Ticket"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(s, MaxTicketLength, "Ticket"); err != nil {
		return err
	}
	return ValidateStringRegex(s, ticketRegex, "Ticket", "alphanumeric tickets joined by hyphens")
}

// ValidateTrade runs the field checks a reconciled trade must pass before it is stored.
func ValidateTrade(t models.Trade) error {
	if err := ValidateTicket(t.Ticket); err != nil {
		return err
	}
	if err := ValidateStringNotEmpty(t.Item, "Item"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(t.Item, MaxItemLength, "Item"); err != nil {
		return err
	}
	if t.Type != models.TypeBuy && t.Type != models.TypeSell {
		return fmt.Errorf("%w: Type ('%s') must be buy or sell", ErrValidationFailed, t.Type)
	}
	if t.Size <= 0 {
		return fmt.Errorf("%w: Size must be positive, got %v", ErrValidationFailed, t.Size)
	}
	return ValidateStringMaxLength(t.Comment, MaxCommentLength, "Comment")
}
