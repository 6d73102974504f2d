package payment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	cardPattern   = regexp.MustCompile(`^[0-9]{16}$`)
)

type CardDetails struct {
	Number string
	Holder string
	Expiry string
	Cvv    string
}

// ValidateCard checks the card fields and returns the sanitized number.
func ValidateCard(card CardDetails) (string, error) {
	sanitized := SanitizeCardNumber(card.Number)
	if !cardPattern.MatchString(sanitized) {
		return "", ErrInvalidCardNumber
	}
	if utf8.RuneCountInString(strings.TrimSpace(card.Holder)) < 3 {
		return "", ErrInvalidCardHolder
	}
	if !expiryPattern.MatchString(card.Expiry) {
		return "", ErrInvalidExpiry
	}
	if !cvvPattern.MatchString(card.Cvv) {
		return "", ErrInvalidCvv
	}
	return sanitized, nil
}

// ValidateUpiID returns the trimmed UPI id.
func ValidateUpiID(upiID string) (string, error) {
	if !strings.Contains(upiID, "@") {
		return "", ErrInvalidUpiID
	}
	return strings.TrimSpace(upiID), nil
}
