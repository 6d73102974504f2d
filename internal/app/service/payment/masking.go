package payment

import (
	"strings"
	"unicode"
)

const maskedCardPlaceholder = "XXXX-XXXX-XXXX-0000"

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// MaskCard keeps only the last four digits of a card number.
func MaskCard(cardNumber string) string {
	sanitized := digitsOnly(cardNumber)
	if len(sanitized) < 4 {
		return maskedCardPlaceholder
	}
	return "XXXX-XXXX-XXXX-" + sanitized[len(sanitized)-4:]
}

// CardBrand derives the network from the card number prefix.
func CardBrand(cardNumber string) string {
	s := digitsOnly(cardNumber)
	switch {
	case strings.HasPrefix(s, "4"):
		return "VISA"
	case len(s) >= 2 && s[0] == '5' && s[1] >= '1' && s[1] <= '5':
		return "MASTERCARD"
	case strings.HasPrefix(s, "34"), strings.HasPrefix(s, "37"):
		return "AMEX"
	case strings.HasPrefix(s, "6"):
		return "RUPAY"
	default:
		return "CARD"
	}
}

// MaskUpi hides all but the first two characters of the UPI handle. Only the
// segment between the first and second '@' is kept as the provider.
func MaskUpi(upiID string) string {
	parts := strings.Split(upiID, "@")
	if len(parts) == 1 {
		return firstRunes(upiID, 2) + "***@upi"
	}
	return firstRunes(parts[0], 2) + "***@" + parts[1]
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SanitizeCardNumber strips whitespace and hyphens.
func SanitizeCardNumber(cardNumber string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, cardNumber)
}
