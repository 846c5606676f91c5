package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation patterns
var (
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Ugandan mobile numbers: optional 256 or 0 prefix, then 7 and 8 digits
	PhoneRegex      = regexp.MustCompile(`^(256|0)?7[0-9]{8}$`)
	CardNumberRegex = regexp.MustCompile(`^[0-9]{13,19}$`)
	ExpiryRegex     = regexp.MustCompile(`^[0-9]{2}/[0-9]{2}$`)
	CVVRegex        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// NormalizePhone strips all whitespace from a phone number.
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// ValidatePhone checks a Ugandan mobile number after whitespace removal.
func ValidatePhone(phone string) error {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return fmt.Errorf("phone number is required")
	}
	if !PhoneRegex.MatchString(normalized) {
		return fmt.Errorf("invalid phone number format")
	}
	return nil
}

// FormatInternationalPhone converts a local Ugandan number to +256 form.
// Already-international numbers pass through unchanged.
func FormatInternationalPhone(phone string) string {
	p := NormalizePhone(phone)
	switch {
	case strings.HasPrefix(p, "+"):
		return p
	case strings.HasPrefix(p, "0"):
		return "+256" + p[1:]
	case strings.HasPrefix(p, "256"):
		return "+" + p
	default:
		return "+256" + p
	}
}

// ValidateEmail checks if email format is valid
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// CleanCardNumber strips spaces from a card number.
func CleanCardNumber(cardNumber string) string {
	return strings.Join(strings.Fields(cardNumber), "")
}

// ValidateCardNumber checks the digits-only 13-19 length rule on a cleaned number.
func ValidateCardNumber(cleaned string) error {
	if !CardNumberRegex.MatchString(cleaned) {
		return fmt.Errorf("invalid card number format")
	}
	return nil
}

// ParseExpiry parses an MM/YY expiry string.
func ParseExpiry(expiry string) (month, year int, err error) {
	if !ExpiryRegex.MatchString(expiry) {
		return 0, 0, fmt.Errorf("invalid expiry date format, use MM/YY")
	}
	if _, err := fmt.Sscanf(expiry, "%02d/%02d", &month, &year); err != nil {
		return 0, 0, fmt.Errorf("invalid expiry date format, use MM/YY")
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid expiry date format, use MM/YY")
	}
	return month, year, nil
}

// ExpiryInPast reports whether (month, year) is before now's two-digit
// year and month.
func ExpiryInPast(month, year int, now time.Time) bool {
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	return year < currentYear || (year == currentYear && month < currentMonth)
}

// ValidateCVV checks the 3-4 digit rule.
func ValidateCVV(cvv string) error {
	if !CVVRegex.MatchString(cvv) {
		return fmt.Errorf("invalid CVV")
	}
	return nil
}

// Card brands
const (
	CardVisa       = "Visa"
	CardMasterCard = "MasterCard"
	CardAmex       = "American Express"
	CardUnknown    = "Unknown"
)

// CardType classifies a cleaned card number by its prefix.
func CardType(cleaned string) string {
	switch {
	case strings.HasPrefix(cleaned, "4"):
		return CardVisa
	case matchRange(cleaned, '5', '1', '5'), matchRange(cleaned, '2', '2', '7'):
		return CardMasterCard
	case strings.HasPrefix(cleaned, "34"), strings.HasPrefix(cleaned, "37"):
		return CardAmex
	default:
		return CardUnknown
	}
}

// matchRange reports whether the number starts with first and a second digit
// in [lo,hi].
func matchRange(s string, first, lo, hi byte) bool {
	return len(s) >= 2 && s[0] == first && s[1] >= lo && s[1] <= hi
}

// MaskCardNumber redacts everything but the last four digits.
func MaskCardNumber(cleaned string) string {
	if len(cleaned) <= 4 {
		return "****" + cleaned
	}
	return "****" + cleaned[len(cleaned)-4:]
}

// LastFourDigits returns the trailing four digits of a cleaned card number.
func LastFourDigits(cleaned string) string {
	if len(cleaned) <= 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}

// FormatAmount renders a whole-unit amount with thousands separators,
// e.g. 50000 -> "50,000".
func FormatAmount(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
