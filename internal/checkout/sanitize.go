package checkout

import (
	"regexp"
	"strings"
	"unicode"
)

// Live sanitizers mirror the per-keystroke input filtering of the checkout
// form: non-conforming characters are stripped in place as the user types.

var (
	nonNameChars  = regexp.MustCompile(`[^a-zA-Z\s]`)
	nonDigitChars = regexp.MustCompile(`[^0-9]`)
)

// SanitizeName keeps only ASCII letters and whitespace (full name and
// cardholder name fields).
func SanitizeName(s string) string {
	return nonNameChars.ReplaceAllString(s, "")
}

// SanitizeLetters keeps only Unicode letters and whitespace (city, state and
// country fields).
func SanitizeLetters(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// SanitizeDigits keeps only digits (postal code and phone fields).
func SanitizeDigits(s string) string {
	return nonDigitChars.ReplaceAllString(s, "")
}

// FormatCardNumber keeps only digits and truncates to 16 characters.
func FormatCardNumber(s string) string {
	digits := SanitizeDigits(s)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	return digits
}

// FormatExpiry keeps only digits and auto-inserts the MM/YY separator after
// the second digit, matching the live formatting of the expiry input.
func FormatExpiry(s string) string {
	digits := SanitizeDigits(s)
	if len(digits) >= 2 {
		tail := digits[2:]
		if len(tail) > 2 {
			tail = tail[:2]
		}
		return digits[:2] + "/" + tail
	}
	return digits
}

// FormatCVV keeps only digits and truncates to 3 characters.
func FormatCVV(s string) string {
	digits := SanitizeDigits(s)
	if len(digits) > 3 {
		digits = digits[:3]
	}
	return digits
}
