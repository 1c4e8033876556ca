package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses any interior
// whitespace run into a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeGuestName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases the address after whitespace normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(TrimAndNormalize(email))
}

// FirstName returns the first whitespace-separated token of a normalized
// guest name. Booking line sort keys embed it.
func FirstName(name string) string {
	name = TrimAndNormalize(name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i]
	}
	return name
}
