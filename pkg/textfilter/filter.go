package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// separators collapses runs of underscores, hyphens and whitespace
var separators = regexp.MustCompile(`[\s_\-]+`)

// Key reduces an enum-like label to a comparison key.
// "BADLY_POISONED", "badly poisoned" and "Badly-Poisoned" all yield the same key.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = separators.ReplaceAllString(s, " ")
	return cases.Fold().String(s)
}

// Equal reports whether two labels share the same key
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Title title-cases a free-text label, e.g. "calm" -> "Calm", "LEFTOVERS" -> "Leftovers".
// Internal whitespace is collapsed to single spaces.
func Title(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	titleCaser := cases.Title(language.English)
	return titleCaser.String(strings.ToLower(strings.Join(fields, " ")))
}
