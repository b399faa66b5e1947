package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims a scraped text run and collapses inner whitespace,
// dropping non-printable characters the game pages sometimes embed.
func CleanText(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	cleaned := strings.Trim(out.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(cleaned, " ")
}

// ParseInt turns a scraped numeric text run like "5,267" into an integer.
// Thousands separators are stripped before parsing. Anything that still
// fails to parse yields 0, the canonical value for missing markup.
func ParseInt(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

// ParseFloat is ParseInt for fractional counters such as XP percentages.
func ParseFloat(text string) float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return f
}
