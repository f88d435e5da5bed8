// Package normalize turns raw OCR output and user-entered names into the
// canonical form used as reference table keys.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Name returns the canonical form of s: NFKC-normalized, internal whitespace
// collapsed to single spaces, trimmed and lower-cased. Name(Name(s)) == Name(s).
func Name(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers are stateful and must not be shared across goroutines.
	s = cases.Lower(language.Und).String(s)
	// Lower-casing can leave text outside NFKC, so compose again.
	return norm.NFKC.String(s)
}

// Candidates splits raw OCR text into lines and returns the non-empty
// normalized lines in their original order. Duplicates are kept.
func Candidates(raw string) []string {
	if raw == "" {
		return []string{}
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		if c := Name(line); c != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates
}
