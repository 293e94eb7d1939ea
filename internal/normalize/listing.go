package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/phonebook-parser/internal/debug"
)

// Token is a whitespace-delimited substring of the normalized listing
// together with its character offset in that listing.
type Token struct {
	Text   string
	Offset int
}

// Clean returns the token text with trailing/leading punctuation removed,
// the form used for dictionary lookups.
func (t Token) Clean() string {
	return strings.Trim(t.Text, ".,")
}

// IsDigits reports whether the token is purely numeric.
func (t Token) IsDigits() bool {
	if t.Text == "" {
		return false
	}
	for _, r := range t.Text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsInitial reports whether the token is a single letter, optionally with
// a trailing period ("J", "m.").
func (t Token) IsInitial() bool {
	w := t.Text
	if len(w) == 1 {
		return unicode.IsLetter(rune(w[0]))
	}
	if len(w) == 2 && w[1] == '.' {
		return unicode.IsLetter(rune(w[0]))
	}
	return false
}

// IsConnector reports whether the token joins two names ("&", "and",
// "et", "or").
func (t Token) IsConnector() bool {
	switch strings.ToLower(t.Text) {
	case "&", "and", "et", "or":
		return true
	}
	return false
}

// Boilerplate phrases printed on phonebook pages that carry no listing
// information. The toll-free banner appears mid-line in scanned input.
var reTollFree = regexp.MustCompile(`(?i)Composez\s+sans\s+frais\s*/\s*Call\s+no\s+charge\s*\.?\s*1?`)

var reWhitespace = regexp.MustCompile(`\s+`)

// CanonicalListing normalizes a raw phonebook line: strips known
// boilerplate, maps underscores to spaces, and collapses runs of
// whitespace. Normalizing an already-normalized line is a no-op.
func CanonicalListing(raw string) string {
	return CanonicalListingDebug(false, raw)
}

// CanonicalListingDebug normalizes a raw line with optional trace output
func CanonicalListingDebug(localDebug bool, raw string) string {
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	if raw == "" {
		return ""
	}

	s := raw
	debug.Output(localDebug, "Input: %s", s)

	if loc := reTollFree.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + " " + s[loc[1]:]
		debug.Output(localDebug, "Removed toll-free banner: %s", s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = reWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	debug.Output(localDebug, "Canonical: %s", s)

	return s
}

// Tokenize splits a normalized listing into offset-tagged tokens.
// Offsets index into the normalized string, so a span of tokens maps back
// to a substring.
func Tokenize(s string) []Token {
	var tokens []Token
	i := 0
	for i < len(s) {
		if s[i] == ' ' {
			i++
			continue
		}
		start := i
		for i < len(s) && s[i] != ' ' {
			i++
		}
		tokens = append(tokens, Token{Text: s[start:i], Offset: start})
	}
	return tokens
}

// IsBlank checks if a listing is effectively empty after normalization
func IsBlank(raw string) bool {
	return CanonicalListing(raw) == ""
}
