package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var reAmpersandSpacing = regexp.MustCompile(`\s*&\s*`)

// splitResidentialName breaks a residential name into last and first
// parts. Phonebook order puts the surname first ("Smith John & Mary"),
// except when the listing leads with initials ("M Allain").
func splitResidentialName(result *Result) {
	name := strings.TrimSpace(result.Name)
	if name == "" {
		return
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		result.LastName = parts[0]
		return
	}

	firstPart := parts[0]
	remainder := strings.Join(parts[1:], " ")

	if isInitials(firstPart) && !isInitials(remainder) {
		result.LastName = remainder
		result.FirstName = firstPart
		return
	}

	result.LastName = firstPart
	result.FirstName = formatFirstName(remainder)
}

// isInitials reports whether the text is one or more initials ("M",
// "AB", "J & M").
func isInitials(text string) bool {
	text = strings.ReplaceAll(strings.TrimSpace(text), ".", "")
	if text == "" {
		return false
	}

	if len(text) <= 2 && allUpper(text) {
		return true
	}

	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '&'
	})
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		p = strings.ReplaceAll(p, ".", "")
		if len(p) > 2 || !allUpper(p) {
			return false
		}
	}
	return true
}

func allUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return s != ""
}

func formatFirstName(firstName string) string {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return ""
	}
	return reAmpersandSpacing.ReplaceAllString(firstName, " & ")
}
