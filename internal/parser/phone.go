package parser

import (
	"regexp"
	"strings"

	"github.com/phonebook-parser/internal/debug"
	"github.com/phonebook-parser/internal/refdata"
)

// Phone shapes anchored at the end of the listing. The area-code form
// ("506 555 1234") is tried before the bare 7/10-digit form because a
// space-separated leading group needs route-number disambiguation.
var (
	reAreaCodePhone = regexp.MustCompile(`(\d{3})\s+(\d{3}[\s-]?\d{4})$`)
	rePhone         = regexp.MustCompile(`(\d{3}[\s-]?\d{3}[\s-]?\d{4}|\d{3}[\s-]?\d{4})$`)

	reThreeDigits = regexp.MustCompile(`^\d{3}$`)
	reLocalNumber = regexp.MustCompile(`^\d{3}-?\d{4}$`)
	reDigitsOnly  = regexp.MustCompile(`\D`)
)

// PhoneExtraction is the outcome of pulling a phone number off the tail
// of a normalized listing.
type PhoneExtraction struct {
	Phone     string
	Remaining string
}

// ExtractPhone finds the trailing phone number in a normalized listing.
// The leading 3-digit group of an area-code-shaped match is reinterpreted
// as a route or suite number when the word before it says so, in which
// case the digits stay with the address.
func ExtractPhone(localDebug bool, input, defaultAreaCode string) (PhoneExtraction, error) {
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	areaCode := reDigitsOnly.ReplaceAllString(defaultAreaCode, "")
	if len(areaCode) != 3 {
		areaCode = ""
	}

	if loc := reAreaCodePhone.FindStringSubmatchIndex(input); loc != nil {
		match := reAreaCodePhone.FindStringSubmatch(input)
		debug.Output(localDebug, "Area-code pattern matched %q at %d", match[0], loc[0])

		before := strings.TrimSpace(input[:loc[0]])
		words := strings.Fields(before)

		if len(words) > 0 {
			lastWord := strings.TrimRight(strings.ToLower(words[len(words)-1]), ".,")
			if refdata.IsRoadIndicator(lastWord) {
				// "Highway 205 555 1234": the 3-digit group is a route
				// number and belongs with the address
				debug.Output(localDebug, "Road indicator %q before 3-digit group, keeping %s with address", lastWord, match[1])
				return PhoneExtraction{
					Phone:     NormalizePhone(match[2], areaCode),
					Remaining: before + " " + match[1],
				}, nil
			}
		}

		return PhoneExtraction{
			Phone:     NormalizePhone(match[1]+match[2], ""),
			Remaining: before,
		}, nil
	}

	if loc := rePhone.FindStringIndex(input); loc != nil {
		phone := strings.TrimSpace(input[loc[0]:loc[1]])
		remaining := strings.TrimSpace(input[:loc[0]])
		words := strings.Fields(remaining)

		if len(words) > 0 && reThreeDigits.MatchString(words[len(words)-1]) {
			lastWord := words[len(words)-1]
			if len(words) > 1 {
				prevWord := strings.TrimRight(strings.ToLower(words[len(words)-2]), ".,")
				debug.Output(localDebug, "Checking %q before 3-digit group %s", prevWord, lastWord)
				if refdata.IsSuiteIndicator(prevWord) {
					// Suite or route number, stays with the address
					return PhoneExtraction{
						Phone:     NormalizePhone(phone, areaCode),
						Remaining: remaining,
					}, nil
				}
			}
			// Detached area code
			return PhoneExtraction{
				Phone:     NormalizePhone(lastWord+phone, ""),
				Remaining: strings.Join(words[:len(words)-1], " "),
			}, nil
		}

		return PhoneExtraction{
			Phone:     NormalizePhone(phone, areaCode),
			Remaining: remaining,
		}, nil
	}

	return PhoneExtraction{}, ErrNoPhoneFound
}

// NormalizePhone strips non-digits and reduces the number to 10 digits
// where possible: 7-digit numbers take the default area code, 11-digit
// numbers starting with the country code drop the 1. Anything else is
// passed through for the caller to judge.
func NormalizePhone(phone, defaultAreaCode string) string {
	digits := reDigitsOnly.ReplaceAllString(phone, "")

	switch {
	case len(digits) == 10:
		return digits
	case len(digits) == 7 && len(defaultAreaCode) == 3:
		return defaultAreaCode + digits
	case len(digits) == 11 && digits[0] == '1':
		return digits[1:]
	}
	return digits
}
