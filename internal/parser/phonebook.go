package parser

import (
	"context"
	"strings"
	"unicode"

	"github.com/phonebook-parser/internal/debug"
	"github.com/phonebook-parser/internal/refdata"
)

// phonebookParse is the result of the name-first heuristic for listings
// shaped like "[LastName] [FirstName-or-Initials] [optional Address]".
type phonebookParse struct {
	isPhonebook       bool
	name              string
	address           string
	addressConfidence int
}

// Trade suffixes that sometimes land on the address side of a split and
// belong with the name ("Smith & Sons 123 Main St").
var tradeSuffixes = map[string]bool{
	"sons": true, "bros": true, "brothers": true, "sisters": true, "and": true,
}

// parsePhonebookFormat recognizes the name-first listing layout. It finds
// where the name ends: a tail community (only when nothing else looks
// like an address), a bare number or unit indicator, a street type after
// two name words, or, failing all of those, as many leading tokens as
// match known name/initial/connector patterns.
func (e *Engine) parsePhonebookFormat(ctx context.Context, localDebug bool, text, province string) phonebookParse {
	words := strings.Fields(text)
	if len(words) == 0 {
		return phonebookParse{}
	}

	// A tail community only marks the address when there are no numbers
	// or unit indicators in the middle of the line
	hasAddressIndicators := false
	for i := 1; i < len(words)-1; i++ {
		if isDigits(words[i]) || refdata.IsUnitIndicator(words[i]) {
			hasAddressIndicators = true
			break
		}
	}

	addressStart := -1
	if !hasAddressIndicators && len(words) >= 3 {
		if cm := e.findCommunityAtEnd(ctx, text, province); cm.found {
			for i := range words {
				if wordOffset(words, i) == cm.startIndex {
					addressStart = i
					break
				}
			}
			debug.Output(localDebug, "Tail community %q marks address start at word %d", cm.communityName, addressStart)
		}
	}

	if addressStart == -1 {
		addressStart = findAddressIndicator(localDebug, words)
	}

	if addressStart == -1 {
		addressStart = e.findNameExtent(ctx, localDebug, words)
	}

	if addressStart == -1 {
		return phonebookParse{}
	}

	if addressStart > len(words) {
		addressStart = len(words)
	}

	result := phonebookParse{
		name:    strings.Join(words[:addressStart], " "),
		address: strings.Join(words[addressStart:], " "),
	}

	// A one-letter "address" is a stranded initial
	if len(result.address) == 1 && unicode.IsLetter(rune(result.address[0])) {
		result.name = result.name + " " + result.address
		result.address = ""
	} else if addressStart < len(words) {
		firstAddressWord := strings.ToLower(words[addressStart])
		if tradeSuffixes[firstAddressWord] {
			result.name = result.name + " " + words[addressStart]
			result.address = strings.Join(words[addressStart+1:], " ")
		}
	}

	if strings.TrimSpace(result.name) == "" {
		return phonebookParse{}
	}

	result.isPhonebook = true
	addressWords := strings.Fields(result.address)
	switch {
	case len(addressWords) > 0 && isDigits(addressWords[0]):
		result.addressConfidence = 90
	case len(addressWords) > 0 && refdata.IsUnitIndicator(addressWords[0]):
		result.addressConfidence = 85
	default:
		result.addressConfidence = 70
	}

	return result
}

// findAddressIndicator scans for the first token that clearly starts an
// address: a bare number, a unit indicator, or a street type sitting
// after at least two name words.
func findAddressIndicator(localDebug bool, words []string) int {
	for i := 1; i < len(words); i++ {
		word := words[i]
		prevWord := words[i-1]

		// Parenthetical numbers like "(1987)" belong to business names
		if isDigits(word) && strings.HasSuffix(prevWord, "(") {
			continue
		}

		if isDigits(word) || refdata.IsUnitIndicator(word) {
			return i
		}

		if refdata.IsStreetType(strings.Trim(word, ".,")) && i > 1 {
			// "Dr" after a two-word name and right before a civic number
			// is the honorific, not Drive
			if strings.EqualFold(strings.Trim(word, "."), "dr") && i >= 2 {
				nextIsNumber := i+1 < len(words) && isDigits(words[i+1])
				if nextIsNumber && i+2 < len(words) {
					debug.Output(localDebug, "Treating %q at %d as honorific, not street type", word, i)
					continue
				}
			}

			prevIsConnector := prevWord == "&" || strings.EqualFold(prevWord, "et")
			if !prevIsConnector {
				// The word before the street type starts the address
				return i - 1
			}
		}
	}
	return -1
}

// findNameExtent determines how many leading tokens form the name when
// no address indicator exists. Two or three non-phone words followed by
// a local number are all name; otherwise leading tokens are absorbed
// while they look like initials, connectors, honorific "Dr", corporate
// suffixes, or words the frequency corpus attests as names.
func (e *Engine) findNameExtent(ctx context.Context, localDebug bool, words []string) int {
	nonPhoneWords := 0
	for _, w := range words {
		if !reLocalNumber.MatchString(w) {
			nonPhoneWords++
		}
	}
	if nonPhoneWords >= 2 && nonPhoneWords <= 3 {
		for i := len(words) - 1; i >= 0 && i >= len(words)-2; i-- {
			if reLocalNumber.MatchString(words[i]) {
				debug.Output(localDebug, "Name-only listing with %d name words", nonPhoneWords)
				return nonPhoneWords
			}
		}
	}

	firstWordIsLastName := false
	if len(words) > 0 {
		rc := e.roleCounts(ctx, strings.Trim(strings.ToLower(words[0]), ".,"))
		firstWordIsLastName = rc.Last > 0 || rc.Both > 0
		if firstWordIsLastName {
			debug.Output(localDebug, "First word %q is a known last name", words[0])
		}
	}

	hasInitial := false
	hasConnector := false
	lastNamePart := 0
	consecutiveNameWords := 0

	limit := len(words)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		word := words[i]
		wordLower := strings.Trim(strings.ToLower(word), ".,")

		switch {
		case len(word) == 1 && unicode.IsLetter(rune(word[0])):
			hasInitial = true
			lastNamePart = i
			consecutiveNameWords++

		case word == "&" || strings.EqualFold(word, "et"):
			hasConnector = true
			lastNamePart = i
			consecutiveNameWords++

		case strings.EqualFold(word, "dr") && i >= 2:
			if i+1 < len(words) && isDigits(words[i+1]) {
				lastNamePart = i
				consecutiveNameWords++
			}

		case !isDigits(word):
			if e.analyzer.IsCorporateSuffix(ctx, wordLower) {
				lastNamePart = i
				consecutiveNameWords++
				continue
			}

			if e.wordLooksLikeName(ctx, localDebug, word, wordLower) || firstWordIsLastName {
				lastNamePart = i
				consecutiveNameWords++
				if hasConnector && i < len(words)-1 {
					lastNamePart = i + 1
				}
			} else {
				return nameExtentFrom(firstWordIsLastName, hasInitial, consecutiveNameWords, lastNamePart, len(words))
			}

		default:
			// A number ends the name
			return nameExtentFrom(firstWordIsLastName, hasInitial, consecutiveNameWords, lastNamePart, len(words))
		}
	}

	return nameExtentFrom(firstWordIsLastName, hasInitial, consecutiveNameWords, lastNamePart, len(words))
}

func nameExtentFrom(firstWordIsLastName, hasInitial bool, consecutiveNameWords, lastNamePart, wordCount int) int {
	switch {
	case firstWordIsLastName:
		extent := lastNamePart + 1
		if extent < 2 && wordCount >= 2 {
			extent = 2
		}
		return extent
	case hasInitial || consecutiveNameWords > 0:
		return lastNamePart + 1
	case wordCount >= 2:
		return 2
	default:
		return 1
	}
}

// wordLooksLikeName consults the frequency corpus: a word used as a name
// at least as often as a business word reads as a name, and an unknown
// capitalized word of sane length gets the benefit of the doubt.
func (e *Engine) wordLooksLikeName(ctx context.Context, localDebug bool, word, wordLower string) bool {
	rc := e.roleCounts(ctx, wordLower)
	maxName := rc.MaxName()

	if maxName > 0 || rc.Business > 0 {
		likely := maxName >= rc.Business
		debug.Output(localDebug, "Word %q counts: name=%d business=%d likelyName=%v", wordLower, maxName, rc.Business, likely)
		return likely
	}

	return len(word) <= 15 && len(word) > 0 && unicode.IsUpper(rune(word[0]))
}
