package parser

import (
	"context"
	"strings"

	"github.com/phonebook-parser/internal/debug"
	"github.com/phonebook-parser/internal/normalize"
	"github.com/phonebook-parser/internal/refdata"
)

// StreetLookup answers whether a span of words is a known street name.
// Implementations dedupe the underlying reference rows; failures degrade
// to a negative match at the call site.
type StreetLookup interface {
	StreetExists(ctx context.Context, span, province string) (bool, error)
}

// CommunityLookup answers whether a span of words is a known community.
type CommunityLookup interface {
	CommunityExists(ctx context.Context, span, province string) (bool, error)
}

// streetMatch is a resolved name/address boundary anchored on a street.
type streetMatch struct {
	found      bool
	streetName string
	startIndex int
	confidence int
}

type communityMatch struct {
	found         bool
	communityName string
	startIndex    int
}

// streetExists wraps the lookup so a store failure reads as "unknown
// street" instead of failing the parse.
func (e *Engine) streetExists(ctx context.Context, span, province string) bool {
	ok, err := e.streets.StreetExists(ctx, span, province)
	if err != nil {
		e.log.Warn().Err(err).Str("span", span).Msg("street lookup unavailable, treating as no match")
		return false
	}
	return ok
}

func (e *Engine) communityExists(ctx context.Context, span, province string) bool {
	ok, err := e.communities.CommunityExists(ctx, span, province)
	if err != nil {
		e.log.Warn().Err(err).Str("span", span).Msg("community lookup unavailable, treating as no match")
		return false
	}
	return ok
}

// findBestStreetMatch locates the name/address boundary by anchoring on
// street-type words. Anchors are processed right to left so "Road" wins
// over a false "Mountain" hit in "Mountain Road". From each anchor the
// street name is grown backward one word at a time and the longest span
// the street reference still recognizes wins; growth stops at the first
// span that fails even if shorter spans matched. Up to two bare digit
// tokens before the street are folded in as unit and civic numbers.
func (e *Engine) findBestStreetMatch(ctx context.Context, localDebug bool, text, province string) streetMatch {
	words := strings.Fields(text)

	var anchors []int
	for i, w := range words {
		word := strings.Trim(w, ".,")
		if refdata.IsProvinceCode(word) {
			continue
		}
		if refdata.IsStreetType(word) {
			anchors = append(anchors, i)
			debug.Output(localDebug, "Street type %q at position %d", word, i)
		}
	}

	for k := len(anchors) - 1; k >= 0; k-- {
		i := anchors[k]
		if i == 0 {
			debug.Output(localDebug, "Street type %q leads the text, no street name before it", words[i])
			continue
		}

		longestValid := ""
		longestStart := i
		for startIdx := i - 1; startIdx >= 0; startIdx-- {
			span := strings.Join(words[startIdx:i], " ")
			debug.Output(localDebug, "Checking street span %q (province %q)", span, province)
			if !e.streetExists(ctx, span, province) {
				break
			}
			longestValid = span
			longestStart = startIdx
		}

		if longestValid == "" {
			debug.Output(localDebug, "No valid street name before type %q", words[i])
			continue
		}

		addressStart := longestStart
		if longestStart > 0 {
			j := longestStart - 1
			if isDigits(words[j]) {
				addressStart = j
				if j > 0 && isDigits(words[j-1]) {
					addressStart = j - 1
				}
			}
		}

		debug.Output(localDebug, "Longest valid street %q, address starts at word %d", longestValid, addressStart)
		return streetMatch{
			found:      true,
			streetName: longestValid,
			startIndex: wordOffset(words, addressStart),
			confidence: 90,
		}
	}

	return streetMatch{}
}

// findCommunityMatch scans for a 1-2 word span naming a known community,
// skipping stopwords and generic business-category words.
func (e *Engine) findCommunityMatch(ctx context.Context, localDebug bool, text, province string) communityMatch {
	words := strings.Fields(text)

	for i := range words {
		word := strings.Trim(words[i], ".,")
		if refdata.IsCommunitySkipWord(word) {
			continue
		}

		debug.Output(localDebug, "Checking community %q", word)
		if e.communityExists(ctx, word, province) {
			return communityMatch{found: true, communityName: word, startIndex: wordOffset(words, i)}
		}

		if i < len(words)-1 {
			twoWords := strings.Trim(words[i]+" "+words[i+1], ".,")
			if e.communityExists(ctx, twoWords, province) {
				return communityMatch{found: true, communityName: twoWords, startIndex: wordOffset(words, i)}
			}
		}
	}

	return communityMatch{}
}

// findCommunityAtEnd checks the listing tail for a known community name,
// longest span first (3 words, then 2, then 1). The span must leave at
// least two name words before it and must not look like a phone fragment.
func (e *Engine) findCommunityAtEnd(ctx context.Context, text, province string) communityMatch {
	words := strings.Fields(text)
	if len(words) < 3 {
		return communityMatch{}
	}

	maxSpan := 3
	if len(words)-2 < maxSpan {
		maxSpan = len(words) - 2
	}

	for n := maxSpan; n >= 1; n-- {
		start := len(words) - n
		if spanLooksLikePhone(words[start:]) {
			continue
		}
		span := strings.Join(words[start:], " ")
		if e.communityExists(ctx, span, province) {
			return communityMatch{found: true, communityName: span, startIndex: wordOffset(words, start)}
		}
	}

	return communityMatch{}
}

// findFirstNumber returns the character offset of the first standalone
// digit token, or -1.
func findFirstNumber(text string) int {
	words := strings.Fields(text)
	for i, w := range words {
		if isDigits(w) {
			return wordOffset(words, i)
		}
	}
	return -1
}

// wordOffset maps a word index back to a character offset, assuming
// single-space-joined words (guaranteed by normalization).
func wordOffset(words []string, idx int) int {
	pos := 0
	for k := 0; k < idx; k++ {
		pos += len(words[k]) + 1
	}
	return pos
}

func isDigits(s string) bool {
	return normalize.Token{Text: s}.IsDigits()
}

func spanLooksLikePhone(words []string) bool {
	for _, w := range words {
		if reLocalNumber.MatchString(w) || reThreeDigits.MatchString(w) {
			return true
		}
	}
	return false
}
