package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
)

// WordClass is the per-token label assigned by the context-map strategy.
type WordClass int

const (
	ClassUnknown WordClass = iota
	ClassFirst
	ClassLast
	ClassBoth
	ClassBusiness
	ClassInitial
	ClassConnector
	ClassIndeterminate
)

func (c WordClass) String() string {
	switch c {
	case ClassFirst:
		return "first"
	case ClassLast:
		return "last"
	case ClassBoth:
		return "both"
	case ClassBusiness:
		return "business"
	case ClassInitial:
		return "initial"
	case ClassConnector:
		return "connector"
	case ClassIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// wordContext carries a token's role counts and its resolved class.
type wordContext struct {
	word      string
	first     int
	last      int
	both      int
	business  int
	class     WordClass
	bothCount int
}

var determiners = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "by": true, "with": true, "from": true,
}

// contextMapClassifier labels every token with a word class from its
// frequency-role counts, then scores the sequence of classes.
type contextMapClassifier struct {
	words     busword.CountLookup
	names     NameLookup
	analyzer  *busword.Analyzer
	threshold int
	log       zerolog.Logger
}

type contextPatterns struct {
	validNamePattern       bool
	firstLastPattern       bool
	businessPattern        bool
	possessiveWithBusiness bool
	initialPattern         bool
	initialPatternType     string
}

func (c *contextMapClassifier) Classify(ctx context.Context, name string) Result {
	input := strings.TrimSpace(name)
	words := splitWords(input)
	if len(words) == 0 {
		return Result{Input: name, Classification: "residential", IsResidential: true, Reason: "empty input"}
	}

	for _, word := range words {
		if c.analyzer.IsCorporateSuffix(ctx, strings.Trim(word, ".")) {
			return absoluteResult(input, word)
		}
	}

	contextMap := c.buildContextMap(ctx, words)
	patterns := analyzeContextPatterns(contextMap)

	var businessWords, nameWords, initialWords int
	for _, wc := range contextMap {
		switch wc.class {
		case ClassBusiness:
			businessWords++
		case ClassFirst, ClassLast, ClassBoth:
			nameWords++
		case ClassInitial:
			initialWords++
		}
	}

	var businessScore, residentialScore float64
	var indicators []string

	businessScore += float64(businessWords) * 30
	if patterns.businessPattern {
		businessScore += 40
		indicators = append(indicators, "business_word_run")
	}
	if patterns.possessiveWithBusiness {
		businessScore += 50
		indicators = append(indicators, "possessive_business")
	}
	if initialWords > 0 && businessWords > 0 && nameWords == 0 {
		// "J & M Contracting" style: initials fronting trade words
		businessScore += 60
	}

	if patterns.validNamePattern {
		residentialScore += 60
		indicators = append(indicators, "valid_name_arrangement")
	} else {
		residentialScore -= 20
	}
	if patterns.firstLastPattern {
		residentialScore += 40
	}
	if patterns.initialPattern {
		residentialScore += 50
		indicators = append(indicators, "initials_with_name")
	}
	residentialScore += float64(nameWords) * 15

	if len(contextMap) == 1 {
		businessScore += 50
		residentialScore -= 30
		indicators = append(indicators, "single_token")
	}

	pattern := contextPatternString(contextMap)
	businessReason := c.businessReason(patterns, businessWords, pattern)
	residentialReason := c.residentialReason(patterns, nameWords, pattern)

	result := finalize(input, businessScore, residentialScore, c.threshold, businessReason, residentialReason, indicators)
	c.log.Debug().
		Str("input", input).
		Str("pattern", pattern).
		Str("classification", result.Classification).
		Int("confidence", result.Confidence).
		Msg("context-map classification")
	return result
}

func (c *contextMapClassifier) buildContextMap(ctx context.Context, words []string) []wordContext {
	cleaned := make([]string, len(words))
	for i, w := range words {
		cleaned[i] = strings.Trim(strings.ToLower(w), ". ")
	}

	counts, err := c.words.RoleCounts(ctx, cleaned)
	if err != nil {
		c.log.Warn().Err(err).Msg("word lookup unavailable, building context map without counts")
		counts = map[string]busword.RoleCounts{}
	}

	contextMap := make([]wordContext, 0, len(words))
	for i, word := range words {
		wc := wordContext{word: cleaned[i]}

		switch {
		case isConnectorWord(cleaned[i]):
			wc.class = ClassConnector
		case isInitialWord(word):
			wc.class = ClassInitial
		default:
			rc, ok := counts[cleaned[i]]
			if ok && (rc.First > 0 || rc.Last > 0 || rc.Both > 0 || rc.Business > 0) {
				wc.first = rc.First
				wc.last = rc.Last
				wc.both = rc.Both
				wc.business = rc.Business
				wc.bothCount = rc.Both
				wc.class = primaryClass(rc)
			} else if determiners[cleaned[i]] {
				wc.class = ClassIndeterminate
			} else {
				wc.class = ClassUnknown
			}
		}

		contextMap = append(contextMap, wc)
	}

	return contextMap
}

// primaryClass picks a token's class from its role counts. Business wins
// only when it clearly dominates name usage; a faint winner of any kind
// is indeterminate.
func primaryClass(rc busword.RoleCounts) WordClass {
	maxName := rc.MaxName()
	if rc.Business > maxName*2 && rc.Business >= 10 {
		return ClassBusiness
	}

	best, bestCount := ClassFirst, rc.First
	if rc.Last > bestCount {
		best, bestCount = ClassLast, rc.Last
	}
	if rc.Both > bestCount {
		best, bestCount = ClassBoth, rc.Both
	}
	if rc.Business > bestCount {
		best, bestCount = ClassBusiness, rc.Business
	}

	if bestCount < 5 {
		return ClassIndeterminate
	}
	return best
}

func isInitialWord(word string) bool {
	w := strings.TrimSpace(word)
	if len(w) == 1 {
		return unicode.IsLetter(rune(w[0]))
	}
	return len(w) == 2 && w[1] == '.' && unicode.IsLetter(rune(w[0]))
}

func isConnectorWord(word string) bool {
	return word == "&" || word == "and" || word == "or"
}

func isNameClass(c WordClass) bool {
	return c == ClassFirst || c == ClassLast || c == ClassBoth
}

func analyzeContextPatterns(contextMap []wordContext) contextPatterns {
	var patterns contextPatterns
	if len(contextMap) == 0 {
		return patterns
	}

	patterns = checkInitialPatterns(contextMap, patterns)
	if patterns.initialPattern {
		// Initials beside a name short-circuit to residential
		patterns.validNamePattern = true
		return patterns
	}

	if len(contextMap) >= 2 {
		first := contextMap[0]
		last := contextMap[len(contextMap)-1]

		firstLast := (first.class == ClassFirst || first.class == ClassBoth) &&
			(last.class == ClassLast || last.class == ClassBoth)
		lastFirst := (first.class == ClassLast || first.class == ClassBoth) &&
			(last.class == ClassFirst || last.class == ClassBoth)

		switch {
		case firstLast || lastFirst:
			patterns.firstLastPattern = true
			patterns.validNamePattern = true
		case first.class == ClassBoth && last.class == ClassBoth:
			if first.bothCount >= minNameCount && last.bothCount >= minNameCount {
				patterns.validNamePattern = true
			}
		}
	}

	consecutiveBusiness := 0
	maxConsecutiveBusiness := 0
	businessCount := 0
	for i, wc := range contextMap {
		if wc.class == ClassBusiness {
			businessCount++
			consecutiveBusiness++
			if consecutiveBusiness > maxConsecutiveBusiness {
				maxConsecutiveBusiness = consecutiveBusiness
			}

			// Business word preceded only by initials/connectors is a
			// trade-name pattern
			if i > 0 {
				onlyInitials := true
				for j := 0; j < i; j++ {
					if contextMap[j].class != ClassInitial && contextMap[j].class != ClassConnector {
						onlyInitials = false
						break
					}
				}
				if onlyInitials {
					patterns.businessPattern = true
				}
			}
		} else {
			consecutiveBusiness = 0
		}

		if i < len(contextMap)-1 && strings.HasSuffix(wc.word, "'s") &&
			contextMap[i+1].class == ClassBusiness {
			patterns.possessiveWithBusiness = true
		}
	}

	if maxConsecutiveBusiness >= 2 {
		patterns.businessPattern = true
	}
	if businessCount > len(contextMap)/2 {
		patterns.businessPattern = true
	}

	return patterns
}

// checkInitialPatterns recognizes name-with-initials arrangements:
// "Smith J", "J M Smith", "Smith J & M".
func checkInitialPatterns(contextMap []wordContext, patterns contextPatterns) contextPatterns {
	initialCount := 0
	connectorCount := 0
	nameCount := 0
	for _, wc := range contextMap {
		switch {
		case wc.class == ClassInitial:
			initialCount++
		case wc.class == ClassConnector:
			connectorCount++
		case isNameClass(wc.class):
			nameCount++
		}
	}

	if initialCount > 0 && nameCount > 0 {
		patterns.initialPattern = true

		first := contextMap[0]
		last := contextMap[len(contextMap)-1]

		if first.class == ClassLast || first.class == ClassBoth {
			rest := contextMap[1:]
			if allInitialsOrConnectors(rest) {
				patterns.initialPatternType = "surname + initials"
				return patterns
			}
		}

		if last.class == ClassLast || last.class == ClassBoth {
			rest := contextMap[:len(contextMap)-1]
			if allInitialsOrConnectors(rest) {
				patterns.initialPatternType = "initials + surname"
				return patterns
			}
		}

		if connectorCount > 0 && initialCount >= 2 {
			patterns.initialPatternType = "name + multiple initials"
		}
	}

	// Bare initials joined by a connector ("J & M") with no name is a
	// trade-name fragment, not residential
	if initialCount >= 2 && connectorCount > 0 && nameCount == 0 {
		patterns.initialPatternType = "initials only"
	}

	return patterns
}

func allInitialsOrConnectors(contexts []wordContext) bool {
	for _, wc := range contexts {
		if wc.class != ClassInitial && wc.class != ClassConnector {
			return false
		}
	}
	return true
}

func contextPatternString(contextMap []wordContext) string {
	parts := make([]string, len(contextMap))
	for i, wc := range contextMap {
		parts[i] = wc.class.String()
	}
	return strings.Join(parts, "-")
}

func (c *contextMapClassifier) businessReason(patterns contextPatterns, businessWords int, pattern string) string {
	var reasons []string
	if patterns.possessiveWithBusiness {
		reasons = append(reasons, "possessive followed by business word")
	}
	if patterns.businessPattern {
		reasons = append(reasons, "business word pattern detected")
	}
	if businessWords > 0 {
		reasons = append(reasons, fmt.Sprintf("%d business words", businessWords))
	}
	reasons = append(reasons, fmt.Sprintf("pattern: %s", pattern))
	return strings.Join(reasons, "; ")
}

func (c *contextMapClassifier) residentialReason(patterns contextPatterns, nameWords int, pattern string) string {
	var reasons []string
	if patterns.validNamePattern {
		reasons = append(reasons, "valid name pattern")
	}
	if patterns.firstLastPattern {
		reasons = append(reasons, "first+last name structure")
	}
	if patterns.initialPattern {
		reasons = append(reasons, fmt.Sprintf("name with initials (%s)", patterns.initialPatternType))
	}
	if nameWords > 0 {
		reasons = append(reasons, fmt.Sprintf("%d name words", nameWords))
	}
	reasons = append(reasons, fmt.Sprintf("pattern: %s", pattern))
	return strings.Join(reasons, "; ")
}
