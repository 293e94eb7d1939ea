package classify

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
)

// Business-category keyword patterns. Each match adds to the business
// side, capped so keyword spam cannot drown the name signals.
var businessPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(enterprises|holdings|group|partners|associates|solutions|services)\b`),
	regexp.MustCompile(`\b(consulting|management|marketing|agency|studio|clinic|center|centre)\b`),
	regexp.MustCompile(`\b(restaurant|cafe|bistro|grill|pizza|sushi|bakery|deli|pub|bar|tavern)\b`),
	regexp.MustCompile(`\b(shop|store|mart|market|boutique|outlet|supply|supplies)\b`),
	regexp.MustCompile(`\b(salon|spa|fitness|gym|wellness|health|medical|dental|pharmacy)\b`),
	regexp.MustCompile(`\b(hotel|motel|inn|lodge|resort|suites)\b`),
	regexp.MustCompile(`\b(automotive|motors|auto|garage|repair|towing)\b`),
	regexp.MustCompile(`\b(construction|contracting|roofing|plumbing|electric|hvac)\b`),
	regexp.MustCompile(`\b(real estate|realty|properties|property management)\b`),
}

// Patterns that read as a household listing.
var residentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(the\s+)?[a-z]+s$`),
	regexp.MustCompile(`\b(family|residence|household)\b`),
	regexp.MustCompile(`\b(mr|mrs|ms|miss|dr|prof)\b\s+[a-z]+`),
	regexp.MustCompile(`^[a-z]+\s+(and|&)\s+[a-z]+$`),
}

// Words that, following a possessive, mark a trade name ("Tony's Pizza").
var possessiveBusinessWords = []string{
	"pizza", "restaurant", "cafe", "shop", "store", "salon", "spa",
	"garage", "auto", "mart", "market", "grill", "deli", "bakery",
	"services", "repair", "clinic", "dental", "contracting", "plumbing",
	"electric", "roofing", "landscaping", "cleaning", "catering",
}

var rePossessive = regexp.MustCompile(`(\w+)'s\s+(.+)`)
var reInitialWord = regexp.MustCompile(`^[a-z]\.?$`)

// heuristicClassifier is the weighted-signal strategy: independent
// sub-scores for keyword patterns, possessives, frequency-table usage,
// structure, and name-pattern validation, summed and normalized.
type heuristicClassifier struct {
	words     busword.CountLookup
	names     NameLookup
	analyzer  *busword.Analyzer
	threshold int
	log       zerolog.Logger
}

type possessiveAnalysis struct {
	isBusinessPossessive bool
	isSimplePossessive   bool
	possessiveWord       string
}

type wordAnalysis struct {
	businessScore   float64
	nameScore       float64
	wordToNameRatio float64
	nameWordCount   int
	firstWordIsName bool
}

func (c *heuristicClassifier) Classify(ctx context.Context, name string) Result {
	input := strings.TrimSpace(name)
	words := splitWords(input)
	if len(words) == 0 {
		return Result{Input: name, Classification: "residential", IsResidential: true, Reason: "empty input"}
	}

	// Absolute corporate identifiers override everything
	for _, word := range words {
		if c.analyzer.IsCorporateSuffix(ctx, word) {
			return absoluteResult(input, word)
		}
	}

	var indicators []string

	businessPatternScore := scorePatterns(input, businessPatterns, 30, 80)
	if businessPatternScore > 0 {
		indicators = append(indicators, "business_keywords")
	}

	residentialPatternScore := scorePatterns(input, residentialPatterns, 25, 60)
	if residentialPatternScore > 0 {
		indicators = append(indicators, "residential_pattern")
	}

	nameCounts := c.lookupNames(ctx, words)
	wordCounts := c.lookupWords(ctx, words)

	validResidential := isValidResidentialPattern(words, nameCounts, wordCounts)
	if validResidential {
		indicators = append(indicators, "valid_name_arrangement")
	}

	analysis := analyzeWordUsage(words, wordCounts, nameCounts, validResidential)

	possessive := analyzePossessive(input)
	if possessive.isBusinessPossessive {
		indicators = append(indicators, "possessive_business")
	}

	firstIsLastName := false
	if fc, ok := nameCounts[words[0]]; ok {
		firstIsLastName = fc.CanBeLast(1)
	}

	structureScore := scoreStructure(len(words))
	if len(words) == 1 {
		indicators = append(indicators, "single_token")
	}

	businessScore := businessPatternScore + analysis.businessScore
	residentialScore := residentialPatternScore + analysis.nameScore

	if possessive.isBusinessPossessive {
		businessScore += 40
		if firstIsLastName {
			// "Smith's Plumbing" style trade names
			businessScore += 60
		}
	} else if possessive.isSimplePossessive {
		// A bare possessive name leans business by convention
		residentialScore -= 20
	}

	if validResidential {
		residentialScore += 40
		if firstIsLastName && analysis.firstWordIsName {
			residentialScore += 30
		}
	} else {
		businessScore += 30
	}

	switch {
	case analysis.wordToNameRatio > 2.0:
		businessScore += 30
		indicators = append(indicators, "high_business_usage_ratio")
	case analysis.wordToNameRatio > 1.0:
		businessScore += 15
	}

	if structureScore > 0 {
		businessScore += structureScore
	}

	businessReason := c.businessReason(businessPatternScore, possessive, analysis)
	residentialReason := c.residentialReason(validResidential, residentialPatternScore, analysis)

	result := finalize(input, businessScore, residentialScore, c.threshold, businessReason, residentialReason, indicators)
	c.log.Debug().
		Str("input", input).
		Str("classification", result.Classification).
		Int("confidence", result.Confidence).
		Msg("heuristic classification")
	return result
}

func (c *heuristicClassifier) lookupNames(ctx context.Context, words []string) map[string]NameRoleCounts {
	counts, err := c.names.NameRoleCounts(ctx, words)
	if err != nil {
		c.log.Warn().Err(err).Msg("name lookup unavailable, degrading to no match")
		return map[string]NameRoleCounts{}
	}
	return counts
}

func (c *heuristicClassifier) lookupWords(ctx context.Context, words []string) map[string]busword.RoleCounts {
	counts, err := c.words.RoleCounts(ctx, words)
	if err != nil {
		c.log.Warn().Err(err).Msg("word lookup unavailable, degrading to no match")
		return map[string]busword.RoleCounts{}
	}
	return counts
}

func scorePatterns(input string, patterns []*regexp.Regexp, perMatch, ceiling float64) float64 {
	score := 0.0
	for _, re := range patterns {
		if re.MatchString(input) {
			score += perMatch
		}
	}
	return math.Min(score, ceiling)
}

// isValidResidentialPattern requires at least two tokens arranged as
// first+last or last+first, with enough occurrences in the name table
// to exclude noise rows.
func isValidResidentialPattern(words []string, names map[string]NameRoleCounts, wordCounts map[string]busword.RoleCounts) bool {
	if len(words) < 2 {
		return false
	}

	connectorAt := -1
	for i, w := range words {
		if w == "&" || w == "and" {
			connectorAt = i
			break
		}
	}
	if connectorAt > 0 && connectorAt < len(words)-1 {
		// "John & Mary Smith": the tail word must be an attested last name
		last := names[words[len(words)-1]]
		return last.CanBeLast(1)
	}

	if len(words) == 2 {
		w0, ok0 := names[words[0]]
		w1, ok1 := names[words[1]]

		if ok0 && ok1 {
			// Overwhelming business usage disqualifies a low-count name row
			if overwhelminglyBusiness(w0, wordCounts[words[0]]) || overwhelminglyBusiness(w1, wordCounts[words[1]]) {
				return false
			}

			if w0.Both >= minNameCount && w1.Both >= minNameCount {
				return true
			}

			firstLast := w0.CanBeFirst(minNameCount) && w1.CanBeLast(minNameCount)
			lastFirst := w0.CanBeLast(minNameCount) && w1.CanBeFirst(minNameCount)
			return firstLast || lastFirst
		}

		if reInitialWord.MatchString(words[0]) && ok1 && w1.CanBeLast(1) {
			return true
		}
		return false
	}

	// Longer spans: an attested last name on one end with a first name or
	// initial on the other
	last := names[words[len(words)-1]]
	first := names[words[0]]
	firstIsInitial := reInitialWord.MatchString(words[0])
	return last.CanBeLast(1) && (first.CanBeFirst(1) || firstIsInitial)
}

func overwhelminglyBusiness(n NameRoleCounts, w busword.RoleCounts) bool {
	return n.Max() < minNameCount && w.Business > n.Max()*20 && w.Business > 0
}

// analyzeWordUsage scores each word by its frequency-table usage,
// contrasting business counts against name counts.
func analyzeWordUsage(words []string, wordCounts map[string]busword.RoleCounts, names map[string]NameRoleCounts, validPattern bool) wordAnalysis {
	var analysis wordAnalysis

	for i, word := range words {
		wc := wordCounts[word]
		nc, hasName := names[word]
		maxName := nc.Max()

		if wc.Business > 0 && !validPattern {
			analysis.businessScore += math.Min(float64(wc.Business)/100.0, 20)
		}

		if hasName && maxName > 0 {
			nameScore := math.Min(float64(maxName)/100.0, 15)
			switch {
			case validPattern:
				analysis.nameScore += nameScore * 2
			case maxName >= wc.Business:
				analysis.nameScore += nameScore * 1.5
			case wc.Business > maxName*10:
				// Overwhelmingly business usage, no name credit
			default:
				analysis.nameScore += nameScore * 0.5
			}
			analysis.nameWordCount++
			if i == 0 {
				analysis.firstWordIsName = true
			}
		}
	}

	switch {
	case validPattern:
		analysis.wordToNameRatio = 0
	case analysis.nameScore > 0:
		analysis.wordToNameRatio = analysis.businessScore / analysis.nameScore
	case analysis.businessScore > 0:
		analysis.wordToNameRatio = 100
	}

	return analysis
}

func analyzePossessive(input string) possessiveAnalysis {
	var analysis possessiveAnalysis

	m := rePossessive.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return analysis
	}

	analysis.possessiveWord = m[1]
	after := m[2]
	for _, w := range possessiveBusinessWords {
		if strings.Contains(after, w) {
			analysis.isBusinessPossessive = true
			return analysis
		}
	}
	analysis.isSimplePossessive = true
	return analysis
}

// scoreStructure: residential listings need first+last, so a single
// token is a strong business signal and long names lean business.
func scoreStructure(wordCount int) float64 {
	switch {
	case wordCount == 1:
		return 50
	case wordCount >= 3 && wordCount <= 5:
		return 15
	case wordCount > 5:
		return 25
	default:
		return 0
	}
}

func (c *heuristicClassifier) businessReason(patternScore float64, possessive possessiveAnalysis, analysis wordAnalysis) string {
	var reasons []string
	if patternScore > 30 {
		reasons = append(reasons, "contains business keywords")
	}
	if possessive.isBusinessPossessive {
		reasons = append(reasons, fmt.Sprintf("follows pattern: %s's [business type]", possessive.possessiveWord))
	}
	if analysis.wordToNameRatio > 2.0 {
		reasons = append(reasons, fmt.Sprintf("words have business usage %.1fx higher than name usage", analysis.wordToNameRatio))
	}
	if analysis.businessScore > 20 {
		reasons = append(reasons, "high frequency business words")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "general business pattern")
	}
	return strings.Join(reasons, "; ")
}

func (c *heuristicClassifier) residentialReason(validPattern bool, patternScore float64, analysis wordAnalysis) string {
	var reasons []string
	if validPattern {
		reasons = append(reasons, "valid first/last name arrangement")
	}
	if patternScore > 0 {
		reasons = append(reasons, "matches residential pattern")
	}
	if analysis.nameScore > 30 {
		reasons = append(reasons, fmt.Sprintf("contains %d personal names", analysis.nameWordCount))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "general residential pattern")
	}
	return strings.Join(reasons, "; ")
}
