// Package classify labels a parsed listing name as business or
// residential. Two interchangeable strategies are provided: a weighted
// heuristic scorer and a per-token context-map scorer, selected by
// configuration.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
)

// Strategy names accepted in configuration.
const (
	StrategyHeuristic  = "heuristic"
	StrategyContextMap = "contextmap"
)

// DefaultThreshold is the business-confidence cutoff used when none is
// configured. The useful range observed in tuning is 55-70.
const DefaultThreshold = 65

// minNameCount filters noise rows out of name-pattern validation: a name
// seen fewer than this many times does not validate a residential
// pattern.
const minNameCount = 10

// NameRoleCounts holds the per-role occurrence counts of a word in the
// person-name reference table.
type NameRoleCounts struct {
	First int
	Last  int
	Both  int
}

// CanBeFirst reports whether the word is an attested first name.
func (n NameRoleCounts) CanBeFirst(min int) bool {
	return n.First >= min || n.Both >= min
}

// CanBeLast reports whether the word is an attested last name.
func (n NameRoleCounts) CanBeLast(min int) bool {
	return n.Last >= min || n.Both >= min
}

// Max returns the highest count across roles.
func (n NameRoleCounts) Max() int {
	max := n.First
	if n.Last > max {
		max = n.Last
	}
	if n.Both > max {
		max = n.Both
	}
	return max
}

// NameLookup provides person-name frequency counts. Batched and
// case-insensitive like the word lookup; failures degrade to zero
// counts.
type NameLookup interface {
	NameRoleCounts(ctx context.Context, words []string) (map[string]NameRoleCounts, error)
}

// Result is the outcome of classifying a name span.
type Result struct {
	Input             string   `json:"input"`
	Classification    string   `json:"classification"`
	Confidence        int      `json:"confidence"`
	IsBusiness        bool     `json:"is_business"`
	IsResidential     bool     `json:"is_residential"`
	BusinessScore     int      `json:"business_score"`
	ResidentialScore  int      `json:"residential_score"`
	MatchedIndicators []string `json:"matched_indicators,omitempty"`
	Reason            string   `json:"reason"`
}

// Classifier labels a name span. Implementations are total functions:
// every input gets a business or residential verdict, with confidence
// reflecting uncertainty rather than an error state.
type Classifier interface {
	Classify(ctx context.Context, name string) Result
}

// Config selects and tunes a classifier strategy.
type Config struct {
	Strategy  string
	Threshold int
}

// New builds the configured classifier strategy.
func New(cfg Config, words busword.CountLookup, names NameLookup, analyzer *busword.Analyzer, log zerolog.Logger) (Classifier, error) {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	switch cfg.Strategy {
	case StrategyHeuristic, "":
		return &heuristicClassifier{
			words:     words,
			names:     names,
			analyzer:  analyzer,
			threshold: threshold,
			log:       log,
		}, nil
	case StrategyContextMap:
		return &contextMapClassifier{
			words:     words,
			names:     names,
			analyzer:  analyzer,
			threshold: threshold,
			log:       log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", cfg.Strategy)
	}
}

// finalize normalizes raw side scores so they sum to 100, picks the
// winner, and applies the business-confidence threshold. A business
// verdict below the threshold falls back to residential, so raising the
// threshold can only move results out of is_business, never into it.
func finalize(input string, businessScore, residentialScore float64, threshold int, businessReason, residentialReason string, indicators []string) Result {
	if businessScore < 0 {
		businessScore = 0
	}
	if residentialScore < 0 {
		residentialScore = 0
	}
	total := businessScore + residentialScore
	if total > 0 {
		businessScore = businessScore / total * 100
		residentialScore = residentialScore / total * 100
	}

	result := Result{
		Input:             input,
		BusinessScore:     int(businessScore),
		ResidentialScore:  int(residentialScore),
		MatchedIndicators: indicators,
	}

	if businessScore > residentialScore && int(businessScore) >= threshold {
		result.Classification = "business"
		result.Confidence = capScore(int(businessScore))
		result.IsBusiness = true
		result.Reason = businessReason
	} else {
		result.Classification = "residential"
		result.Confidence = capScore(int(residentialScore))
		result.IsResidential = true
		result.Reason = residentialReason
		if businessScore > residentialScore {
			result.Confidence = capScore(100 - int(businessScore))
			result.Reason = fmt.Sprintf("business score %d below threshold %d", int(businessScore), threshold)
		}
	}

	return result
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// absoluteResult is the short-circuit verdict for a corporate suffix.
func absoluteResult(input, word string) Result {
	return Result{
		Input:             input,
		Classification:    "business",
		Confidence:        100,
		IsBusiness:        true,
		BusinessScore:     100,
		MatchedIndicators: []string{"corporate_suffix"},
		Reason:            fmt.Sprintf("contains corporate identifier: %s", strings.ToUpper(word)),
	}
}

func splitWords(input string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(input)))
}
