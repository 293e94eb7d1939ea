package busword

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Strength is the ordinal business-indicator confidence level for a word.
type Strength int

const (
	None Strength = iota
	Weak
	Medium
	Strong
	Absolute
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case Absolute:
		return "absolute"
	default:
		return "none"
	}
}

// RoleCounts holds the frequency counts of a word under each learned role.
type RoleCounts struct {
	First    int
	Last     int
	Both     int
	Business int
}

// MaxName returns the highest count among the person-name roles.
func (rc RoleCounts) MaxName() int {
	max := rc.First
	if rc.Last > max {
		max = rc.Last
	}
	if rc.Both > max {
		max = rc.Both
	}
	return max
}

// CountLookup provides word frequency counts and the corporate-suffix
// set. Implementations must be read-only and tolerate unavailability by
// returning an error; the analyzer degrades to "no match".
type CountLookup interface {
	RoleCounts(ctx context.Context, words []string) (map[string]RoleCounts, error)
	CorporateSuffixes(ctx context.Context) (map[string]bool, error)
}

// PhraseAnalysis is the outcome of scoring a whole name phrase.
type PhraseAnalysis struct {
	IsBusiness  bool
	MaxStrength Strength
	Reason      string
}

// Analyzer scores words and phrases for business strength against the
// learned word-frequency corpus.
type Analyzer struct {
	counts CountLookup
	log    zerolog.Logger
}

// NewAnalyzer creates a business-word analyzer backed by the given lookup
func NewAnalyzer(counts CountLookup, log zerolog.Logger) *Analyzer {
	return &Analyzer{counts: counts, log: log}
}

func cleanWord(word string) string {
	return strings.ToLower(strings.Trim(word, ".,'\""))
}

// strengthFromCount buckets a bare business count into a strength level.
func strengthFromCount(businessCount int) Strength {
	switch {
	case businessCount >= 5000:
		return Absolute
	case businessCount >= 1000:
		return Strong
	case businessCount >= 100:
		return Medium
	case businessCount >= 10:
		return Weak
	default:
		return None
	}
}

// demote lowers a strength one level to reflect name/business ambiguity.
func demote(s Strength) Strength {
	if s == None {
		return None
	}
	return s - 1
}

// strengthFor applies the count-comparison rules for a single word.
func strengthFor(rc RoleCounts) Strength {
	maxName := rc.MaxName()

	// Predominantly a person name
	if maxName > rc.Business*2 && maxName >= 50 {
		return None
	}

	// Clearly a business word, or no meaningful name usage
	if rc.Business > maxName*2 || maxName < 10 {
		return strengthFromCount(rc.Business)
	}

	// Comparable counts: genuinely ambiguous, demote one level
	return demote(strengthFromCount(rc.Business))
}

// IsCorporateSuffix reports whether the word is in the corporate-suffix
// set (Ltd, Inc, Corp, ...). Lookup failures degrade to false.
func (a *Analyzer) IsCorporateSuffix(ctx context.Context, word string) bool {
	suffixes, err := a.counts.CorporateSuffixes(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("corporate suffix lookup unavailable")
		return false
	}
	return suffixes[cleanWord(word)]
}

// WordStrength returns the business strength of a single word.
func (a *Analyzer) WordStrength(ctx context.Context, word string) Strength {
	strengths := a.AnalyzeWords(ctx, []string{word})
	return strengths[cleanWord(word)]
}

// AnalyzeWords scores a set of words in one batched lookup. The returned
// map is keyed by cleaned (lower-cased, punctuation-trimmed) word.
func (a *Analyzer) AnalyzeWords(ctx context.Context, words []string) map[string]Strength {
	result := make(map[string]Strength)

	seen := make(map[string]bool)
	var cleaned []string
	for _, w := range words {
		c := cleanWord(w)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cleaned = append(cleaned, c)
	}
	if len(cleaned) == 0 {
		return result
	}

	suffixes, err := a.counts.CorporateSuffixes(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("corporate suffix lookup unavailable")
		suffixes = nil
	}

	counts, err := a.counts.RoleCounts(ctx, cleaned)
	if err != nil {
		a.log.Warn().Err(err).Msg("word count lookup unavailable, degrading to no match")
		counts = nil
	}

	for _, w := range cleaned {
		if suffixes[w] {
			result[w] = Absolute
			continue
		}
		result[w] = strengthFor(counts[w])
	}

	return result
}

// AnalyzePhrase decides whether a whole name phrase reads as a business.
// One Absolute or Strong word is decisive; Medium words need
// reinforcement; Weak words alone never classify as business.
func (a *Analyzer) AnalyzePhrase(ctx context.Context, phrase string) PhraseAnalysis {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return PhraseAnalysis{Reason: "empty phrase"}
	}

	strengths := a.AnalyzeWords(ctx, words)
	if len(strengths) == 0 {
		return PhraseAnalysis{Reason: "no analyzable words"}
	}

	maxStrength := None
	var absoluteWord, strongWord string
	var mediumWords, weakWords []string

	for word, s := range strengths {
		if s > maxStrength {
			maxStrength = s
		}
		switch s {
		case Absolute:
			if absoluteWord == "" {
				absoluteWord = word
			}
		case Strong:
			if strongWord == "" {
				strongWord = word
			}
		case Medium:
			mediumWords = append(mediumWords, word)
		case Weak:
			weakWords = append(weakWords, word)
		}
	}

	switch {
	case absoluteWord != "":
		return PhraseAnalysis{
			IsBusiness:  true,
			MaxStrength: Absolute,
			Reason:      fmt.Sprintf("contains absolute business indicator: %s", absoluteWord),
		}
	case strongWord != "":
		return PhraseAnalysis{
			IsBusiness:  true,
			MaxStrength: maxStrength,
			Reason:      fmt.Sprintf("contains strong business word: %s", strongWord),
		}
	case len(mediumWords) >= 2:
		return PhraseAnalysis{
			IsBusiness:  true,
			MaxStrength: Strong,
			Reason:      fmt.Sprintf("multiple medium business indicators: %s", strings.Join(mediumWords[:2], ", ")),
		}
	case len(mediumWords) == 1 && len(weakWords) >= 2:
		return PhraseAnalysis{
			IsBusiness:  true,
			MaxStrength: Medium,
			Reason:      fmt.Sprintf("medium indicator '%s' with supporting weak indicators", mediumWords[0]),
		}
	case len(mediumWords) == 1:
		return PhraseAnalysis{
			MaxStrength: maxStrength,
			Reason:      fmt.Sprintf("single medium indicator '%s' needs more context", mediumWords[0]),
		}
	default:
		return PhraseAnalysis{
			MaxStrength: maxStrength,
			Reason:      "no strong business indicators found",
		}
	}
}
