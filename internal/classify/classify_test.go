package classify

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
)

type fakeWordCounts struct {
	counts   map[string]busword.RoleCounts
	suffixes map[string]bool
}

func (f *fakeWordCounts) RoleCounts(ctx context.Context, words []string) (map[string]busword.RoleCounts, error) {
	out := make(map[string]busword.RoleCounts)
	for _, w := range words {
		if rc, ok := f.counts[w]; ok {
			out[w] = rc
		}
	}
	return out, nil
}

func (f *fakeWordCounts) CorporateSuffixes(ctx context.Context) (map[string]bool, error) {
	return f.suffixes, nil
}

type fakeNameCounts struct {
	counts map[string]NameRoleCounts
}

func (f *fakeNameCounts) NameRoleCounts(ctx context.Context, words []string) (map[string]NameRoleCounts, error) {
	out := make(map[string]NameRoleCounts)
	for _, w := range words {
		if nc, ok := f.counts[w]; ok {
			out[w] = nc
		}
	}
	return out, nil
}

func testDeps() (*fakeWordCounts, *fakeNameCounts, *busword.Analyzer) {
	words := &fakeWordCounts{
		counts: map[string]busword.RoleCounts{
			"plumbing":    {Business: 1500},
			"contracting": {Business: 5000},
			"services":    {Business: 3000},
			"smith":       {Last: 5000},
			"john":        {First: 8000},
			"mary":        {First: 6000},
			"taylor":      {First: 900, Last: 1100},
			"allain":      {Last: 700},
		},
		suffixes: map[string]bool{"ltd": true, "inc": true, "corporation": true},
	}
	names := &fakeNameCounts{
		counts: map[string]NameRoleCounts{
			"smith":  {Last: 5000},
			"john":   {First: 8000},
			"mary":   {First: 6000},
			"taylor": {First: 900, Last: 1100},
			"allain": {Last: 700},
		},
	}
	analyzer := busword.NewAnalyzer(words, zerolog.Nop())
	return words, names, analyzer
}

func newTestClassifier(t *testing.T, strategy string, threshold int) Classifier {
	t.Helper()
	words, names, analyzer := testDeps()
	c, err := New(Config{Strategy: strategy, Threshold: threshold}, words, names, analyzer, zerolog.Nop())
	if err != nil {
		t.Fatalf("New(%q): %v", strategy, err)
	}
	return c
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	words, names, analyzer := testDeps()
	if _, err := New(Config{Strategy: "bayesian"}, words, names, analyzer, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestClassifyBothStrategies(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantBusiness bool
	}{
		{"corporate suffix", "Acme Corporation", true},
		{"strong business word", "Smith Plumbing", true},
		{"surname first residential", "Smith John", false},
		{"couple listing", "Smith John & Mary", false},
		{"single token is business-leaning", "Acme", true},
		{"possessive trade name", "Smith's Contracting", true},
	}

	for _, strategy := range []string{StrategyHeuristic, StrategyContextMap} {
		c := newTestClassifier(t, strategy, DefaultThreshold)
		for _, tt := range tests {
			t.Run(strategy+"/"+tt.name, func(t *testing.T) {
				got := c.Classify(context.Background(), tt.input)
				if got.IsBusiness != tt.wantBusiness {
					t.Errorf("Classify(%q) business = %v, want %v (reason: %s)",
						tt.input, got.IsBusiness, tt.wantBusiness, got.Reason)
				}
				if got.IsBusiness == got.IsResidential {
					t.Errorf("Classify(%q): exactly one of business/residential must be set", tt.input)
				}
			})
		}
	}
}

func TestCorporateSuffixShortCircuit(t *testing.T) {
	for _, strategy := range []string{StrategyHeuristic, StrategyContextMap} {
		c := newTestClassifier(t, strategy, DefaultThreshold)
		got := c.Classify(context.Background(), "Acme Widgets Ltd")
		if !got.IsBusiness || got.Confidence != 100 {
			t.Errorf("%s: corporate suffix should classify business at confidence 100, got %v/%d",
				strategy, got.IsBusiness, got.Confidence)
		}
	}
}

// Raising the threshold can only move results out of is_business, never
// into it.
func TestThresholdMonotonic(t *testing.T) {
	inputs := []string{
		"Smith Plumbing",
		"Smith John",
		"Acme Services",
		"Taylor",
		"Smith's Contracting",
	}

	for _, strategy := range []string{StrategyHeuristic, StrategyContextMap} {
		low := newTestClassifier(t, strategy, 30)
		high := newTestClassifier(t, strategy, 90)

		for _, input := range inputs {
			lowRes := low.Classify(context.Background(), input)
			highRes := high.Classify(context.Background(), input)
			if highRes.IsBusiness && !lowRes.IsBusiness {
				t.Errorf("%s: %q is business at threshold 90 but not at 30", strategy, input)
			}
		}
	}
}

func TestResultScoresNormalized(t *testing.T) {
	c := newTestClassifier(t, StrategyHeuristic, DefaultThreshold)
	got := c.Classify(context.Background(), "Smith John")

	total := got.BusinessScore + got.ResidentialScore
	// Integer truncation may drop a point or two from 100
	if total < 98 || total > 100 {
		t.Errorf("scores should normalize to ~100, got %d + %d = %d",
			got.BusinessScore, got.ResidentialScore, total)
	}
	if got.Confidence < 0 || got.Confidence > 100 {
		t.Errorf("confidence out of range: %d", got.Confidence)
	}
}

func TestContextMapInitialsPattern(t *testing.T) {
	c := newTestClassifier(t, StrategyContextMap, DefaultThreshold)

	for _, input := range []string{"Smith J", "J M Smith", "Smith J & M"} {
		got := c.Classify(context.Background(), input)
		if !got.IsResidential {
			t.Errorf("Classify(%q) should be residential (initials with a name), got %s: %s",
				input, got.Classification, got.Reason)
		}
	}
}

func TestEmptyInputIsResidential(t *testing.T) {
	for _, strategy := range []string{StrategyHeuristic, StrategyContextMap} {
		c := newTestClassifier(t, strategy, DefaultThreshold)
		got := c.Classify(context.Background(), "   ")
		if !got.IsResidential {
			t.Errorf("%s: blank input should fall back to residential", strategy)
		}
	}
}
