package busword

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// fakeCounts serves canned role counts and a fixed corporate-suffix set
type fakeCounts struct {
	counts   map[string]RoleCounts
	suffixes map[string]bool
	fail     bool
}

func (f *fakeCounts) RoleCounts(ctx context.Context, words []string) (map[string]RoleCounts, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	out := make(map[string]RoleCounts)
	for _, w := range words {
		if rc, ok := f.counts[w]; ok {
			out[w] = rc
		}
	}
	return out, nil
}

func (f *fakeCounts) CorporateSuffixes(ctx context.Context) (map[string]bool, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	return f.suffixes, nil
}

func testAnalyzer() *Analyzer {
	return NewAnalyzer(&fakeCounts{
		counts: map[string]RoleCounts{
			// Pure business words at each bucket
			"pizzeria":   {Business: 6000},
			"plumbing":   {Business: 1500},
			"roofing":    {Business: 250},
			"siding":     {Business: 150},
			"towing":     {Business: 40},
			"rare":       {Business: 3},
			// Predominantly a person name
			"grant": {First: 2000, Business: 300},
			// Genuinely ambiguous, gets demoted
			"baker": {Last: 400, Business: 500},
			// Plain names
			"smith": {Last: 5000},
			"john":  {First: 8000},
		},
		suffixes: map[string]bool{"ltd": true, "inc": true, "corporation": true},
	}, zerolog.Nop())
}

func TestWordStrength(t *testing.T) {
	a := testAnalyzer()
	ctx := context.Background()

	tests := []struct {
		word string
		want Strength
	}{
		{"pizzeria", Absolute},
		{"plumbing", Strong},
		{"roofing", Medium},
		{"towing", Weak},
		{"rare", None},
		// Corporate suffix is always Absolute
		{"Ltd", Absolute},
		{"ltd.", Absolute},
		// Name usage more than doubles business usage
		{"grant", None},
		// Comparable counts demote one level: Medium -> Weak
		{"baker", Weak},
		// Pure names
		{"smith", None},
		{"unknownword", None},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := a.WordStrength(ctx, tt.word); got != tt.want {
				t.Errorf("WordStrength(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestAnalyzePhrase(t *testing.T) {
	a := testAnalyzer()
	ctx := context.Background()

	tests := []struct {
		name         string
		phrase       string
		wantBusiness bool
		wantStrength Strength
	}{
		{
			name:         "absolute word decides",
			phrase:       "Acme Pizzeria",
			wantBusiness: true,
			wantStrength: Absolute,
		},
		{
			name:         "strong word decides",
			phrase:       "Smith Plumbing",
			wantBusiness: true,
			wantStrength: Strong,
		},
		{
			name:         "two mediums elevate to strong",
			phrase:       "Roofing Siding",
			wantBusiness: true,
			wantStrength: Strong,
		},
		{
			name:         "single medium alone is not business",
			phrase:       "Smith Roofing",
			wantBusiness: false,
		},
		{
			name:         "duplicate weak words dedupe before counting",
			phrase:       "Roofing Towing Towing",
			wantBusiness: false,
		},
		{
			name:         "weak alone never classifies",
			phrase:       "Smith Towing",
			wantBusiness: false,
		},
		{
			name:         "plain residential name",
			phrase:       "Smith John",
			wantBusiness: false,
			wantStrength: None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.AnalyzePhrase(ctx, tt.phrase)
			if got.IsBusiness != tt.wantBusiness {
				t.Errorf("AnalyzePhrase(%q).IsBusiness = %v, want %v (reason: %s)",
					tt.phrase, got.IsBusiness, tt.wantBusiness, got.Reason)
			}
			if tt.wantStrength != None && got.MaxStrength != tt.wantStrength {
				t.Errorf("AnalyzePhrase(%q).MaxStrength = %v, want %v",
					tt.phrase, got.MaxStrength, tt.wantStrength)
			}
		})
	}
}

func TestAnalyzePhraseMediumWithWeakSupport(t *testing.T) {
	a := NewAnalyzer(&fakeCounts{
		counts: map[string]RoleCounts{
			"roofing":  {Business: 250},
			"towing":   {Business: 40},
			"hauling":  {Business: 55},
		},
	}, zerolog.Nop())

	got := a.AnalyzePhrase(context.Background(), "Roofing Towing Hauling")
	if !got.IsBusiness {
		t.Errorf("medium indicator with two distinct weak supporters should classify as business: %s", got.Reason)
	}
	if got.MaxStrength != Medium {
		t.Errorf("MaxStrength = %v, want %v", got.MaxStrength, Medium)
	}
}

func TestAnalyzerDegradesOnLookupFailure(t *testing.T) {
	a := NewAnalyzer(&fakeCounts{fail: true}, zerolog.Nop())
	ctx := context.Background()

	if got := a.WordStrength(ctx, "plumbing"); got != None {
		t.Errorf("WordStrength with failing store = %v, want None", got)
	}
	if a.IsCorporateSuffix(ctx, "ltd") {
		t.Error("IsCorporateSuffix with failing store should degrade to false")
	}
	if got := a.AnalyzePhrase(ctx, "Acme Plumbing Ltd"); got.IsBusiness {
		t.Error("AnalyzePhrase with failing store should degrade to not business")
	}
}
