package learn

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/parser"
)

type increment struct {
	word string
	role Role
}

type fakeSink struct {
	increments []increment
	failWords  map[string]int // word -> failures before success
}

func (f *fakeSink) Increment(_ context.Context, word string, role Role) error {
	if left, ok := f.failWords[word]; ok && left > 0 {
		f.failWords[word] = left - 1
		return errors.New("transient store failure")
	}
	f.increments = append(f.increments, increment{word, role})
	return nil
}

type fakeExistence struct{ names map[string]bool }

func (f fakeExistence) CommunityExists(_ context.Context, span, _ string) (bool, error) {
	return f.names[span], nil
}

func (f fakeExistence) StreetExists(_ context.Context, span, _ string) (bool, error) {
	return f.names[span], nil
}

func newTestLearner(sink *fakeSink) *Learner {
	return New(Config{
		Sink:        sink,
		Communities: fakeExistence{names: map[string]bool{"moncton": true}},
		Streets:     fakeExistence{names: map[string]bool{"main": true}},
		Retries:     2,
		RetryDelay:  time.Millisecond,
		Logger:      zerolog.Nop(),
	})
}

func learnedWords(sink *fakeSink, role Role) []string {
	var words []string
	for _, inc := range sink.increments {
		if inc.role == role {
			words = append(words, inc.word)
		}
	}
	sort.Strings(words)
	return words
}

func TestLearnResidentialSplitName(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLearner(sink)

	err := l.Learn(context.Background(), parser.Result{
		Input:         "Smith John & Mary 555-1234",
		Name:          "Smith John & Mary",
		FirstName:     "John & Mary",
		LastName:      "Smith",
		IsResidential: true,
		Success:       true,
	})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}

	if got := learnedWords(sink, RoleFirst); len(got) != 2 || got[0] != "john" || got[1] != "mary" {
		t.Errorf("first-name words = %v, want [john mary]", got)
	}
	if got := learnedWords(sink, RoleLast); len(got) != 1 || got[0] != "smith" {
		t.Errorf("last-name words = %v, want [smith]", got)
	}
}

func TestLearnUnsplittableResidentialName(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLearner(sink)

	err := l.Learn(context.Background(), parser.Result{
		Name:          "Vandenberghe",
		IsResidential: true,
		Success:       true,
	})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}

	if got := learnedWords(sink, RoleBoth); len(got) != 1 || got[0] != "vandenberghe" {
		t.Errorf("both-role words = %v, want [vandenberghe]", got)
	}
}

func TestLearnBusinessName(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLearner(sink)

	err := l.Learn(context.Background(), parser.Result{
		Name:       "Acme Plumbing Ltd",
		IsBusiness: true,
		Success:    true,
	})
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}

	// "Ltd" is a corporate suffix and must not be counted
	if got := learnedWords(sink, RoleBusiness); len(got) != 2 || got[0] != "acme" || got[1] != "plumbing" {
		t.Errorf("business words = %v, want [acme plumbing]", got)
	}
}

func TestLearnSkipsFailedParses(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLearner(sink)

	if err := l.Learn(context.Background(), parser.Result{Name: "Smith", Success: false}); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if len(sink.increments) != 0 {
		t.Errorf("learned %d words from a failed parse", len(sink.increments))
	}
}

func TestShouldLearn(t *testing.T) {
	l := newTestLearner(&fakeSink{})
	ctx := context.Background()

	tests := []struct {
		word        string
		fromAddress bool
		want        bool
	}{
		{"smith", false, true},
		{"j", false, false},
		{"123", false, false},
		{"the", false, false},
		{"ltd", false, false},
		{"&", false, false},
		{"'-", false, false},
		{"moncton", true, false},
		{"moncton", false, true},
		{"main", true, false},
		{"main", false, true},
	}

	for _, tt := range tests {
		if got := l.ShouldLearn(ctx, tt.word, tt.fromAddress); got != tt.want {
			t.Errorf("ShouldLearn(%q, fromAddress=%v) = %v, want %v", tt.word, tt.fromAddress, got, tt.want)
		}
	}
}

func TestLearnRetriesTransientFailure(t *testing.T) {
	sink := &fakeSink{failWords: map[string]int{"smith": 1}}
	l := newTestLearner(sink)

	err := l.Learn(context.Background(), parser.Result{
		Name:          "Smith John",
		FirstName:     "John",
		LastName:      "Smith",
		IsResidential: true,
		Success:       true,
	})
	if err != nil {
		t.Fatalf("Learn after transient failure: %v", err)
	}

	if got := learnedWords(sink, RoleLast); len(got) != 1 || got[0] != "smith" {
		t.Errorf("last-name words = %v, want [smith] after retry", got)
	}
}

func TestLearnReturnsErrorButKeepsGoing(t *testing.T) {
	// "john" fails on every attempt; "smith" must still be learned and
	// the error surfaced to the caller.
	sink := &fakeSink{failWords: map[string]int{"john": 10}}
	l := newTestLearner(sink)

	err := l.Learn(context.Background(), parser.Result{
		Name:          "Smith John",
		FirstName:     "John",
		LastName:      "Smith",
		IsResidential: true,
		Success:       true,
	})
	if err == nil {
		t.Fatal("want error when an increment exhausts retries")
	}

	if got := learnedWords(sink, RoleLast); len(got) != 1 || got[0] != "smith" {
		t.Errorf("last-name words = %v, want [smith]", got)
	}
}

func TestSplitIntoWords(t *testing.T) {
	got := splitIntoWords(`Smith, John (Jack) "J-J" O'Brien`)
	want := []string{"Smith", "John", "Jack", "J-J", "O'Brien"}
	if len(got) != len(want) {
		t.Fatalf("splitIntoWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
