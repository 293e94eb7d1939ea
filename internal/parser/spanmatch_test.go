package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeStreets struct {
	spans map[string]bool
	fail  bool
}

func (f fakeStreets) StreetExists(_ context.Context, span, _ string) (bool, error) {
	if f.fail {
		return false, errors.New("street store down")
	}
	return f.spans[strings.ToLower(span)], nil
}

type fakeCommunities struct {
	spans map[string]bool
	fail  bool
}

func (f fakeCommunities) CommunityExists(_ context.Context, span, _ string) (bool, error) {
	if f.fail {
		return false, errors.New("community store down")
	}
	return f.spans[strings.ToLower(span)], nil
}

func spanTestEngine(streets map[string]bool, communities map[string]bool) *Engine {
	return &Engine{
		streets:     fakeStreets{spans: streets},
		communities: fakeCommunities{spans: communities},
		log:         zerolog.Nop(),
	}
}

func TestFindBestStreetMatchLongestSpanWins(t *testing.T) {
	e := spanTestEngine(map[string]bool{
		"mountain":     true,
		"big mountain": true,
	}, nil)

	text := "Shop 12 Big Mountain Road"
	sm := e.findBestStreetMatch(context.Background(), false, text, "NB")
	if !sm.found {
		t.Fatal("expected a street match")
	}
	if sm.streetName != "Big Mountain" {
		t.Errorf("streetName = %q, want %q", sm.streetName, "Big Mountain")
	}
	if got := text[sm.startIndex:]; got != "12 Big Mountain Road" {
		t.Errorf("address = %q, want %q", got, "12 Big Mountain Road")
	}
	if sm.confidence != 90 {
		t.Errorf("confidence = %d, want 90", sm.confidence)
	}
}

func TestFindBestStreetMatchStopsAtFirstFailure(t *testing.T) {
	// "Old Big Mountain" is known but "Big Mountain" is not: backward
	// growth must stop at the gap and keep "Mountain".
	e := spanTestEngine(map[string]bool{
		"mountain":         true,
		"old big mountain": true,
	}, nil)

	sm := e.findBestStreetMatch(context.Background(), false, "Acme Old Big Mountain Road", "NB")
	if !sm.found {
		t.Fatal("expected a street match")
	}
	if sm.streetName != "Mountain" {
		t.Errorf("streetName = %q, want %q", sm.streetName, "Mountain")
	}
}

func TestFindBestStreetMatchFoldsDigitTokens(t *testing.T) {
	e := spanTestEngine(map[string]bool{"main": true}, nil)

	text := "Smith John 2 123 Main St"
	sm := e.findBestStreetMatch(context.Background(), false, text, "NB")
	if !sm.found {
		t.Fatal("expected a street match")
	}
	if got := text[sm.startIndex:]; got != "2 123 Main St" {
		t.Errorf("address = %q, want %q", got, "2 123 Main St")
	}
}

func TestFindBestStreetMatchNoMatch(t *testing.T) {
	e := spanTestEngine(map[string]bool{}, nil)

	tests := []string{
		"Smith John",
		"Road 123",
		"Acme Unknown Street",
	}
	for _, text := range tests {
		if sm := e.findBestStreetMatch(context.Background(), false, text, "NB"); sm.found {
			t.Errorf("findBestStreetMatch(%q) found %q, want no match", text, sm.streetName)
		}
	}
}

func TestFindBestStreetMatchDegradesOnStoreFailure(t *testing.T) {
	e := &Engine{
		streets:     fakeStreets{fail: true},
		communities: fakeCommunities{},
		log:         zerolog.Nop(),
	}

	if sm := e.findBestStreetMatch(context.Background(), false, "Acme 123 Main St", "NB"); sm.found {
		t.Error("street match on a failing store, want degradation to no match")
	}
}

func TestFindCommunityMatch(t *testing.T) {
	e := spanTestEngine(nil, map[string]bool{
		"riverview":   true,
		"grand falls": true,
	})

	text := "Smith John Riverview"
	cm := e.findCommunityMatch(context.Background(), false, text, "NB")
	if !cm.found {
		t.Fatal("expected a community match")
	}
	if got := text[cm.startIndex:]; got != "Riverview" {
		t.Errorf("community at %d = %q, want Riverview", cm.startIndex, got)
	}

	text = "Peterson Supplies Grand Falls"
	cm = e.findCommunityMatch(context.Background(), false, text, "NB")
	if !cm.found || cm.communityName != "Grand Falls" {
		t.Errorf("two-word community = %+v, want Grand Falls", cm)
	}
}

func TestFindCommunityMatchSkipsStopwords(t *testing.T) {
	// "Services" happens to be a community name in the fixture but is a
	// blocked word, so it must not produce a match.
	e := spanTestEngine(nil, map[string]bool{"services": true})

	if cm := e.findCommunityMatch(context.Background(), false, "Acme Services Ltd", "NB"); cm.found {
		t.Errorf("matched blocked word %q as community", cm.communityName)
	}
}

func TestFindCommunityAtEnd(t *testing.T) {
	e := spanTestEngine(nil, map[string]bool{
		"grand falls": true,
		"moncton":     true,
	})

	text := "Peterson Supplies Grand Falls"
	cm := e.findCommunityAtEnd(context.Background(), text, "NB")
	if !cm.found || cm.communityName != "Grand Falls" {
		t.Fatalf("findCommunityAtEnd = %+v, want Grand Falls", cm)
	}
	if got := text[:cm.startIndex]; strings.TrimSpace(got) != "Peterson Supplies" {
		t.Errorf("name before community = %q, want Peterson Supplies", got)
	}

	// Needs at least two name words before the community
	if cm := e.findCommunityAtEnd(context.Background(), "A Moncton", "NB"); cm.found {
		t.Error("matched community with only one word before it")
	}

	// Phone fragments at the tail are never communities
	if cm := e.findCommunityAtEnd(context.Background(), "Smith John Moncton 300", "NB"); cm.found && cm.communityName == "300" {
		t.Error("matched a 3-digit token as community")
	}
}

func TestFindFirstNumber(t *testing.T) {
	text := "Smith John 123 Somewhere"
	if pos := findFirstNumber(text); text[pos:] != "123 Somewhere" {
		t.Errorf("findFirstNumber points at %q, want %q", text[pos:], "123 Somewhere")
	}
	if pos := findFirstNumber("Smith John"); pos != -1 {
		t.Errorf("findFirstNumber = %d, want -1", pos)
	}
}
