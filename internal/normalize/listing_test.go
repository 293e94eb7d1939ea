package normalize

import (
	"testing"
)

func TestCanonicalListing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace",
			input: "Smith   John    555-1234",
			want:  "Smith John 555-1234",
		},
		{
			name:  "underscores become spaces",
			input: "Smith_John_555-1234",
			want:  "Smith John 555-1234",
		},
		{
			name:  "strips toll-free banner",
			input: "Acme Rentals Composez sans frais / Call no charge 1 800 555 1234",
			want:  "Acme Rentals 800 555 1234",
		},
		{
			name:  "trims edges",
			input: "  Smith John  ",
			want:  "Smith John",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalListing(tt.input)
			if got != tt.want {
				t.Errorf("CanonicalListing(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalListingIdempotent(t *testing.T) {
	inputs := []string{
		"Smith   John 555-1234",
		"Acme_Corp Composez sans frais / Call no charge 1 800 555 1234",
		"J M Smith 123 Oak Road 5065551234",
	}

	for _, input := range inputs {
		once := CanonicalListing(input)
		twice := CanonicalListing(once)
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Smith John 555-1234")

	want := []Token{
		{Text: "Smith", Offset: 0},
		{Text: "John", Offset: 6},
		{Text: "555-1234", Offset: 11},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tok, want[i])
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	tests := []struct {
		text        string
		isDigits    bool
		isInitial   bool
		isConnector bool
	}{
		{"123", true, false, false},
		{"J", false, true, false},
		{"m.", false, true, false},
		{"&", false, false, true},
		{"and", false, false, true},
		{"et", false, false, true},
		{"Smith", false, false, false},
		{"12a", false, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		tok := Token{Text: tt.text}
		if got := tok.IsDigits(); got != tt.isDigits {
			t.Errorf("IsDigits(%q) = %v, want %v", tt.text, got, tt.isDigits)
		}
		if got := tok.IsInitial(); got != tt.isInitial {
			t.Errorf("IsInitial(%q) = %v, want %v", tt.text, got, tt.isInitial)
		}
		if got := tok.IsConnector(); got != tt.isConnector {
			t.Errorf("IsConnector(%q) = %v, want %v", tt.text, got, tt.isConnector)
		}
	}
}

func TestTokenClean(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Smith,", "Smith"},
		{"St.", "St"},
		{".,word,.", "word"},
	}

	for _, tt := range tests {
		if got := (Token{Text: tt.text}).Clean(); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
