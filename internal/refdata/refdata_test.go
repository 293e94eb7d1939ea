package refdata

import "testing"

func TestResolveProvince(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"NB", "NB"},
		{"nb", "NB"},
		{"New Brunswick", "NB"},
		{"nouveau-brunswick", "NB"},
		{"nfld", "NL"},
		{"newfoundland", "NL"},
		{"pei", "PE"},
		{"nwt", "NT"},
		{"sask", "SK"},
		{"alta", "AB"},
		{"que", "QC"},
		{"Québec", "QC"},
		{"quebec", "QC"},
		{"ont", "ON"},
		{"man", "MB"},
		{"British Columbia", "BC"},
		{" NS ", "NS"},
		// Unrecognized values mean "no filter", never an error
		{"atlantis", ""},
		{"", ""},
		{"123", ""},
	}

	for _, tt := range tests {
		if got := ResolveProvince(tt.input); got != tt.want {
			t.Errorf("ResolveProvince(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsProvinceCode(t *testing.T) {
	for _, code := range []string{"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"} {
		if !IsProvinceCode(code) {
			t.Errorf("IsProvinceCode(%q) = false, want true", code)
		}
	}
	for _, notCode := range []string{"XX", "N", "NBB", ""} {
		if IsProvinceCode(notCode) {
			t.Errorf("IsProvinceCode(%q) = true, want false", notCode)
		}
	}
}

func TestIsStreetType(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"Street", true},
		{"st", true},
		{"St.", true},
		{"Road", true},
		{"rd", true},
		{"Boulevard", true},
		{"rue", true},
		{"chemin", true},
		{"Montée", true},
		{"montee", true},
		{"Smith", false},
		{"123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStreetType(tt.word); got != tt.want {
			t.Errorf("IsStreetType(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestStreetTypeStandardForm(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"st", "Street"},
		{"St.", "Street"},
		{"rd", "Road"},
		{"ave", "Avenue"},
		{"ch", "Chemin"},
		{"montee", "Montée"},
		{"notastreet", ""},
	}

	for _, tt := range tests {
		got := StreetTypeStandardForm(tt.word)
		if got != tt.want {
			t.Errorf("StreetTypeStandardForm(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestIndicators(t *testing.T) {
	if !IsRoadIndicator("highway") || !IsRoadIndicator("chemin") {
		t.Error("expected highway and chemin to be road indicators")
	}
	if IsRoadIndicator("avenue") {
		t.Error("avenue is not a road indicator for route numbers")
	}

	if !IsSuiteIndicator("suite") || !IsSuiteIndicator("apt") || !IsSuiteIndicator("highway") {
		t.Error("expected suite, apt, and highway to be suite indicators")
	}

	if !IsUnitIndicator("Unit") || !IsUnitIndicator("Apt") {
		t.Error("expected Unit and Apt to be unit indicators")
	}
	if IsUnitIndicator("Smith") {
		t.Error("Smith is not a unit indicator")
	}

	if !IsCommunitySkipWord("services") || !IsCommunitySkipWord("the") {
		t.Error("expected services and the to be community skip words")
	}
	if IsCommunitySkipWord("Moncton") {
		t.Error("Moncton must not be a community skip word")
	}
}
