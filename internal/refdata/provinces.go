package refdata

import "strings"

// Canadian province and territory codes with their English names.
var provinceCodeToName = map[string]string{
	"NL": "Newfoundland and Labrador",
	"PE": "Prince Edward Island",
	"NS": "Nova Scotia",
	"NB": "New Brunswick",
	"QC": "Quebec",
	"ON": "Ontario",
	"MB": "Manitoba",
	"SK": "Saskatchewan",
	"AB": "Alberta",
	"BC": "British Columbia",
	"YT": "Yukon",
	"NT": "Northwest Territories",
	"NU": "Nunavut",
}

// provinceNameToCode maps full names (English and French) and common
// abbreviations to 2-letter codes. Keys are lower case.
var provinceNameToCode = map[string]string{
	"newfoundland and labrador": "NL",
	"terre-neuve-et-labrador":   "NL",
	"prince edward island":      "PE",
	"ile-du-prince-edouard":     "PE",
	"nova scotia":               "NS",
	"nouvelle-ecosse":           "NS",
	"new brunswick":             "NB",
	"nouveau-brunswick":         "NB",
	"quebec":                    "QC",
	"ontario":                   "ON",
	"manitoba":                  "MB",
	"saskatchewan":              "SK",
	"alberta":                   "AB",
	"british columbia":          "BC",
	"colombie-britannique":      "BC",
	"yukon":                     "YT",
	"northwest territories":     "NT",
	"territoires du nord-ouest": "NT",
	"nunavut":                   "NU",
	// Common abbreviations
	"newfoundland": "NL",
	"nfld":         "NL",
	"pei":          "PE",
	"nwt":          "NT",
	"sask":         "SK",
	"alta":         "AB",
	"que":          "QC",
	"ont":          "ON",
	"man":          "MB",
}

// ResolveProvince normalizes a province identifier to a 2-letter code.
// Accepts 2-letter codes, full English/French names, and common
// abbreviations. Unrecognized values return "" (treated as no filter per
// the public contract, never an error).
func ResolveProvince(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	upper := strings.ToUpper(trimmed)
	if _, ok := provinceCodeToName[upper]; ok {
		return upper
	}

	lower := strings.ToLower(trimmed)
	// Accent-insensitive lookup for the French names
	lower = stripAccents(lower)
	if code, ok := provinceNameToCode[lower]; ok {
		return code
	}

	return ""
}

// ProvinceName returns the English name for a 2-letter code, or "".
func ProvinceName(code string) string {
	return provinceCodeToName[strings.ToUpper(strings.TrimSpace(code))]
}

// IsProvinceCode reports whether the word is a 2-letter province
// abbreviation. Used by the span matcher to avoid treating "PL" in
// "Charlottetown PE" style tails as a street type.
func IsProvinceCode(word string) bool {
	_, ok := provinceCodeToName[strings.ToUpper(word)]
	return ok
}

var accentReplacer = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a",
	"î", "i", "ï", "i",
	"ô", "o",
	"û", "u", "ù", "u", "ü", "u",
	"ç", "c",
	"’", "'",
)

func stripAccents(s string) string {
	return accentReplacer.Replace(s)
}
