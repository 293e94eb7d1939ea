package refdata

import "strings"

// English street type vocabulary mapping every accepted spelling and
// abbreviation to its standard form.
var englishStreetTypes = map[string]string{
	"street": "Street", "st": "Street",
	"road": "Road", "rd": "Road",
	"avenue": "Avenue", "ave": "Avenue", "av": "Avenue",
	"drive": "Drive", "dr": "Drive",
	"lane": "Lane", "ln": "Lane",
	"boulevard": "Boulevard", "blvd": "Boulevard",
	"court": "Court", "ct": "Court",
	"place": "Place", "pl": "Place",
	"circle": "Circle", "cir": "Circle",
	"trail": "Trail", "tr": "Trail",
	"parkway": "Parkway", "pkwy": "Parkway", "pky": "Parkway",
	"highway": "Highway", "hwy": "Highway",
	"way": "Way", "wy": "Way",
	"terrace": "Terrace", "ter": "Terrace", "terr": "Terrace",
	"plaza": "Plaza", "plz": "Plaza",
	"square": "Square", "sq": "Square",
	"crescent": "Crescent", "cres": "Crescent", "cr": "Crescent",
	"grove": "Grove", "grv": "Grove",
	"park": "Park", "pk": "Park",
	"point": "Point", "pt": "Point",
	"heights": "Heights", "hts": "Heights",
	"gardens": "Gardens", "gdns": "Gardens",
	"meadows": "Meadows", "mdws": "Meadows",
	"ridge": "Ridge", "rdg": "Ridge",
	"view": "View", "vw": "View",
	"crossing": "Crossing", "xing": "Crossing",
	"alley": "Alley", "aly": "Alley",
	"bypass": "Bypass", "byp": "Bypass",
	"expressway": "Expressway", "expy": "Expressway",
	"freeway": "Freeway", "fwy": "Freeway",
	"route": "Route", "rte": "Route", "rt": "Route",
	"close": "Close", "cl": "Close",
	"commons": "Commons", "cmns": "Commons",
	"cove": "Cove", "cv": "Cove",
	"estates": "Estates", "est": "Estates",
	"green": "Green", "grn": "Green",
	"hill": "Hill", "hl": "Hill",
	"hollow": "Hollow", "holw": "Hollow",
	"island": "Island", "is": "Island",
	"junction": "Junction", "jct": "Junction",
	"landing": "Landing", "lndg": "Landing",
	"loop":  "Loop",
	"mall":  "Mall",
	"manor": "Manor", "mnr": "Manor",
	"mews": "Mews",
	"pass": "Pass",
	"path": "Path",
	"pike": "Pike",
	"promenade": "Promenade", "prom": "Promenade",
	"row":  "Row",
	"run":  "Run",
	"spur": "Spur",
	"station": "Station", "sta": "Station",
	"turnpike": "Turnpike", "tpke": "Turnpike",
	"valley": "Valley", "vly": "Valley",
	"viaduct": "Viaduct", "via": "Viaduct",
	"village": "Village", "vlg": "Village",
	"walk":  "Walk",
	"wharf": "Wharf", "whf": "Wharf",
}

// French street type vocabulary. Keys are stored accent-stripped; lookups
// strip accents first so "Montée" and "Montee" both resolve.
var frenchStreetTypes = map[string]string{
	"rue":    "Rue",
	"chemin": "Chemin", "ch": "Chemin",
	"boul":   "Boulevard",
	"rang":   "Rang", "rg": "Rang",
	"montee": "Montée",
	"cote":   "Côte",
	"allee":  "Allée",
	"impasse": "Impasse", "imp": "Impasse",
	"croissant": "Croissant", "crois": "Croissant",
	"terrasse": "Terrasse",
	"cercle":   "Cercle",
	"carre":    "Carré",
	"sentier":  "Sentier",
	"passage":  "Passage",
	"quai":     "Quai",
	"voie":     "Voie",
	"parc":     "Parc",
	"jardin":   "Jardin", "jard": "Jardin",
	"esplanade": "Esplanade", "espl": "Esplanade",
	"autoroute": "Autoroute", "aut": "Autoroute",
	"concession": "Concession", "conc": "Concession",
	"ligne": "Ligne",
}

// Road type words that take a trailing route number (Highway 205,
// Chemin 535). A 3-digit group after one of these is a route number, not
// a phone area code.
var roadIndicators = map[string]bool{
	"highway": true, "hwy": true,
	"route": true, "rte": true,
	"road": true, "rd": true,
	"chemin": true, "ch": true,
	"autoroute": true, "aut": true,
}

// Suite/unit words plus road types: a 3-digit group following one of
// these belongs to the address, not the phone number.
var suiteIndicators = map[string]bool{
	"suite": true, "ste": true, "unit": true, "apt": true,
	"apartment": true, "room": true, "rm": true, "floor": true, "fl": true,
	"highway": true, "hwy": true, "route": true, "rte": true,
	"road": true, "rd": true, "street": true, "st": true,
	"avenue": true, "ave": true, "av": true, "boulevard": true, "blvd": true,
	"drive": true, "dr": true, "lane": true, "ln": true,
	"place": true, "pl": true, "court": true, "ct": true,
	"circle": true, "cir": true, "trail": true, "tr": true,
	"path": true, "parkway": true, "pkwy": true, "way": true,
	"chemin": true, "ch": true, "rue": true,
	"autoroute": true, "aut": true, "voie": true,
}

// Unit indicator words that mark the start of an address on their own.
var unitIndicators = map[string]bool{
	"unit": true, "apt": true, "suite": true, "room": true, "rm": true,
}

// Words never considered community names: articles, prepositions, and
// generic business category words that collide with place names.
var communitySkipWords = map[string]bool{
	"and": true, "the": true, "of": true, "for": true, "to": true,
	"at": true, "in": true, "on": true, "by": true, "with": true,
	"from": true, "or": true, "but": true, "not": true, "all": true,
	"a": true, "an": true, "as": true, "are": true, "is": true, "it": true,
	"its": true, "be": true, "been": true, "being": true,
	"administration": true, "sales": true, "services": true,
	"management": true, "consulting": true, "solutions": true,
	"systems": true, "technologies": true, "enterprises": true,
	"industries": true,
}

func cleanTypeWord(word string) string {
	return stripAccents(strings.ToLower(strings.Trim(word, ".,")))
}

// IsStreetType reports whether the word is a known English or French
// street type in any accepted spelling.
func IsStreetType(word string) bool {
	w := cleanTypeWord(word)
	if w == "" {
		return false
	}
	if _, ok := englishStreetTypes[w]; ok {
		return true
	}
	_, ok := frenchStreetTypes[w]
	return ok
}

// StreetTypeStandardForm returns the canonical form of a street type word
// ("rd" -> "Road"), or "" when the word is not a street type.
func StreetTypeStandardForm(word string) string {
	w := cleanTypeWord(word)
	if std, ok := englishStreetTypes[w]; ok {
		return std
	}
	if std, ok := frenchStreetTypes[w]; ok {
		return std
	}
	return ""
}

// IsRoadIndicator reports whether the word is a road type followed by a
// route number in normal usage.
func IsRoadIndicator(word string) bool {
	return roadIndicators[cleanTypeWord(word)]
}

// IsSuiteIndicator reports whether a 3-digit group after this word stays
// with the address rather than the phone number.
func IsSuiteIndicator(word string) bool {
	return suiteIndicators[cleanTypeWord(word)]
}

// IsUnitIndicator reports whether the word starts an address by itself
// (Unit, Apt, Suite, ...).
func IsUnitIndicator(word string) bool {
	return unitIndicators[cleanTypeWord(word)]
}

// IsCommunitySkipWord reports whether a word is blocked from community
// matching.
func IsCommunitySkipWord(word string) bool {
	return communitySkipWords[cleanTypeWord(word)]
}
