package parser

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/busword"
	"github.com/phonebook-parser/internal/classify"
	"github.com/phonebook-parser/internal/debug"
	"github.com/phonebook-parser/internal/normalize"
	"github.com/phonebook-parser/internal/refdata"
)

// Learner receives completed parse results for frequency learning. It is
// opt-in and post-hoc: the engine never blocks or fails a parse on it.
type Learner interface {
	Learn(ctx context.Context, res Result) error
}

// Engine orchestrates the complete listing parse: phone extraction,
// name/address boundary detection, and classification.
type Engine struct {
	streets     StreetLookup
	communities CommunityLookup
	words       busword.CountLookup
	analyzer    *busword.Analyzer
	classifier  classify.Classifier
	learner     Learner
	workers     int
	debug       bool
	log         zerolog.Logger
}

// Config holds the dependencies and tuning for a parsing engine.
type Config struct {
	Streets     StreetLookup
	Communities CommunityLookup
	Words       busword.CountLookup
	Analyzer    *busword.Analyzer
	Classifier  classify.Classifier
	Learner     Learner
	BatchWorkers int
	Debug        bool
	Logger       zerolog.Logger
}

// NewEngine creates a listing parsing engine.
func NewEngine(config Config) *Engine {
	workers := config.BatchWorkers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	return &Engine{
		streets:     config.Streets,
		communities: config.Communities,
		words:       config.Words,
		analyzer:    config.Analyzer,
		classifier:  config.Classifier,
		learner:     config.Learner,
		workers:     workers,
		debug:       config.Debug,
		log:         config.Logger,
	}
}

// Request is a single parse call.
type Request struct {
	Input           string
	Province        string
	DefaultAreaCode string
	Learn           bool
}

// Confidence carries per-field confidence for a parse.
type Confidence struct {
	Name    int `json:"name"`
	Address int `json:"address"`
	Phone   int `json:"phone"`
}

// Result is the structured outcome of parsing one listing. Immutable
// once returned.
type Result struct {
	Input         string     `json:"input"`
	Phone         string     `json:"phone,omitempty"`
	Name          string     `json:"name,omitempty"`
	Address       string     `json:"address,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	IsBusiness    bool       `json:"is_business"`
	IsResidential bool       `json:"is_residential"`
	Confidence    Confidence `json:"confidence"`
	Success       bool       `json:"success"`
	Error         string     `json:"error,omitempty"`
}

// Parse splits a raw listing into phone, name, and address, and labels
// the name as business or residential.
func (e *Engine) Parse(ctx context.Context, req Request) Result {
	localDebug := e.debug
	debug.Header(localDebug)
	defer debug.Footer(localDebug)
	defer debug.Timing(localDebug, "parse")()

	result := Result{Input: req.Input}

	if strings.TrimSpace(req.Input) == "" {
		result.Error = ErrEmptyInput.Error()
		return result
	}

	province := refdata.ResolveProvince(req.Province)

	// Step 1: normalize the raw line
	debug.Output(localDebug, "=== Step 1: Normalization ===")
	canonical := normalize.CanonicalListingDebug(localDebug, req.Input)
	if canonical == "" {
		result.Error = ErrEmptyInput.Error()
		return result
	}

	// Step 2: extract the phone number
	debug.Output(localDebug, "=== Step 2: Phone Extraction ===")
	phone, err := ExtractPhone(localDebug, canonical, req.DefaultAreaCode)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Phone = phone.Phone
	remaining := strings.TrimSpace(phone.Remaining)
	debug.Output(localDebug, "Phone: %s, remaining: %q", result.Phone, remaining)

	// Step 3: decide the parse path
	debug.Output(localDebug, "=== Step 3: Path Selection ===")
	words := strings.Fields(remaining)
	initialsPattern := detectResidentialInitials(words)
	forceBusiness := e.detectForcedBusiness(ctx, localDebug, remaining, words)
	if forceBusiness {
		initialsPattern = ""
	}

	switch {
	case forceBusiness:
		debug.Output(localDebug, "=== Step 4: Business Address Split ===")
		e.parseForcedBusiness(ctx, localDebug, remaining, province, &result)

	case initialsPattern != "":
		debug.Output(localDebug, "=== Step 4: Residential Initials ===")
		parseResidentialInitials(words, initialsPattern, &result)

	default:
		pb := e.parsePhonebookFormat(ctx, localDebug, remaining, province)
		if pb.isPhonebook {
			debug.Output(localDebug, "=== Step 4: Phonebook Name-First Split ===")
			result.Name = pb.name
			result.Address = pb.address
			result.Confidence.Address = pb.addressConfidence
			e.classifyName(ctx, localDebug, &result)
		} else {
			debug.Output(localDebug, "=== Step 4: Street/Community Boundary ===")
			e.parseByAddressSpan(ctx, localDebug, remaining, province, &result)
			e.classifyName(ctx, localDebug, &result)
		}
	}

	result.Confidence.Phone = 100
	result.Success = true

	debug.Output(localDebug, "=== Parse Complete ===")
	e.log.Debug().
		Str("input", req.Input).
		Str("name", result.Name).
		Str("address", result.Address).
		Str("phone", result.Phone).
		Bool("is_business", result.IsBusiness).
		Msg("parsed listing")

	if req.Learn && e.learner != nil {
		if err := e.learner.Learn(ctx, result); err != nil {
			e.log.Warn().Err(err).Str("input", req.Input).Msg("learning failed, result unaffected")
		}
	}

	return result
}

// detectResidentialInitials recognizes 3-word listings shaped like
// "A Mwinkeu C" or "J M Smith" that must never be forced business.
func detectResidentialInitials(words []string) string {
	if len(words) != 3 {
		return ""
	}

	isShortInitial := func(w string) bool {
		if len(w) == 0 || len(w) > 2 {
			return false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '.' {
				return false
			}
		}
		return true
	}
	isNameWord := func(w string) bool {
		return len(w) > 2 && unicode.IsLetter(rune(w[0]))
	}

	switch {
	case isShortInitial(words[0]) && isNameWord(words[1]) && isShortInitial(words[2]):
		return "initial-surname-initial"
	case isShortInitial(words[0]) && isShortInitial(words[1]) && isNameWord(words[2]):
		return "initial-initial-surname"
	}
	return ""
}

// detectForcedBusiness checks the whole remainder for signals that settle
// classification before any boundary search: strong business words, a
// corporate suffix, or the "A-1" trade-name convention.
func (e *Engine) detectForcedBusiness(ctx context.Context, localDebug bool, remaining string, words []string) bool {
	analysis := e.analyzer.AnalyzePhrase(ctx, remaining)
	if analysis.IsBusiness && analysis.MaxStrength >= busword.Strong {
		debug.Output(localDebug, "Strong business words: %s", analysis.Reason)
		return true
	}

	for _, w := range words {
		if e.analyzer.IsCorporateSuffix(ctx, strings.Trim(w, ".,")) {
			debug.Output(localDebug, "Corporate suffix %q forces business", w)
			return true
		}
	}

	// "A 1", "A-1", "A1" leading the listing is a trade-name convention
	if len(words) >= 2 && strings.EqualFold(words[0], "a") {
		second := words[1]
		if second == "1" || second == "#1" || second == "-1" || strings.HasPrefix(second, "1") {
			return true
		}
	}
	if len(words) > 0 && (strings.EqualFold(words[0], "a-1") || strings.EqualFold(words[0], "a1")) {
		return true
	}

	return false
}

// corporate terminators that guard the listing tail against community
// matching ("Acme Moncton Ltd" ends in a name, not an address)
var businessEndings = map[string]bool{
	"ltd": true, "limited": true, "inc": true, "incorporated": true,
	"corp": true, "corporation": true, "llc": true, "llp": true,
	"sons": true, "bros": true, "brothers": true, "co": true, "company": true,
}

// parseForcedBusiness splits a known-business listing into name and
// address. Numbers are only accepted as a civic address when what follows
// them reads as a street; numbers inside the trade name ("A 1", "(1987)")
// are skipped, as is anything before the last corporate terminator.
func (e *Engine) parseForcedBusiness(ctx context.Context, localDebug bool, remaining, province string, result *Result) {
	words := strings.Fields(remaining)

	lastTerminator := -1
	for i, w := range words {
		if e.analyzer.IsCorporateSuffix(ctx, strings.Trim(w, ".,")) {
			lastTerminator = i
		}
	}

	addressStart := -1
	for i, word := range words {
		if isDigits(word) {
			if i == 1 && word == "1" && strings.EqualFold(words[0], "a") {
				continue
			}
			if i > 0 && strings.HasSuffix(words[i-1], "(") {
				continue
			}
			if lastTerminator > i {
				continue
			}
			if e.numberStartsAddress(ctx, localDebug, words, i, lastTerminator, province) {
				addressStart = i
				break
			}
		} else if refdata.IsUnitIndicator(word) {
			addressStart = i
			break
		}
	}

	if addressStart >= 0 {
		charPos := wordOffset(words, addressStart)
		if charPos > 0 && charPos < len(remaining) {
			result.Name = strings.TrimSpace(remaining[:charPos])
			result.Address = strings.TrimSpace(remaining[charPos:])
		} else {
			result.Name = remaining
		}
		result.Confidence.Address = 85
	} else {
		lastWord := ""
		if len(words) > 0 {
			lastWord = strings.ToLower(strings.Trim(words[len(words)-1], ".,"))
		}

		if !businessEndings[lastWord] {
			if cm := e.findCommunityAtEnd(ctx, remaining, province); cm.found && cm.startIndex > 0 {
				result.Name = strings.TrimSpace(remaining[:cm.startIndex])
				result.Address = cm.communityName
				result.Confidence.Address = 75
			} else {
				result.Name = remaining
			}
		} else {
			result.Name = remaining
		}
	}

	result.IsBusiness = true
	result.Confidence.Name = 85
}

// numberStartsAddress decides whether a bare number token opens a civic
// address by looking at what follows it.
func (e *Engine) numberStartsAddress(ctx context.Context, localDebug bool, words []string, i, lastTerminator int, province string) bool {
	if i >= len(words)-1 {
		return false
	}

	nextWord := strings.Trim(words[i+1], ".,")
	if refdata.IsStreetType(nextWord) {
		return true
	}
	if isDigits(nextWord) {
		return true
	}

	// Multi-word street names without a type ("123 Filles De Jesus")
	span := nextWord
	limit := i + 5
	if limit > len(words) {
		limit = len(words)
	}
	if e.streetExists(ctx, span, province) {
		return true
	}
	for j := i + 2; j < limit; j++ {
		span = span + " " + strings.Trim(words[j], ".,")
		if e.streetExists(ctx, span, province) {
			debug.Output(localDebug, "Known street name %q after number", span)
			return true
		}
	}

	// A street type within the next few words
	for j := i + 2; j < i+4 && j < len(words); j++ {
		if refdata.IsStreetType(strings.Trim(words[j], ".,")) {
			return true
		}
	}

	// Weak signal: a capitalized word after a number that follows the
	// corporate terminator or a business-category word
	if len(nextWord) > 2 && unicode.IsUpper(rune(nextWord[0])) {
		if lastTerminator >= 0 && i > lastTerminator {
			return true
		}
		if i > 0 && refdata.IsCommunitySkipWord(words[i-1]) {
			return true
		}
	}

	return false
}

// parseResidentialInitials handles the two 3-word initial patterns,
// splitting surname from initials directly.
func parseResidentialInitials(words []string, pattern string, result *Result) {
	result.Name = strings.Join(words, " ")
	result.IsResidential = true
	result.Confidence.Name = 85

	switch pattern {
	case "initial-surname-initial":
		result.LastName = words[1]
		result.FirstName = words[0] + " " + words[2]
	case "initial-initial-surname":
		result.LastName = words[2]
		result.FirstName = words[0] + " " + words[1]
	}
}

// parseByAddressSpan applies the boundary strategies in priority order:
// street-anchored match, community match, first bare number, no address.
// The name-first heuristic resolves a split for any non-empty remainder,
// so at pipeline level this path only engages when the heuristic produces
// no split (phone-only listings); the matchers themselves carry the
// street and community boundary logic the other paths consult.
func (e *Engine) parseByAddressSpan(ctx context.Context, localDebug bool, remaining, province string, result *Result) {
	if sm := e.findBestStreetMatch(ctx, localDebug, remaining, province); sm.found {
		if sm.startIndex > 0 {
			result.Name = strings.TrimSpace(remaining[:sm.startIndex])
		}
		result.Address = strings.TrimSpace(remaining[sm.startIndex:])
		result.Confidence.Address = sm.confidence
		return
	}

	if cm := e.findCommunityMatch(ctx, localDebug, remaining, province); cm.found {
		if cm.startIndex > 0 {
			result.Name = strings.TrimSpace(remaining[:cm.startIndex])
		}
		result.Address = strings.TrimSpace(remaining[cm.startIndex:])
		result.Confidence.Address = 70
		return
	}

	if pos := findFirstNumber(remaining); pos >= 0 {
		result.Name = strings.TrimSpace(remaining[:pos])
		result.Address = strings.TrimSpace(remaining[pos:])
		result.Confidence.Address = 50
		return
	}

	result.Name = remaining
}

// classifyName labels the extracted name. A strong business-word hit
// settles it directly; otherwise the configured classifier strategy
// decides, and residential names are split into first and last.
func (e *Engine) classifyName(ctx context.Context, localDebug bool, result *Result) {
	if strings.TrimSpace(result.Name) == "" {
		return
	}

	analysis := e.analyzer.AnalyzePhrase(ctx, result.Name)
	if analysis.IsBusiness {
		result.IsBusiness = true
		switch analysis.MaxStrength {
		case busword.Absolute:
			result.Confidence.Name = 99
		case busword.Strong:
			result.Confidence.Name = 95
		case busword.Medium:
			result.Confidence.Name = 85
		default:
			result.Confidence.Name = 75
		}
		debug.Output(localDebug, "Name is business: %s", analysis.Reason)
		return
	}

	classification := e.classifier.Classify(ctx, result.Name)
	result.IsBusiness = classification.IsBusiness
	result.IsResidential = classification.IsResidential
	result.Confidence.Name = classification.Confidence

	if result.IsResidential {
		splitResidentialName(result)
	}
}

// roleCounts fetches frequency counts for a single word, degrading to
// zero counts when the store is unavailable.
func (e *Engine) roleCounts(ctx context.Context, word string) busword.RoleCounts {
	counts, err := e.words.RoleCounts(ctx, []string{word})
	if err != nil {
		e.log.Warn().Err(err).Str("word", word).Msg("word lookup unavailable, treating as unknown")
		return busword.RoleCounts{}
	}
	return counts[word]
}
