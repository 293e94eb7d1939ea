// Package learn implements the word-frequency feedback loop. It reads
// completed parse results and increments role counters for their
// constituent words, so future classifications lean on what the corpus
// has actually seen. It is strictly decoupled from the read path:
// parsing and classification never call it implicitly, and its failures
// never alter a parse result.
package learn

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/parser"
)

// Role is the semantic category a learned word is counted under.
type Role string

const (
	RoleFirst    Role = "first"
	RoleLast     Role = "last"
	RoleBoth     Role = "both"
	RoleBusiness Role = "business"
)

// LearningSink persists a single count increment. Implementations must
// provide atomic increment-or-insert semantics so concurrent calls for
// the same word/role pair never lose updates.
type LearningSink interface {
	Increment(ctx context.Context, word string, role Role) error
}

// CommunityChecker and StreetChecker filter address-derived tokens out
// of the learning stream.
type CommunityChecker interface {
	CommunityExists(ctx context.Context, span, province string) (bool, error)
}

type StreetChecker interface {
	StreetExists(ctx context.Context, span, province string) (bool, error)
}

var skipWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "by": true, "with": true, "from": true,
	"and": true, "or": true, "&": true, "et": true,
	"inc": true, "ltd": true, "llc": true, "corp": true, "limited": true,
	"incorporated": true, "corporation": true, "company": true, "co": true,
}

var (
	reAllDigits = regexp.MustCompile(`^\d+$`)
	reHasLetter = regexp.MustCompile(`[a-z]`)
	reWordSplit = regexp.MustCompile(`[\s,;.!?()\[\]{}"]+`)
)

// Learner feeds parse results into the frequency store.
type Learner struct {
	sink        LearningSink
	communities CommunityChecker
	streets     StreetChecker
	retries     int
	retryDelay  time.Duration
	log         zerolog.Logger
}

// Config wires a learner.
type Config struct {
	Sink        LearningSink
	Communities CommunityChecker
	Streets     StreetChecker
	Retries     int
	RetryDelay  time.Duration
	Logger      zerolog.Logger
}

// New creates a learner. Retries default to 2 with a 100ms delay.
func New(cfg Config) *Learner {
	retries := cfg.Retries
	if retries <= 0 {
		retries = 2
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &Learner{
		sink:        cfg.Sink,
		communities: cfg.Communities,
		streets:     cfg.Streets,
		retries:     retries,
		retryDelay:  delay,
		log:         cfg.Logger,
	}
}

// Learn increments word counts for a completed parse result. Residential
// names count their first-name tokens under "first" and last-name tokens
// under "last"; an unsplittable residential name counts under "both";
// business names count under "business". Errors are reported to the
// caller for logging but carry no effect on the parse.
func (l *Learner) Learn(ctx context.Context, res parser.Result) error {
	if !res.Success {
		return nil
	}

	var firstErr error
	learned := 0

	record := func(text string, role Role) {
		for _, word := range splitIntoWords(text) {
			if !l.ShouldLearn(ctx, word, false) {
				continue
			}
			if err := l.increment(ctx, strings.ToLower(word), role); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			learned++
		}
	}

	switch {
	case res.IsResidential:
		if res.FirstName != "" || res.LastName != "" {
			record(res.FirstName, RoleFirst)
			record(res.LastName, RoleLast)
		} else if res.Name != "" {
			record(res.Name, RoleBoth)
		}
	case res.IsBusiness && res.Name != "":
		record(res.Name, RoleBusiness)
	}

	if learned > 0 {
		l.log.Debug().Int("words", learned).Str("input", res.Input).Msg("learned from parse result")
	}
	return firstErr
}

// ShouldLearn filters candidate words: too short, numeric, stopword, or
// letterless words are rejected. Community and street names are rejected
// only for address-derived words; a person coincidentally named after a
// street elsewhere must stay learnable.
func (l *Learner) ShouldLearn(ctx context.Context, word string, fromAddress bool) bool {
	wordLower := strings.TrimSpace(strings.ToLower(word))

	if len(wordLower) <= 1 {
		return false
	}
	if reAllDigits.MatchString(wordLower) {
		return false
	}
	if skipWords[wordLower] {
		return false
	}
	if !reHasLetter.MatchString(wordLower) {
		return false
	}

	if fromAddress {
		if l.communities != nil {
			if ok, err := l.communities.CommunityExists(ctx, wordLower, ""); err == nil && ok {
				return false
			}
		}
		if l.streets != nil {
			if ok, err := l.streets.StreetExists(ctx, wordLower, ""); err == nil && ok {
				return false
			}
		}
	}

	return true
}

// increment writes one count with a retry on transient store failure.
func (l *Learner) increment(ctx context.Context, word string, role Role) error {
	var err error
	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.retryDelay):
			}
		}
		if err = l.sink.Increment(ctx, word, role); err == nil {
			return nil
		}
		l.log.Warn().Err(err).Str("word", word).Str("role", string(role)).Int("attempt", attempt+1).Msg("learning increment failed")
	}
	return err
}

func splitIntoWords(text string) []string {
	var words []string
	for _, w := range reWordSplit.Split(text, -1) {
		w = strings.Trim(w, "'-_")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
