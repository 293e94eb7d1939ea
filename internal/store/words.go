package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/phonebook-parser/internal/busword"
	"github.com/phonebook-parser/internal/classify"
	"github.com/phonebook-parser/internal/learn"
)

const (
	wordCacheTTL   = 30 * time.Minute
	suffixCacheTTL = 24 * time.Hour
	nameCacheTTL   = 30 * time.Minute

	// A business count at or above this marks a word as an absolute
	// corporate identifier regardless of its stored role.
	corporateCountFloor = 99999
)

// WordStore serves word and name frequency counts from the word_data and
// name_data tables, and persists learning increments.
type WordStore struct {
	db      *sql.DB
	cache   *gocache.Cache
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewWordStore creates a word frequency store.
func NewWordStore(db *sql.DB, log zerolog.Logger) *WordStore {
	return &WordStore{
		db:      db,
		cache:   gocache.New(wordCacheTTL, 10*time.Minute),
		breaker: newBreaker("word_data"),
		log:     log,
	}
}

// RoleCounts returns per-role counts for each word, keyed by the cleaned
// lower-case form. Possessive markers are trimmed before lookup, and
// duplicate historical rows collapse to the maximum count per role.
func (s *WordStore) RoleCounts(ctx context.Context, words []string) (map[string]busword.RoleCounts, error) {
	result := make(map[string]busword.RoleCounts, len(words))
	var misses []string

	for _, w := range words {
		key := cleanLookupWord(w)
		if key == "" {
			continue
		}
		if cached, ok := s.cache.Get("w:" + key); ok {
			result[key] = cached.(busword.RoleCounts)
		} else {
			misses = append(misses, key)
		}
	}

	if len(misses) == 0 {
		return result, nil
	}

	rows, err := s.breaker.Execute(func() (interface{}, error) {
		return s.db.QueryContext(ctx, `
			SELECT word_lower, word_type, MAX(word_count)
			FROM word_data
			WHERE word_lower = ANY($1)
			GROUP BY word_lower, word_type`,
			pq.Array(misses))
	})
	if err != nil {
		return nil, fmt.Errorf("word counts query: %w", err)
	}
	defer rows.(*sql.Rows).Close()

	fetched := make(map[string]busword.RoleCounts, len(misses))
	sqlRows := rows.(*sql.Rows)
	for sqlRows.Next() {
		var word, role string
		var count int
		if err := sqlRows.Scan(&word, &role, &count); err != nil {
			return nil, fmt.Errorf("word counts scan: %w", err)
		}

		rc := fetched[word]
		switch role {
		case "first":
			rc.First = count
		case "last":
			rc.Last = count
		case "both":
			rc.Both = count
		case "business":
			rc.Business = count
		}
		fetched[word] = rc
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("word counts rows: %w", err)
	}

	// Negative results are cached too, so repeated unknown words don't
	// requery
	for _, key := range misses {
		rc := fetched[key]
		s.cache.Set("w:"+key, rc, wordCacheTTL)
		result[key] = rc
	}

	return result, nil
}

// CorporateSuffixes returns the absolute business identifier set: words
// stored under the corporate role plus words with an overwhelming
// business count.
func (s *WordStore) CorporateSuffixes(ctx context.Context) (map[string]bool, error) {
	if cached, ok := s.cache.Get("corporate_suffixes"); ok {
		return cached.(map[string]bool), nil
	}

	rows, err := s.breaker.Execute(func() (interface{}, error) {
		return s.db.QueryContext(ctx, `
			SELECT DISTINCT word_lower
			FROM word_data
			WHERE word_type = 'corporate'
			   OR (word_type = 'business' AND word_count >= $1)`,
			corporateCountFloor)
	})
	if err != nil {
		return nil, fmt.Errorf("corporate suffixes query: %w", err)
	}
	defer rows.(*sql.Rows).Close()

	suffixes := make(map[string]bool)
	sqlRows := rows.(*sql.Rows)
	for sqlRows.Next() {
		var word string
		if err := sqlRows.Scan(&word); err != nil {
			return nil, fmt.Errorf("corporate suffixes scan: %w", err)
		}
		suffixes[word] = true
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("corporate suffixes rows: %w", err)
	}

	s.cache.Set("corporate_suffixes", suffixes, suffixCacheTTL)
	s.log.Debug().Int("count", len(suffixes)).Msg("loaded corporate suffix set")
	return suffixes, nil
}

// NameRoleCounts returns person-name counts from the name_data table.
func (s *WordStore) NameRoleCounts(ctx context.Context, words []string) (map[string]classify.NameRoleCounts, error) {
	result := make(map[string]classify.NameRoleCounts, len(words))
	var misses []string

	for _, w := range words {
		key := cleanLookupWord(w)
		if key == "" {
			continue
		}
		if cached, ok := s.cache.Get("n:" + key); ok {
			result[key] = cached.(classify.NameRoleCounts)
		} else {
			misses = append(misses, key)
		}
	}

	if len(misses) == 0 {
		return result, nil
	}

	rows, err := s.breaker.Execute(func() (interface{}, error) {
		return s.db.QueryContext(ctx, `
			SELECT name_lower, name_type, MAX(name_count)
			FROM name_data
			WHERE name_lower = ANY($1)
			GROUP BY name_lower, name_type`,
			pq.Array(misses))
	})
	if err != nil {
		return nil, fmt.Errorf("name counts query: %w", err)
	}
	defer rows.(*sql.Rows).Close()

	fetched := make(map[string]classify.NameRoleCounts, len(misses))
	sqlRows := rows.(*sql.Rows)
	for sqlRows.Next() {
		var name, role string
		var count int
		if err := sqlRows.Scan(&name, &role, &count); err != nil {
			return nil, fmt.Errorf("name counts scan: %w", err)
		}

		nc := fetched[name]
		switch role {
		case "first":
			nc.First = count
		case "last":
			nc.Last = count
		case "both":
			nc.Both = count
		}
		fetched[name] = nc
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("name counts rows: %w", err)
	}

	for _, key := range misses {
		nc := fetched[key]
		s.cache.Set("n:"+key, nc, nameCacheTTL)
		result[key] = nc
	}

	return result, nil
}

// Increment atomically bumps a word's count under a role, inserting the
// row on first sight. Concurrent increments for the same pair serialize
// on the upsert and never lose updates.
func (s *WordStore) Increment(ctx context.Context, word string, role learn.Role) error {
	wordLower := cleanLookupWord(word)
	if wordLower == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO word_data (word_lower, word_type, word_count, last_seen, created_at)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (word_lower, word_type)
		DO UPDATE SET word_count = word_data.word_count + 1, last_seen = NOW()`,
		wordLower, string(role))
	if err != nil {
		return fmt.Errorf("increment %q (%s): %w", wordLower, role, err)
	}

	// The learned word's cached counts are now stale
	s.cache.Delete("w:" + wordLower)
	return nil
}

// cleanLookupWord lowercases and strips possessive markers and edge
// punctuation, matching how the analyzer cleans words before asking.
func cleanLookupWord(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	w = strings.TrimSuffix(w, "'s")
	return strings.Trim(w, ".,'\"")
}
