package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const streetCacheTTL = 4 * time.Hour

// StreetStore answers street-name existence queries against the street
// reference table. The table holds one row per block face, so existence
// is the only sane question to ask of it.
type StreetStore struct {
	db      *sql.DB
	cache   *gocache.Cache
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewStreetStore creates a street reference store.
func NewStreetStore(db *sql.DB, log zerolog.Logger) *StreetStore {
	return &StreetStore{
		db:      db,
		cache:   gocache.New(streetCacheTTL, 30*time.Minute),
		breaker: newBreaker("street_reference"),
		log:     log,
	}
}

// StreetExists reports whether the span is a known street name,
// optionally filtered to a province. Lookup is case-insensitive and
// tolerant of the table's heavy row duplication.
func (s *StreetStore) StreetExists(ctx context.Context, span, province string) (bool, error) {
	name := strings.ToLower(strings.TrimSpace(span))
	if name == "" {
		return false, nil
	}

	key := "s:" + name + "|" + province
	if cached, ok := s.cache.Get(key); ok {
		return cached.(bool), nil
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		var exists bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM street_reference
				WHERE LOWER(street_name) = $1
				  AND ($2 = '' OR province_code = $2)
			)`, name, province).Scan(&exists)
		return exists, err
	})
	if err != nil {
		return false, fmt.Errorf("street exists query: %w", err)
	}

	exists := out.(bool)
	s.cache.Set(key, exists, streetCacheTTL)
	return exists, nil
}

// SearchStreets returns distinct street names starting with the prefix,
// for the street search endpoint.
func (s *StreetStore) SearchStreets(ctx context.Context, prefix, province string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT DISTINCT street_name
			FROM street_reference
			WHERE LOWER(street_name) LIKE $1 || '%'
			  AND ($2 = '' OR province_code = $2)
			ORDER BY street_name
			LIMIT $3`, prefix, province, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("street search query: %w", err)
	}

	return out.([]string), nil
}
