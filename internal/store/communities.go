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

const communityCacheTTL = time.Hour

// CommunityStore answers community-name existence queries.
type CommunityStore struct {
	db      *sql.DB
	cache   *gocache.Cache
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewCommunityStore creates a community reference store.
func NewCommunityStore(db *sql.DB, log zerolog.Logger) *CommunityStore {
	return &CommunityStore{
		db:      db,
		cache:   gocache.New(communityCacheTTL, 15*time.Minute),
		breaker: newBreaker("communities"),
		log:     log,
	}
}

// CommunityExists reports whether the span names a known community,
// optionally filtered to a province. Multi-word communities ("Saint
// John") match as a whole span.
func (s *CommunityStore) CommunityExists(ctx context.Context, span, province string) (bool, error) {
	name := strings.ToLower(strings.TrimSpace(span))
	if name == "" {
		return false, nil
	}

	key := "c:" + name + "|" + province
	if cached, ok := s.cache.Get(key); ok {
		return cached.(bool), nil
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		var exists bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM communities
				WHERE community_lower = $1
				  AND ($2 = '' OR province_code = $2)
			)`, name, province).Scan(&exists)
		return exists, err
	})
	if err != nil {
		return false, fmt.Errorf("community exists query: %w", err)
	}

	exists := out.(bool)
	s.cache.Set(key, exists, communityCacheTTL)
	return exists, nil
}
