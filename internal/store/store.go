// Package store persists researched company profiles between runs.
//
// Two backends are provided: a JSON-file store for the common single-user
// case and a PostgreSQL store for shared setups. Both key entries by a
// normalized company name so lookups are case and whitespace insensitive.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/tailorcv/tailorcv/internal/types"
)

// CompanyStore is the persistence interface for researched company profiles.
type CompanyStore interface {
	// Get returns the cached profile for a company, or nil when absent.
	// Staleness is the caller's concern; entries are returned regardless
	// of age.
	Get(ctx context.Context, name string) (*types.CompanyInfo, error)

	// Put stores or replaces the profile for info.Name.
	Put(ctx context.Context, info *types.CompanyInfo) error

	// List returns every cached profile.
	List(ctx context.Context) ([]*types.CompanyInfo, error)

	// Clear removes the entry for name, or every entry when name is
	// empty. It returns the number of entries removed.
	Clear(ctx context.Context, name string) (int, error)

	Close() error
}

// Key derives the cache key for a company name. Names differing only in
// case or surrounding whitespace share an entry.
func Key(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
