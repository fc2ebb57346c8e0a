package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tailorcv/tailorcv/internal/types"
)

// PostgresStore keeps company profiles in a single jsonb table, for setups
// where several machines share one research cache.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the cache table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS company_cache (
			name_key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			profile JSONB NOT NULL,
			cached_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create company_cache table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the cached profile for name, or nil when absent.
func (s *PostgresStore) Get(ctx context.Context, name string) (*types.CompanyInfo, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM company_cache WHERE name_key = $1`,
		Key(name),
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	var info types.CompanyInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, nil
	}
	return &info, nil
}

// Put stores or replaces the profile for info.Name.
func (s *PostgresStore) Put(ctx context.Context, info *types.CompanyInfo) error {
	if info == nil || info.Name == "" {
		return fmt.Errorf("company info must have a name")
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal company info: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO company_cache (name_key, name, profile, cached_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name_key) DO UPDATE SET name = $2, profile = $3, cached_at = $4`,
		Key(info.Name), info.Name, data, info.CachedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store company profile: %w", err)
	}
	return nil
}

// List returns every cached profile ordered by company name.
func (s *PostgresStore) List(ctx context.Context) ([]*types.CompanyInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT profile FROM company_cache ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list company profiles: %w", err)
	}
	defer rows.Close()

	var infos []*types.CompanyInfo
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan company profile: %w", err)
		}
		var info types.CompanyInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read company profiles: %w", err)
	}
	return infos, nil
}

// Clear removes the entry for name, or every entry when name is empty.
func (s *PostgresStore) Clear(ctx context.Context, name string) (int, error) {
	if name != "" {
		ct, err := s.pool.Exec(ctx,
			`DELETE FROM company_cache WHERE name_key = $1`, Key(name))
		if err != nil {
			return 0, fmt.Errorf("failed to clear company profile: %w", err)
		}
		return int(ct.RowsAffected()), nil
	}

	ct, err := s.pool.Exec(ctx, `DELETE FROM company_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear company profiles: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
