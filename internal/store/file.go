package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailorcv/tailorcv/internal/types"
)

// FileStore persists company profiles as one JSON file per company.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultCacheDir returns the per-user cache directory for company profiles.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache directory: %w", err)
	}
	return filepath.Join(base, "tailorcv", "companies"), nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, Key(name)+".json")
}

// Get returns the cached profile for name. A missing or unreadable entry is
// a cache miss, not an error.
func (s *FileStore) Get(_ context.Context, name string) (*types.CompanyInfo, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var info types.CompanyInfo
	if err := json.Unmarshal(data, &info); err != nil {
		// Corrupt entry: treat as a miss so it gets re-researched.
		return nil, nil
	}
	return &info, nil
}

// Put writes the profile atomically: a temp file in the same directory is
// renamed over the final path so readers never observe a partial entry.
func (s *FileStore) Put(_ context.Context, info *types.CompanyInfo) error {
	if info == nil || info.Name == "" {
		return fmt.Errorf("company info must have a name")
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal company info: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "company-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(info.Name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to finalize cache entry: %w", err)
	}
	return nil
}

// List returns every readable profile in the cache directory. Corrupt
// entries are skipped.
func (s *FileStore) List(_ context.Context) ([]*types.CompanyInfo, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan cache directory: %w", err)
	}

	var infos []*types.CompanyInfo
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var info types.CompanyInfo
		if err := json.Unmarshal(data, &info); err != nil || info.Name == "" {
			continue
		}
		infos = append(infos, &info)
	}
	return infos, nil
}

// Clear removes the entry for name, or every entry when name is empty.
func (s *FileStore) Clear(_ context.Context, name string) (int, error) {
	if name != "" {
		err := os.Remove(s.path(name))
		if err != nil {
			if os.IsNotExist(err) {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to remove cache entry: %w", err)
		}
		return 1, nil
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan cache directory: %w", err)
	}
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
