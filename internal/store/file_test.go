package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/types"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestKey_Normalization(t *testing.T) {
	assert.Equal(t, Key("Acme Corp"), Key("acme corp"))
	assert.Equal(t, Key("Acme Corp"), Key("  Acme Corp  "))
	assert.NotEqual(t, Key("Acme Corp"), Key("Acme Inc"))
}

func TestFileStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	info := &types.CompanyInfo{
		Name:        "Acme Corp",
		Description: "Logistics software.",
		Industry:    "Logistics",
		Products:    []string{"Routing API"},
		CachedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Put(ctx, info))

	got, err := s.Get(ctx, "acme corp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, "Logistics", got.Industry)
}

func TestFileStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get(context.Background(), "Nobody Inc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_CorruptEntryIsAMiss(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.dir, Key("Acme Corp")+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	got, err := s.Get(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_PutRejectsUnnamed(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Put(context.Background(), &types.CompanyInfo{}))
	assert.Error(t, s.Put(context.Background(), nil))
}

func TestFileStore_PutLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put(context.Background(), &types.CompanyInfo{Name: "Acme"}))

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStore_ListAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex", "Initech"} {
		require.NoError(t, s.Put(ctx, &types.CompanyInfo{Name: name, CachedAt: time.Now()}))
	}

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 3)

	removed, err := s.Clear(ctx, "Globex")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = s.Clear(ctx, "Globex")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = s.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	infos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
