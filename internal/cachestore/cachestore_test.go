package cachestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/forge/pkg/assetapi"
)

// Both stores must satisfy the cache contract.
var (
	_ assetapi.Cache = (*SQLiteStore)(nil)
	_ assetapi.Cache = (*MemoryStore)(nil)
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte("compiled")))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("compiled"), got)

	// The store hands out copies; mutating one must not leak back.
	got[0] = 'X'
	again, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("compiled"), again)
}

func TestMemoryStoreReplace(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("k", []byte("v1")))
	require.NoError(t, s.Set("k", []byte("v2")))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), got)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte("compiled")))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("compiled"), got)

	require.NoError(t, s.Set("k", []byte("recompiled")))
	got, ok = s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("recompiled"), got)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", []byte("kept")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("kept"), got)
}
