package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgforge/internal/types"
)

func TestFileCacheAdapterLoadMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFileCacheAdapter(filepath.Join(dir, "missing.json"))

	require.NoError(t, adapter.Load())
	_, ok := adapter.Get("anything", 1)
	require.False(t, ok)
}

func TestFileCacheAdapterInsertGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFileCacheAdapter(filepath.Join(dir, "cache.json"))

	pkg := types.Package{Base: "maya", Version: types.Version{Major: 2024}}
	require.NoError(t, adapter.Insert(types.CacheEntry{Path: "/repo/maya/package.lua", Mtime: 100, Package: pkg}))

	got, ok := adapter.Get("/repo/maya/package.lua", 100)
	require.True(t, ok)
	require.Equal(t, "maya", got.Base)
}

func TestFileCacheAdapterGetMismatchedMtimeMisses(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFileCacheAdapter(filepath.Join(dir, "cache.json"))

	pkg := types.Package{Base: "maya", Version: types.Version{Major: 2024}}
	require.NoError(t, adapter.Insert(types.CacheEntry{Path: "/repo/maya/package.lua", Mtime: 100, Package: pkg}))

	_, ok := adapter.Get("/repo/maya/package.lua", 200)
	require.False(t, ok)
}

func TestFileCacheAdapterSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	adapter := NewFileCacheAdapter(path)

	pkg := types.Package{Base: "redshift", Version: types.Version{Major: 3, Minor: 5}}
	require.NoError(t, adapter.Insert(types.CacheEntry{Path: "/repo/redshift/package.lua", Mtime: 42, Package: pkg}))
	require.NoError(t, adapter.Save())

	reloaded := NewFileCacheAdapter(path)
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.Get("/repo/redshift/package.lua", 42)
	require.True(t, ok)
	require.Equal(t, "redshift", got.Base)
}

func TestFileCacheAdapterPruneRemovesStaleEntries(t *testing.T) {
	dir := t.TempDir()
	adapter := NewFileCacheAdapter(filepath.Join(dir, "cache.json"))

	require.NoError(t, adapter.Insert(types.CacheEntry{Path: "/repo/a/package.lua", Mtime: 1}))
	require.NoError(t, adapter.Insert(types.CacheEntry{Path: "/repo/b/package.lua", Mtime: 1}))

	require.NoError(t, adapter.Prune(map[string]bool{"/repo/a/package.lua": true}))

	_, okA := adapter.Get("/repo/a/package.lua", 1)
	_, okB := adapter.Get("/repo/b/package.lua", 1)
	require.True(t, okA)
	require.False(t, okB)
}

func TestFileCacheAdapterLoadCorruptFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not valid json"), 0o644))

	adapter := NewFileCacheAdapter(path)
	require.NoError(t, adapter.Load())
	_, ok := adapter.Get("anything", 1)
	require.False(t, ok)
}
