package code_analyzer

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test cache manager setup and basic operations
func TestCacheManager_BasicOperations(t *testing.T) {
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cacheManager)

	sourceFile := writeFile(t, t.TempDir(), "components/Button.tsx", `import x from "react";`)
	info, err := os.Stat(sourceFile)
	require.NoError(t, err)

	specifiers, found := cacheManager.GetImportsCache(sourceFile, ExtractorRegex, info)
	assert.False(t, found)
	assert.Nil(t, specifiers)

	require.NoError(t, cacheManager.SetImportsCache(sourceFile, ExtractorRegex, info, []string{"react"}))

	specifiers, found = cacheManager.GetImportsCache(sourceFile, ExtractorRegex, info)
	assert.True(t, found)
	assert.Equal(t, []string{"react"}, specifiers)
}

func TestNewCacheManager_RequiresDir(t *testing.T) {
	_, err := NewCacheManager("")
	assert.Error(t, err)
}

// Test cache invalidation when the source file is modified
func TestCacheManager_FileInvalidation(t *testing.T) {
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	sourceFile := writeFile(t, t.TempDir(), "lib/a.ts", `import "./b";`)
	info, err := os.Stat(sourceFile)
	require.NoError(t, err)
	require.NoError(t, cacheManager.SetImportsCache(sourceFile, ExtractorRegex, info, []string{"./b"}))

	// Size change
	require.NoError(t, os.WriteFile(sourceFile, []byte(`import "./b"; import "./c";`), 0644))
	changed, err := os.Stat(sourceFile)
	require.NoError(t, err)

	_, found := cacheManager.GetImportsCache(sourceFile, ExtractorRegex, changed)
	assert.False(t, found, "entry should be invalidated after the file grew")

	// Mtime change with the same size
	require.NoError(t, cacheManager.SetImportsCache(sourceFile, ExtractorRegex, changed, []string{"./b", "./c"}))
	later := changed.ModTime().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(sourceFile, later, later))
	touched, err := os.Stat(sourceFile)
	require.NoError(t, err)

	_, found = cacheManager.GetImportsCache(sourceFile, ExtractorRegex, touched)
	assert.False(t, found, "entry should be invalidated after the mtime moved")
}

func TestCacheManager_KeyedByExtractor(t *testing.T) {
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	sourceFile := writeFile(t, t.TempDir(), "app/page.tsx", `// import "./old"`)
	info, err := os.Stat(sourceFile)
	require.NoError(t, err)

	require.NoError(t, cacheManager.SetImportsCache(sourceFile, ExtractorRegex, info, []string{"./old"}))

	_, found := cacheManager.GetImportsCache(sourceFile, ExtractorAST, info)
	assert.False(t, found)

	require.NoError(t, cacheManager.SetImportsCache(sourceFile, ExtractorAST, info, nil))

	specifiers, found := cacheManager.GetImportsCache(sourceFile, ExtractorRegex, info)
	assert.True(t, found)
	assert.Equal(t, []string{"./old"}, specifiers)
}

func TestCacheManager_Stats(t *testing.T) {
	cacheDir := t.TempDir()
	cacheManager, err := NewCacheManager(cacheDir)
	require.NoError(t, err)

	root := t.TempDir()
	for _, rel := range []string{"a.ts", "b.ts"} {
		path := writeFile(t, root, rel, "export {}")
		info, err := os.Stat(path)
		require.NoError(t, err)
		_, _ = cacheManager.GetImportsCache(path, ExtractorRegex, info)
		require.NoError(t, cacheManager.SetImportsCache(path, ExtractorRegex, info, nil))
		_, _ = cacheManager.GetImportsCache(path, ExtractorRegex, info)
	}

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, cacheDir, stats.Dir)
	assert.Equal(t, 2, stats.Files)
	assert.Greater(t, stats.TotalBytes, int64(0))
	assert.InDelta(t, 50.0, stats.HitRate, 0.01)
	assert.False(t, stats.Oldest.After(stats.Newest))

	requests, hits, misses := cacheManager.GetPerformanceStats()
	assert.Equal(t, int64(4), requests)
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)
}

func TestCacheManager_ClearCache(t *testing.T) {
	cacheDir := t.TempDir()
	cacheManager, err := NewCacheManager(cacheDir)
	require.NoError(t, err)

	// Unrelated files in the cache dir survive a clear
	keep := filepath.Join(cacheDir, "README")
	require.NoError(t, os.WriteFile(keep, []byte("notes"), 0644))

	path := writeFile(t, t.TempDir(), "a.ts", "export {}")
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, cacheManager.SetImportsCache(path, ExtractorRegex, info, nil))
	_, _ = cacheManager.GetImportsCache(path, ExtractorRegex, info)

	require.NoError(t, cacheManager.ClearCache())

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Files)
	assert.Zero(t, stats.HitRate)
	assert.FileExists(t, keep)
}

func TestCacheManager_CleanupCache(t *testing.T) {
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	root := t.TempDir()
	for _, rel := range []string{"a.ts", "b.ts", "c.ts", "d.ts"} {
		path := writeFile(t, root, rel, "export {}")
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NoError(t, cacheManager.SetImportsCache(path, ExtractorRegex, info, nil))
	}

	removed, err := cacheManager.CleanupCache(CacheCleanupOptions{MaxFiles: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = cacheManager.CleanupCache(CacheCleanupOptions{MaxAge: time.Nanosecond})
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Files)
}

func TestCacheManager_CorruptEntryIsMiss(t *testing.T) {
	cacheDir := t.TempDir()
	cacheManager, err := NewCacheManager(cacheDir)
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "a.ts", "export {}")
	info, err := os.Stat(path)
	require.NoError(t, err)

	key := cacheManager.fileCache.generateCacheKey(path, ExtractorRegex)
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, key), []byte("not gob"), 0644))

	_, found := cacheManager.GetImportsCache(path, ExtractorRegex, info)
	assert.False(t, found)
}

// Test concurrent access from several goroutines
func TestCacheManager_ConcurrentAccess(t *testing.T) {
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	root := t.TempDir()
	workers := runtime.NumCPU() * 2
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		path := writeFile(t, root, filepath.Join("dir", string(rune('a'+i%26))+".ts"), "export {}")
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			info, err := os.Stat(path)
			if err != nil {
				return
			}
			_ = cacheManager.SetImportsCache(path, ExtractorRegex, info, []string{"react"})
			cacheManager.GetImportsCache(path, ExtractorRegex, info)
		}(path)
	}
	wg.Wait()

	requests, _, _ := cacheManager.GetPerformanceStats()
	assert.Equal(t, int64(workers), requests)
}
