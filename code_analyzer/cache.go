package code_analyzer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/zeebo/xxh3"
)

const cacheFileSuffix = ".cache"

// CacheEntry is the on-disk record for one source file's extracted specifiers
type CacheEntry struct {
	Specifiers []string
	Extractor  string
	Timestamp  time.Time
	FileSize   int64
	ModTime    time.Time
}

// FileCache stores gob-encoded entries, one file per cached source file
type FileCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// CacheStats counts lookups since creation or the last ClearCache
type CacheStats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheManager provides the extraction cache used by the analyzer
type CacheManager struct {
	fileCache *FileCache
	stats     *CacheStats
}

// CacheCleanupOptions defines options for cache cleanup
type CacheCleanupOptions struct {
	MaxAge   time.Duration // Remove entries older than this
	MaxFiles int           // Remove oldest entries beyond this count
}

var defaultCleanupOptions = CacheCleanupOptions{
	MaxAge:   7 * 24 * time.Hour,
	MaxFiles: 5000,
}

// NewCacheManager creates the cache directory if needed and prunes stale entries.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cacheManager := &CacheManager{
		fileCache: &FileCache{cacheDir: cacheDir},
		stats:     &CacheStats{},
	}

	if _, err := cacheManager.CleanupCache(defaultCleanupOptions); err != nil {
		return nil, err
	}

	return cacheManager, nil
}

// generateCacheKey creates a unique cache file name for a source file and extractor
func (fc *FileCache) generateCacheKey(filePath, extractor string) string {
	return fmt.Sprintf("%016x%s", xxh3.HashString(extractor+"\x00"+filePath), cacheFileSuffix)
}

func (fc *FileCache) getCachePath(cacheKey string) string {
	return filepath.Join(fc.cacheDir, cacheKey)
}

func readEntry(cachePath string) (*CacheEntry, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get returns the cached specifiers when the source file still has the recorded size and mtime.
func (fc *FileCache) Get(filePath, extractor string, info os.FileInfo) ([]string, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath, extractor))
	entry, err := readEntry(cachePath)
	if err != nil {
		return nil, false
	}

	if entry.Extractor != extractor || !info.ModTime().Equal(entry.ModTime) || info.Size() != entry.FileSize {
		os.Remove(cachePath)
		return nil, false
	}

	return entry.Specifiers, true
}

// Set stores the specifiers with the source file's current metadata
func (fc *FileCache) Set(filePath, extractor string, info os.FileInfo, specifiers []string) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	entry := CacheEntry{
		Specifiers: specifiers,
		Extractor:  extractor,
		Timestamp:  time.Now(),
		FileSize:   info.Size(),
		ModTime:    info.ModTime(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath, extractor))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// GetImportsCache retrieves cached specifiers for a source file
func (cm *CacheManager) GetImportsCache(filePath, extractor string, info os.FileInfo) ([]string, bool) {
	specifiers, found := cm.fileCache.Get(filePath, extractor, info)
	if !found {
		cm.recordCacheMiss()
		return nil, false
	}
	cm.recordCacheHit()
	return specifiers, true
}

// SetImportsCache stores extracted specifiers for a source file
func (cm *CacheManager) SetImportsCache(filePath, extractor string, info os.FileInfo, specifiers []string) error {
	return cm.fileCache.Set(filePath, extractor, info, specifiers)
}

func (cm *CacheManager) cacheFiles() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	var files []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			files = append(files, entry)
		}
	}
	return files, nil
}

// GetCacheStats returns storage and hit-rate statistics
func (cm *CacheManager) GetCacheStats() (*models.CacheEntryStats, error) {
	cm.fileCache.mutex.RLock()
	defer cm.fileCache.mutex.RUnlock()

	files, err := cm.cacheFiles()
	if err != nil {
		return nil, err
	}

	stats := &models.CacheEntryStats{
		Dir:     cm.fileCache.cacheDir,
		Files:   len(files),
		HitRate: cm.HitRate(),
	}

	for _, file := range files {
		info, err := file.Info()
		if err != nil {
			continue
		}
		stats.TotalBytes += info.Size()
		if stats.Oldest.IsZero() || info.ModTime().Before(stats.Oldest) {
			stats.Oldest = info.ModTime()
		}
		if info.ModTime().After(stats.Newest) {
			stats.Newest = info.ModTime()
		}
	}

	return stats, nil
}

// CleanupCache removes entries older than MaxAge, then the oldest entries beyond MaxFiles.
// It returns the number of removed entries.
func (cm *CacheManager) CleanupCache(options CacheCleanupOptions) (int, error) {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := cm.cacheFiles()
	if err != nil {
		return 0, err
	}

	type cachedFile struct {
		path     string
		entryAge time.Time
	}

	var cached []cachedFile
	for _, file := range files {
		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())
		info, err := file.Info()
		if err != nil {
			continue
		}
		entryAge := info.ModTime()
		if entry, err := readEntry(cachePath); err == nil {
			entryAge = entry.Timestamp
		}
		cached = append(cached, cachedFile{path: cachePath, entryAge: entryAge})
	}

	// Oldest first
	sort.Slice(cached, func(i, j int) bool {
		return cached[i].entryAge.Before(cached[j].entryAge)
	})

	var toDelete []string
	var kept []cachedFile
	if options.MaxAge > 0 {
		cutoff := time.Now().Add(-options.MaxAge)
		for _, f := range cached {
			if f.entryAge.Before(cutoff) {
				toDelete = append(toDelete, f.path)
			} else {
				kept = append(kept, f)
			}
		}
	} else {
		kept = cached
	}

	if options.MaxFiles > 0 && len(kept) > options.MaxFiles {
		for _, f := range kept[:len(kept)-options.MaxFiles] {
			toDelete = append(toDelete, f.path)
		}
	}

	removed := 0
	for _, path := range toDelete {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// ClearCache completely removes all cache entries
func (cm *CacheManager) ClearCache() error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := cm.cacheFiles()
	if err != nil {
		return err
	}

	for _, file := range files {
		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())
		if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete cache file: %w", err)
		}
	}

	cm.ResetPerformanceStats()
	return nil
}
