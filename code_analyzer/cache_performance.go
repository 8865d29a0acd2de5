package code_analyzer

func (cm *CacheManager) recordCacheHit() {
	cm.stats.hits.Add(1)
}

func (cm *CacheManager) recordCacheMiss() {
	cm.stats.misses.Add(1)
}

// HitRate returns the percentage of lookups served from the cache
func (cm *CacheManager) HitRate() float64 {
	hits, misses := cm.stats.hits.Load(), cm.stats.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}

// GetPerformanceStats returns the raw counters
func (cm *CacheManager) GetPerformanceStats() (requests, hits, misses int64) {
	hits, misses = cm.stats.hits.Load(), cm.stats.misses.Load()
	return hits + misses, hits, misses
}

// ResetPerformanceStats zeroes the counters
func (cm *CacheManager) ResetPerformanceStats() {
	cm.stats.hits.Store(0)
	cm.stats.misses.Store(0)
}
