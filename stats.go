package glyphatlas

// CacheStats holds cache statistics.
type CacheStats struct {
	// Hits counts MarkUsed calls that found an existing entry.
	Hits uint64

	// Misses counts MarkUsed calls that had to rasterize.
	Misses uint64

	// Rebuilds counts full atlas rebuilds.
	Rebuilds uint64

	// Evictions counts entries dropped during rebuilds.
	Evictions uint64

	// AtlasesCreated counts GPU atlas textures created.
	AtlasesCreated uint64
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	return c.stats
}

// HitRate returns the MarkUsed hit rate as a percentage.
// Returns 0 if there are no accesses.
func (c *Cache) HitRate() float64 {
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}
