// Package cache provides named, size-bounded caches whose entries expire after a
// per-entry time-to-live.
//
// A Manager owns the caches; a cache is created the first time its name is requested
// and lives as long as the Manager. Lookups of one key are atomic: when several callers
// miss on the same key at once, the producer runs once and every caller receives its
// result. Expired entries are not purged in the background; they are replaced by the
// next write to the key or evicted as least recently used.
package cache
