// Package cache provides a generic sharded map for high-concurrency
// memoization.
//
// The cache is split across 16 shards selected by key hash, so parallel
// writers mostly take disjoint locks. Entries are never evicted: the cache
// backs derived-data tables whose completeness is a correctness requirement,
// not a performance hint.
package cache
