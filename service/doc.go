// Package service coordinates the matching core with journaling,
// the outbox, the execution feed, and snapshots. It owns the single
// write lock: one input line is fully processed, and its side effects
// recorded, before the next begins.
package service
