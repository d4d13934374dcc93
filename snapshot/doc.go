// Package snapshot persists and restores engine state: every resting
// order with its queue position, plus the set of order ids ever
// accepted, so duplicate detection survives a restart. Snapshots bound
// journal replay; they are an optimization, never the source of truth.
package snapshot
