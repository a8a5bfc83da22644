// Package wantlist turns standing want-list items into concrete listing
// matches.
//
// RunCheck searches the marketplace for each active item, optionally scores
// every result against price history, and upserts one match per
// (item, provider listing) pair. Re-running against unchanged results
// updates the same rows, so checks are idempotent.
//
// Failures are isolated: a failed search skips that item, and a failed
// upsert skips that listing. Neither aborts the run.
package wantlist
