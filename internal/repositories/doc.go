// Package repositories implements SQLite persistence for saved favourites.
//
// [FavoriteRepository] handles CRUD operations with atomic sequence generation for human-readable ordering.
// Deletes are soft: deleted_at is set and deleted rows are excluded from queries by default.
// A song/artist pair can be active at most once; the pair is matched on a normalized key so
// case and spacing differences count as the same song.
//
// Sequence numbers provide stable ordering (e.g., favourite #3) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
