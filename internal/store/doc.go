// Package store provides a SQLite-backed artifact index that compiled AQL
// queries run against.
//
// Entries are keyed by (storage_id, repository_id, path); writing the same
// key again updates the entry in place and keeps its id. Layout coordinates
// and tags are stored as canonical JSON so the SQLite renderer can reach
// into them with json_extract and json_each.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Every search orders by the requested property and then by id, so results
// are deterministic.
package store
