// Package store keeps the history of examples runs in SQLite.
//
// Each run stores its report summary in runs and one row per check in
// results. Runs are append-only and identified by the report's run ID;
// writing the same run twice is a no-op. Listings are ordered by seq, the
// insertion order, never by wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - 5-second busy timeout
//   - foreign key enforcement
package store
