// Package store provides SQLite-backed durable storage for strike entries.
//
// The store is an append-only log with a single table:
//
//	strike_log(id, strikes_count, entry_datetime, tag)
//
// # Invariants
//
//   - Entries are never updated or deleted
//   - tag is NULL for untagged entries, otherwise already lower-cased (see strike.NewTag)
//   - entry_datetime is assigned by the store, in UTC, as fixed-width RFC 3339 text
//     so that lexical order is chronological order
//   - strikes_count > 0 (CHECK constraint, and rejected before the INSERT)
//
// Rows written by earlier releases use a "+00:00" suffix and microsecond
// precision. They parse with RFC 3339 and still sort correctly against new
// rows at second granularity.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the single writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds, then fail with WriteFailure
//
// Every query is compiled by internal/querysql and ends its ORDER BY in an id
// tie-break, so results are deterministic for same-timestamp entries.
package store
