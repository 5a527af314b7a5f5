// Package strike defines the domain types for the strike counter.
//
// This package contains type definitions and pure helpers only. The store,
// query compiler and CLI all import strike; strike imports nothing internal.
//
// Key design constraints:
//   - Tags are normalized exactly once, by NewTag / NewFilter
//   - Untagged is a value of Tag, not a nil string, and sorts after every tagged value
//   - Timestamps are absolute instants; zone conversion happens only when grouping by date
package strike
