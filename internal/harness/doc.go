// Package harness runs strike store scenarios described in YAML.
//
// A scenario drives a fresh in-memory store through a flow of operations
// with a deterministic clock, checks each step's expectations, evaluates
// assertions on the final state, and records a trace that can be compared
// against a golden file.
//
// # Scenario Format
//
//	name: shoulder_session
//	description: "Two areas treated, one untagged entry"
//	start: "2026-10-18T09:00:00Z"   # first clock reading (default shown)
//	step: 1m                        # clock advance per write (default 1m)
//	timezone: UTC                   # zone for by-date grouping (default UTC)
//	flow:
//	  - op: add
//	    count: 2000
//	    tag: shoulder
//	  - op: advance
//	    duration: 24h
//	  - op: total
//	    filter: shoulder
//	    expect:
//	      total: 2000
//	  - op: detail
//	    order: by-date
//	    expect:
//	      groups: ["2026-10-18"]
//	      ids: [1]
//	  - op: add
//	    count: 0
//	    expect:
//	      error: INVALID_INPUT
//	assertions:
//	  - type: total
//	    total: 2000
//	  - type: entry_count
//	    count: 1
//
// # Operations
//
//   - add: records count strikes with an optional tag
//   - total: sums strikes, optionally for one tag
//   - summary: per-tag subtotals; expect.groups lists the tag labels in order
//   - detail: detail report by-tag or by-date; expect.groups lists group
//     labels (tag labels or dates) and expect.ids the entry ids in order
//   - advance: moves the clock forward without writing
//
// # Assertion Types
//
//   - total: the (optionally filtered) total equals total
//   - entry_count: the store holds exactly count entries
//   - trace_count: op appears exactly count times in the trace
//
// Golden traces live in testdata/golden/{name}.golden. To regenerate them:
//
//	go test ./internal/harness -update
package harness
