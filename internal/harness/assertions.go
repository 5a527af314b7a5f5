package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/strikes/internal/store"
	"github.com/roach88/strikes/internal/strike"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Op, event.Args, event.Outcome)
	}

	return buf.String()
}

// AssertionContext provides database access for state assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// assertTotal checks the (optionally filtered) strike total.
func assertTotal(actx *AssertionContext, trace []TraceEvent, assertion Assertion) error {
	filter := strike.NewFilter(assertion.Filter)
	total, err := actx.Store.TotalStrikes(actx.Ctx, filter)
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if total != assertion.Total {
		expected := fmt.Sprintf("total %d", assertion.Total)
		if !filter.IsZero() {
			expected = fmt.Sprintf("total %d for tag %q", assertion.Total, filter.String())
		}
		return &AssertionError{
			Type:     AssertTotal,
			Expected: expected,
			Actual:   fmt.Sprintf("total %d", total),
			Trace:    trace,
		}
	}
	return nil
}

// assertEntryCount checks the number of stored entries.
func assertEntryCount(actx *AssertionContext, trace []TraceEvent, assertion Assertion) error {
	count, err := actx.Store.Count(actx.Ctx)
	if err != nil {
		return fmt.Errorf("entry_count: %w", err)
	}
	if count != int64(assertion.Count) {
		return &AssertionError{
			Type:     AssertEntryCount,
			Expected: fmt.Sprintf("%d entries", assertion.Count),
			Actual:   fmt.Sprintf("%d entries", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceCount checks if the op appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s appears %d times", assertion.Op, assertion.Count),
			Actual:   fmt.Sprintf("%s appears %d times", assertion.Op, count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for state assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTotal, AssertEntryCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			} else if assertion.Type == AssertTotal {
				err = assertTotal(actx, result.Trace, assertion)
			} else {
				err = assertEntryCount(actx, result.Trace, assertion)
			}
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
