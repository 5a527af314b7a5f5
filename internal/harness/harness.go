package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/strikes/internal/store"
	"github.com/roach88/strikes/internal/strike"
	"github.com/roach88/strikes/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs one scenario against one store with a deterministic clock.
type Harness struct {
	store  *store.Store
	clock  *testutil.StepClock
	loc    *time.Location
	logger *slog.Logger
}

// observed is what a step produced, for comparison with its Expect clause.
type observed struct {
	total  *int64
	groups []string
	ids    []int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database with the scenario clock
// 2. Execute flow steps, checking each expect clause
// 3. Evaluate assertions against the final state
//
// Expectation and assertion failures are reported in Result.Errors; the
// returned error is reserved for failures outside the strike error taxonomy.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	start, step, err := scenario.clock()
	if err != nil {
		return nil, err
	}
	loc, err := scenario.location()
	if err != nil {
		return nil, err
	}

	clock := testutil.NewStepClock(start, step)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	st, err := store.Open(store.MemoryPath, store.WithClock(clock.Now), store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  clock,
		loc:    loc,
		logger: logger,
	}

	result := NewResult()
	for i, s := range scenario.Flow {
		if err := h.executeStep(ctx, i, s, result); err != nil {
			return nil, fmt.Errorf("flow[%d] %s: %w", i, s.Op, err)
		}
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one step, records it in the trace and checks its
// expectations.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	var (
		args any
		out  any
		obs  observed
		err  error
	)

	switch step.Op {
	case OpAdvance:
		d, parseErr := time.ParseDuration(step.Duration)
		if parseErr != nil {
			return parseErr
		}
		h.clock.Advance(d)
		result.addTrace(step.Op, advanceArgs{Duration: d.String()}, OutcomeOK, nil)
		return nil

	case OpAdd:
		args = addArgs{Count: step.Count, Tag: step.Tag}
		var e strike.Entry
		e, err = h.store.AddEntry(ctx, step.Count, step.Tag)
		if err == nil {
			out = addResult{ID: e.ID, Tag: e.Tag.Label(), Timestamp: e.Timestamp.Format(time.RFC3339Nano)}
			obs.ids = []int64{e.ID}
		}

	case OpTotal:
		args = filterArgs{Filter: step.Filter}
		var total int64
		total, err = h.store.TotalStrikes(ctx, strike.NewFilter(step.Filter))
		if err == nil {
			out = totalResult{Total: total}
			obs.total = &total
		}

	case OpSummary:
		var summary strike.Summary
		summary, err = h.store.Summary(ctx)
		if err == nil {
			res := summaryResult{Lines: []summaryLine{}, GrandTotal: summary.GrandTotal}
			for _, line := range summary.Lines {
				res.Lines = append(res.Lines, summaryLine{Tag: line.Tag.Label(), Subtotal: line.Subtotal})
				obs.groups = append(obs.groups, line.Tag.Label())
			}
			out = res
			obs.total = &summary.GrandTotal
		}

	case OpDetail:
		order := strike.ByTag
		if step.Order != "" {
			if order, err = strike.ParseOrderMode(step.Order); err != nil {
				return err
			}
		}
		args = filterArgs{Filter: step.Filter, Order: order.String()}
		var report strike.Report
		report, err = h.store.Detail(ctx, strike.NewFilter(step.Filter), order, h.loc)
		if err == nil {
			res := detailTrace(report)
			for _, g := range res.Groups {
				obs.groups = append(obs.groups, g.Label)
				obs.ids = append(obs.ids, g.IDs...)
			}
			out = res
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	outcome := OutcomeOK
	if err != nil {
		var se *strike.Error
		if !errors.As(err, &se) {
			return err
		}
		outcome = string(se.Code)
	}

	h.logger.Debug("step executed", "index", index, "op", step.Op, "outcome", outcome)
	result.addTrace(step.Op, args, outcome, out)
	checkExpect(index, step, outcome, obs, result)
	return nil
}

// detailTrace reduces a report to group labels and entry ids.
func detailTrace(r strike.Report) detailResult {
	res := detailResult{Mode: r.Mode.String(), StoreEmpty: r.StoreEmpty, Groups: []detailGroup{}}
	for _, g := range r.TagGroups {
		res.Groups = append(res.Groups, detailGroup{Label: g.Tag.Label(), IDs: entryIDs(g.Entries)})
	}
	for _, g := range r.DateGroups {
		res.Groups = append(res.Groups, detailGroup{Label: g.Date, IDs: entryIDs(g.Entries)})
	}
	return res
}

func entryIDs(entries []strike.Entry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// checkExpect compares a step's outcome with its Expect clause.
// A step without an Expect clause must succeed.
func checkExpect(index int, step Step, outcome string, obs observed, result *Result) {
	want := OutcomeOK
	if step.Expect != nil && step.Expect.Error != "" {
		want = step.Expect.Error
	}
	if outcome != want {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected outcome %s, got %s", index, step.Op, want, outcome))
		return
	}
	if step.Expect == nil || outcome != OutcomeOK {
		return
	}

	exp := step.Expect
	if exp.Total != nil {
		switch {
		case obs.total == nil:
			result.AddError(fmt.Sprintf("flow[%d] %s: expect.total is not supported for this op", index, step.Op))
		case *obs.total != *exp.Total:
			result.AddError(fmt.Sprintf("flow[%d] %s: expected total %d, got %d", index, step.Op, *exp.Total, *obs.total))
		}
	}
	if exp.Groups != nil && !slices.Equal(exp.Groups, obs.groups) {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected groups %v, got %v", index, step.Op, exp.Groups, obs.groups))
	}
	if exp.IDs != nil && !slices.Equal(exp.IDs, obs.ids) {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected ids %v, got %v", index, step.Op, exp.IDs, obs.ids))
	}
}
