package harness

// TraceEvent records one executed flow step. Outcome is OutcomeOK or the
// strike.ErrorCode of the failure.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Args    any    `json:"args,omitempty"`
	Outcome string `json:"outcome"`
	Result  any    `json:"result,omitempty"`
}

// Outcome of a successful step.
const OutcomeOK = "ok"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addTrace appends an event with the next sequence number.
func (r *Result) addTrace(op string, args any, outcome string, result any) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     int64(len(r.Trace) + 1),
		Op:      op,
		Args:    args,
		Outcome: outcome,
		Result:  result,
	})
}

// Trace payloads. Field order is fixed so golden files are stable.

type addArgs struct {
	Count int64  `json:"count"`
	Tag   string `json:"tag,omitempty"`
}

type filterArgs struct {
	Filter string `json:"filter,omitempty"`
	Order  string `json:"order,omitempty"`
}

type advanceArgs struct {
	Duration string `json:"duration"`
}

type addResult struct {
	ID        int64  `json:"id"`
	Tag       string `json:"tag"`
	Timestamp string `json:"timestamp"`
}

type totalResult struct {
	Total int64 `json:"total"`
}

type summaryLine struct {
	Tag      string `json:"tag"`
	Subtotal int64  `json:"subtotal"`
}

type summaryResult struct {
	Lines      []summaryLine `json:"lines"`
	GrandTotal int64         `json:"grand_total"`
}

type detailGroup struct {
	Label string  `json:"label"`
	IDs   []int64 `json:"ids"`
}

type detailResult struct {
	Mode       string        `json:"mode"`
	StoreEmpty bool          `json:"store_empty"`
	Groups     []detailGroup `json:"groups"`
}
