package cli

import (
	"fmt"
	"strconv"

	"github.com/roach88/strikes/internal/strike"
)

// IntentKind is the single operation an invocation performs.
type IntentKind int

const (
	IntentAdd IntentKind = iota
	IntentTotal
	IntentSummary
	IntentDetail
	IntentInfo
)

func (k IntentKind) String() string {
	switch k {
	case IntentAdd:
		return "add"
	case IntentTotal:
		return "total"
	case IntentSummary:
		return "summary"
	case IntentDetail:
		return "detail"
	case IntentInfo:
		return "info"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// Intent is the normalized form of the command line.
type Intent struct {
	Kind IntentKind

	// Count and RawTag are set for IntentAdd. RawTag is passed to the store
	// un-normalized; the store normalizes it.
	Count  int64
	RawTag string

	// Filter is set for IntentTotal and IntentDetail.
	Filter strike.Filter

	// Order is set for IntentDetail.
	Order strike.OrderMode
}

// modeFlags are the root flags that select an operation.
type modeFlags struct {
	Count     bool
	Summary   bool
	Detail    bool
	ByDate    bool
	Info      bool
	FilterTag string
	// FilterSet is true when --filter-tag was given, even as "".
	FilterSet bool
}

func (m modeFlags) any() bool {
	return m.Count || m.Summary || m.Detail || m.Info || m.FilterSet
}

// parseIntent validates flag/positional combinations and builds the Intent.
// Flag-vs-flag exclusions are enforced earlier by cobra flag groups; this
// handles the rules involving positionals and --by-date.
func parseIntent(m modeFlags, args []string) (Intent, error) {
	if m.ByDate && !m.Detail {
		return Intent{}, NewExitError(ExitCommandError, "--by-date requires --detail")
	}

	if m.any() && len(args) > 0 {
		return Intent{}, NewExitError(ExitCommandError,
			"positional arguments <count> and [tag] are not allowed with --count, --filter-tag, --summary, --detail or --info")
	}

	switch {
	case m.Info:
		return Intent{Kind: IntentInfo}, nil
	case m.Summary:
		return Intent{Kind: IntentSummary}, nil
	case m.Detail:
		order := strike.ByTag
		if m.ByDate {
			order = strike.ByDate
		}
		return Intent{Kind: IntentDetail, Filter: strike.NewFilter(m.FilterTag), Order: order}, nil
	case m.Count || m.FilterSet:
		return Intent{Kind: IntentTotal, Filter: strike.NewFilter(m.FilterTag)}, nil
	}

	if len(args) == 0 {
		return Intent{}, NewExitError(ExitCommandError,
			"no operation specified: provide <count> or use --count, --filter-tag, --summary, --detail or --info")
	}

	count, err := parseCount(args[0])
	if err != nil {
		return Intent{}, WrapExitError(ExitCommandError, "invalid strike count", err)
	}

	intent := Intent{Kind: IntentAdd, Count: count}
	if len(args) > 1 {
		intent.RawTag = args[1]
	}
	return intent, nil
}

// parseCount rejects non-numeric and non-positive counts before they reach the store.
func parseCount(s string) (int64, error) {
	count, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, strike.NewInvalidInput(fmt.Sprintf("strike count must be a positive integer, received: %q", s))
	}
	if err := strike.ValidateCount(count); err != nil {
		return 0, err
	}
	return count, nil
}
