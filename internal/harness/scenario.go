package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/strikes/internal/strike"
)

// Scenario defines a store scenario: a flow of operations with expected
// outcomes, and assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the first clock reading, RFC 3339. Defaults to DefaultStart.
	Start string `yaml:"start,omitempty"`

	// Step is how far the clock advances on every write. Defaults to one minute.
	Step string `yaml:"step,omitempty"`

	// Timezone is the IANA zone used for by-date grouping. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Flow contains the operations, executed in order.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation in the flow.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Count is the strike count (add).
	Count int64 `yaml:"count,omitempty"`

	// Tag is the raw tag (add). Empty records an untagged entry.
	Tag string `yaml:"tag,omitempty"`

	// Filter restricts total and detail to one tag. Empty means no filter.
	Filter string `yaml:"filter,omitempty"`

	// Order is "by-tag" (default) or "by-date" (detail).
	Order string `yaml:"order,omitempty"`

	// Duration is how far to move the clock (advance).
	Duration string `yaml:"duration,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step is only required to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Error is the expected strike.ErrorCode. Empty means success.
	Error string `yaml:"error,omitempty"`

	// Total is the expected total (total, summary grand total).
	Total *int64 `yaml:"total,omitempty"`

	// Groups are the expected group labels in order (summary, detail).
	Groups []string `yaml:"groups,omitempty"`

	// IDs are the expected entry ids in presentation order (add, detail).
	IDs []int64 `yaml:"ids,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Filter restricts a total assertion to one tag.
	Filter string `yaml:"filter,omitempty"`

	// Total is the expected total (total).
	Total int64 `yaml:"total,omitempty"`

	// Op is the operation counted (trace_count).
	Op string `yaml:"op,omitempty"`

	// Count is the expected number (entry_count, trace_count).
	Count int `yaml:"count,omitempty"`
}

// Operation constants.
const (
	OpAdd     = "add"
	OpTotal   = "total"
	OpSummary = "summary"
	OpDetail  = "detail"
	OpAdvance = "advance"
)

// Assertion type constants.
const (
	AssertTotal      = "total"
	AssertEntryCount = "entry_count"
	AssertTraceCount = "trace_count"
)

// DefaultStart is the first clock reading when a scenario sets no start.
var DefaultStart = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// clock returns the scenario's start instant and step.
func (s *Scenario) clock() (time.Time, time.Duration, error) {
	start := DefaultStart
	if s.Start != "" {
		t, err := time.Parse(time.RFC3339Nano, s.Start)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("start: %w", err)
		}
		start = t
	}

	step := time.Minute
	if s.Step != "" {
		d, err := time.ParseDuration(s.Step)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("step: %w", err)
		}
		if d < 0 {
			return time.Time{}, 0, fmt.Errorf("step must be non-negative, got %s", d)
		}
		step = d
	}
	return start, step, nil
}

// location resolves the scenario's display zone.
func (s *Scenario) location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if _, _, err := s.clock(); err != nil {
		return err
	}
	if _, err := s.location(); err != nil {
		return err
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single flow step based on its op.
func validateStep(index int, step *Step) error {
	switch step.Op {
	case "":
		return fmt.Errorf("flow[%d]: op is required", index)
	case OpAdd, OpTotal, OpSummary:
	case OpDetail:
		if step.Order != "" {
			if _, err := strike.ParseOrderMode(step.Order); err != nil {
				return fmt.Errorf("flow[%d]: %w", index, err)
			}
		}
	case OpAdvance:
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			return fmt.Errorf("flow[%d]: duration is required for advance: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("flow[%d]: duration must be non-negative", index)
		}
		if step.Expect != nil {
			return fmt.Errorf("flow[%d]: advance takes no expect clause", index)
		}
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}

	if step.Expect != nil && step.Expect.Error != "" {
		switch strike.ErrorCode(step.Expect.Error) {
		case strike.ErrCodeInvalidInput, strike.ErrCodeWriteFailure, strike.ErrCodeStorageUnavailable:
		default:
			return fmt.Errorf("flow[%d].expect: unknown error code %q", index, step.Expect.Error)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTotal:
		if a.Total < 0 {
			return fmt.Errorf("assertions[%d]: total must be non-negative", index)
		}
	case AssertEntryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for entry_count", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
