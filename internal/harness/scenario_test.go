package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/orderings_across_days.yaml")
	require.NoError(t, err)

	assert.Equal(t, "orderings_across_days", scenario.Name)
	require.Len(t, scenario.Flow, 7)
	assert.Equal(t, OpAdvance, scenario.Flow[1].Op)
	assert.Equal(t, "24h", scenario.Flow[1].Duration)
	require.NotNil(t, scenario.Flow[5].Expect)
	assert.Equal(t, "INVALID_INPUT", scenario.Flow[5].Expect.Error)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertTotal, scenario.Assertions[0].Type)
	assert.Equal(t, int64(1000), scenario.Assertions[0].Total)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	content := `
name: tmp
description: "from disk"
flow:
  - op: total
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "tmp", scenario.Name)
}

func TestParseScenario_Defaults(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: defaults
description: "no clock settings"
flow:
  - op: summary
`))
	require.NoError(t, err)

	start, step, err := scenario.clock()
	require.NoError(t, err)
	assert.Equal(t, DefaultStart, start)
	assert.Equal(t, time.Minute, step)

	loc, err := scenario.location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown_field",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: total\nassertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing_name",
			yaml:    "description: d\nflow:\n  - op: total\n",
			wantErr: "name is required",
		},
		{
			name:    "missing_description",
			yaml:    "name: x\nflow:\n  - op: total\n",
			wantErr: "description is required",
		},
		{
			name:    "empty_flow",
			yaml:    "name: x\ndescription: d\nflow: []\n",
			wantErr: "flow list is required",
		},
		{
			name:    "missing_op",
			yaml:    "name: x\ndescription: d\nflow:\n  - count: 5\n",
			wantErr: "flow[0]: op is required",
		},
		{
			name:    "unknown_op",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: delete\n",
			wantErr: `unknown op "delete"`,
		},
		{
			name:    "bad_order",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: detail\n    order: by-week\n",
			wantErr: "unknown order mode",
		},
		{
			name:    "advance_without_duration",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: advance\n",
			wantErr: "duration is required for advance",
		},
		{
			name:    "unknown_error_code",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: add\n    expect:\n      error: NOPE\n",
			wantErr: `unknown error code "NOPE"`,
		},
		{
			name:    "bad_start",
			yaml:    "name: x\ndescription: d\nstart: yesterday\nflow:\n  - op: total\n",
			wantErr: "start:",
		},
		{
			name:    "bad_timezone",
			yaml:    "name: x\ndescription: d\ntimezone: Nowhere/Special\nflow:\n  - op: total\n",
			wantErr: "timezone:",
		},
		{
			name:    "unknown_assertion",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: total\nassertions:\n  - type: final_state\n",
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name:    "trace_count_without_op",
			yaml:    "name: x\ndescription: d\nflow:\n  - op: total\nassertions:\n  - type: trace_count\n    count: 1\n",
			wantErr: "op is required for trace_count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
