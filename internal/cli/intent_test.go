package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strikes/internal/strike"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		mode modeFlags
		args []string
		want Intent
	}{
		{
			name: "add_untagged",
			args: []string{"2000"},
			want: Intent{Kind: IntentAdd, Count: 2000},
		},
		{
			name: "add_tagged_keeps_raw_tag",
			args: []string{"2000", " Shoulder "},
			want: Intent{Kind: IntentAdd, Count: 2000, RawTag: " Shoulder "},
		},
		{
			name: "count",
			mode: modeFlags{Count: true},
			want: Intent{Kind: IntentTotal},
		},
		{
			name: "filter_tag_implies_count",
			mode: modeFlags{FilterTag: "Knee", FilterSet: true},
			want: Intent{Kind: IntentTotal, Filter: strike.NewFilter("knee")},
		},
		{
			name: "empty_filter_tag_is_no_filter",
			mode: modeFlags{FilterTag: "", FilterSet: true},
			want: Intent{Kind: IntentTotal},
		},
		{
			name: "summary",
			mode: modeFlags{Summary: true},
			want: Intent{Kind: IntentSummary},
		},
		{
			name: "detail_defaults_to_by_tag",
			mode: modeFlags{Detail: true},
			want: Intent{Kind: IntentDetail, Order: strike.ByTag},
		},
		{
			name: "detail_by_date_with_filter",
			mode: modeFlags{Detail: true, ByDate: true, FilterTag: "shoulder", FilterSet: true},
			want: Intent{Kind: IntentDetail, Filter: strike.NewFilter("shoulder"), Order: strike.ByDate},
		},
		{
			name: "info",
			mode: modeFlags{Info: true},
			want: Intent{Kind: IntentInfo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIntent(tt.mode, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntent_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		mode    modeFlags
		args    []string
		wantMsg string
	}{
		{"no_operation", modeFlags{}, nil, "no operation specified"},
		{"by_date_without_detail", modeFlags{ByDate: true}, nil, "--by-date requires --detail"},
		{"by_date_with_count", modeFlags{Count: true, ByDate: true}, nil, "--by-date requires --detail"},
		{"count_with_positionals", modeFlags{Count: true}, []string{"5"}, "not allowed"},
		{"filter_with_positionals", modeFlags{FilterSet: true}, []string{"5"}, "not allowed"},
		{"summary_with_positionals", modeFlags{Summary: true}, []string{"5", "knee"}, "not allowed"},
		{"detail_with_positionals", modeFlags{Detail: true}, []string{"5"}, "not allowed"},
		{"info_with_positionals", modeFlags{Info: true}, []string{"5"}, "not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIntent(tt.mode, tt.args)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.False(t, strike.IsInvalidInput(err))
		})
	}
}

func TestParseIntent_InvalidCount(t *testing.T) {
	for _, arg := range []string{"0", "-5", "abc", "1.5", ""} {
		t.Run(arg, func(t *testing.T) {
			_, err := parseIntent(modeFlags{}, []string{arg})
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.True(t, strike.IsInvalidInput(err))
			assert.ErrorIs(t, err, strike.ErrInvalidInput)
		})
	}
}

func TestIntentKind_String(t *testing.T) {
	assert.Equal(t, "add", IntentAdd.String())
	assert.Equal(t, "detail", IntentDetail.String())
	assert.Equal(t, "IntentKind(42)", IntentKind(42).String())
}
