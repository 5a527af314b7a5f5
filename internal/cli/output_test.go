package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strikes/internal/strike"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	called := false
	err := formatter.Emit(map[string]int64{"total": 7}, func(w io.Writer) { called = true })
	require.NoError(t, err)
	assert.False(t, called, "text renderer must not run in json mode")

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"total": float64(7)}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("WRITE_FAILURE", "database is locked")
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "WRITE_FAILURE", resp.Error.Code)
	assert.Equal(t, "database is locked", resp.Error.Message)
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Emit(nil, func(w io.Writer) { fmt.Fprintln(w, "Total strikes: 7") })
	require.NoError(t, err)
	assert.Equal(t, "Total strikes: 7\n", buf.String())
}

func TestOutputFormatter_TextErrorWritesNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("WRITE_FAILURE", "database is locked")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"failure", NewExitError(ExitFailure, "boom"), ExitFailure},
		{"command_error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped_exit_error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "boom")), ExitFailure},
		{"plain_error_is_usage", errors.New("unknown flag: --nope"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestWrapStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantJSON string
	}{
		{"invalid_input", strike.NewInvalidInput("count must be positive"), ExitCommandError, "INVALID_INPUT"},
		{"write_failure", strike.NewWriteFailure("add entry", "locked", nil), ExitFailure, "WRITE_FAILURE"},
		{"storage_unavailable", strike.NewStorageUnavailable("open", "no dir", nil), ExitFailure, "STORAGE_UNAVAILABLE"},
		{"read_error", errors.New("query entries: disk I/O error"), ExitFailure, "FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exitErr := wrapStoreError("operation failed", tt.err)
			assert.Equal(t, tt.wantCode, exitErr.Code)
			assert.ErrorIs(t, exitErr, tt.err)
			assert.Equal(t, tt.wantJSON, errorCode(exitErr))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
	assert.Equal(t, "cannot open strike store: no dir",
		WrapExitError(ExitFailure, "cannot open strike store", errors.New("no dir")).Error())
}
