package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/strikes/internal/testutil"
)

// testStart is the first timestamp handed out by test clocks.
var testStart = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store in a temp dir with a
// one-minute step clock.
func createTestStore(t *testing.T) (*Store, *testutil.StepClock) {
	t.Helper()
	clock := testutil.NewStepClock(testStart, time.Minute)
	path := filepath.Join(t.TempDir(), "strikes.db")
	s, err := Open(path, WithClock(clock.Now), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
