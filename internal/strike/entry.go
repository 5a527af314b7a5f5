package strike

import (
	"fmt"
	"time"
)

// Entry is one recorded strike event. Entries are immutable once stored.
type Entry struct {
	ID        int64     `json:"id"`
	Count     int64     `json:"count"`
	Tag       Tag       `json:"tag"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidateCount rejects non-positive strike counts.
func ValidateCount(count int64) error {
	if count <= 0 {
		return NewInvalidInput(fmt.Sprintf("strike count must be a positive integer, received: %d", count))
	}
	return nil
}

// SummaryLine is the subtotal for one tag group.
type SummaryLine struct {
	Tag      Tag
	Subtotal int64
}

// Summary holds per-tag subtotals and the grand total.
// Lines are ordered by CompareTags, so the untagged group is always last.
type Summary struct {
	Lines      []SummaryLine
	GrandTotal int64
}

// Empty reports whether the summary has no groups.
func (s Summary) Empty() bool {
	return len(s.Lines) == 0
}
