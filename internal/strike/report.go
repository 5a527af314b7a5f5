package strike

import "fmt"

// OrderMode selects how a detail report is partitioned and ordered.
type OrderMode int

const (
	// ByTag partitions by tag (untagged last), newest entry first within a tag.
	ByTag OrderMode = iota

	// ByDate partitions by local calendar date ascending, earliest entry first within a date.
	ByDate
)

func (m OrderMode) String() string {
	switch m {
	case ByTag:
		return "by-tag"
	case ByDate:
		return "by-date"
	default:
		return fmt.Sprintf("OrderMode(%d)", int(m))
	}
}

// ParseOrderMode accepts "tag", "by-tag", "date" and "by-date".
func ParseOrderMode(s string) (OrderMode, error) {
	switch s {
	case "tag", "by-tag":
		return ByTag, nil
	case "date", "by-date":
		return ByDate, nil
	default:
		return 0, NewInvalidInput(fmt.Sprintf("unknown order mode %q", s))
	}
}

// DateLayout is the layout of DateGroup.Date.
const DateLayout = "2006-01-02"

// TagGroup is one partition of a ByTag report.
type TagGroup struct {
	Tag     Tag
	Entries []Entry
}

// DateGroup is one partition of a ByDate report. Date is a civil date in
// the viewer's zone, formatted with DateLayout.
type DateGroup struct {
	Date    string
	Entries []Entry
}

// Report is the result of a detail query. Exactly one of TagGroups and
// DateGroups is populated, depending on Mode.
//
// When no entries match, StoreEmpty tells the caller whether the store holds
// no entries at all or just none for Filter.
type Report struct {
	Mode       OrderMode
	Filter     Filter
	TagGroups  []TagGroup
	DateGroups []DateGroup
	StoreEmpty bool
}

// Empty reports whether no entries matched.
func (r Report) Empty() bool {
	return len(r.TagGroups) == 0 && len(r.DateGroups) == 0
}

// Entries flattens the report in presentation order.
func (r Report) Entries() []Entry {
	var out []Entry
	for _, g := range r.TagGroups {
		out = append(out, g.Entries...)
	}
	for _, g := range r.DateGroups {
		out = append(out, g.Entries...)
	}
	return out
}
