package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/strikes/internal/strike"
)

// timestampLayout is fixed-width so TEXT comparison matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// marshalTimestamp converts an instant to its stored TEXT form, always UTC.
func marshalTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// unmarshalTimestamp parses stored TEXT, including rows written with a
// "+00:00" offset and microsecond precision.
func unmarshalTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// marshalTag maps Untagged to NULL.
func marshalTag(t strike.Tag) any {
	name, ok := t.Name()
	if !ok {
		return nil
	}
	return name
}

// unmarshalTag maps NULL to Untagged and keeps stored names verbatim.
func unmarshalTag(ns sql.NullString) strike.Tag {
	if !ns.Valid {
		return strike.Untagged()
	}
	return strike.TagFromStored(ns.String)
}
