package strike

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// UntaggedLabel is the display label for entries without a tag.
const UntaggedLabel = "untagged"

// Tag is either Tagged(name) or Untagged. The zero value is Untagged.
//
// A tagged name is always canonical: trimmed, NFC-normalized and lower-cased.
// Two tags are equal iff their canonical names are equal, so Tag is
// comparable with ==.
type Tag struct {
	name string
}

// Untagged returns the untagged value.
func Untagged() Tag {
	return Tag{}
}

// NewTag normalizes a raw, user-supplied tag.
// Empty or whitespace-only input yields Untagged.
func NewTag(raw string) Tag {
	return Tag{name: normalize(raw)}
}

// TagFromStored wraps a tag name read back from storage without
// normalizing it again. Storage groups and filters on the stored text, so the
// Tag must carry exactly that text; rows from older releases may hold names
// that NewTag would rewrite. Empty yields Untagged.
func TagFromStored(name string) Tag {
	return Tag{name: name}
}

// Name returns the canonical tag name and true, or "" and false for Untagged.
func (t Tag) Name() (string, bool) {
	return t.name, t.name != ""
}

// IsUntagged reports whether t is the untagged value.
func (t Tag) IsUntagged() bool {
	return t.name == ""
}

// Label returns the tag name, or UntaggedLabel.
func (t Tag) Label() string {
	if t.name == "" {
		return UntaggedLabel
	}
	return t.name
}

func (t Tag) String() string {
	return t.Label()
}

// MarshalJSON encodes Untagged as null and a tagged value as its name.
func (t Tag) MarshalJSON() ([]byte, error) {
	if t.IsUntagged() {
		return []byte("null"), nil
	}
	return json.Marshal(t.name)
}

// UnmarshalJSON accepts null or a string, normalizing the string.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name *string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == nil {
		*t = Untagged()
		return nil
	}
	*t = NewTag(*name)
	return nil
}

// CompareTags orders tagged values ascending by name with Untagged last.
func CompareTags(a, b Tag) int {
	switch {
	case a.name == b.name:
		return 0
	case a.IsUntagged():
		return 1
	case b.IsUntagged():
		return -1
	default:
		return strings.Compare(a.name, b.name)
	}
}

// Filter restricts a query to entries carrying one tag.
// The zero Filter matches every entry. A non-zero Filter never matches
// untagged entries.
type Filter struct {
	tag Tag
}

// NewFilter normalizes a raw filter argument the same way NewTag does.
// Empty input yields the zero Filter.
func NewFilter(raw string) Filter {
	return Filter{tag: NewTag(raw)}
}

// Tag returns the tag to match and true, or false when the filter is empty.
func (f Filter) Tag() (Tag, bool) {
	return f.tag, !f.tag.IsUntagged()
}

// IsZero reports whether the filter matches every entry.
func (f Filter) IsZero() bool {
	return f.tag.IsUntagged()
}

// Matches reports whether an entry with tag t passes the filter.
func (f Filter) Matches(t Tag) bool {
	if f.IsZero() {
		return true
	}
	return f.tag == t
}

func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}
	return f.tag.name
}

func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
