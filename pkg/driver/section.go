package driver

import (
	"strconv"
	"strings"
)

// Entry is one labelled value of a report section.
type Entry struct {
	Label string
	Value string
	// Percent is shown next to the value when HasPercent is set.
	Percent    float64
	HasPercent bool
	// Nested entries are indented under the previous top-level entry.
	Nested bool
}

// Section is an ordered group of entries.
type Section struct {
	Title   string
	Entries []Entry
}

// Count is an entry holding an integer.
func Count(label string, n int64) Entry {
	return Entry{Label: label, Value: strconv.FormatInt(n, 10)}
}

// Text is an entry holding a string.
func Text(label, value string) Entry {
	return Entry{Label: label, Value: value}
}

// Ratio is a nested entry holding n and its share of total. The share is
// omitted when it is zero.
func Ratio(label string, n, total int64) Entry {
	e := Count(label, n)
	e.Nested = true

	if total > 0 && n > 0 {
		e.Percent = float64(n) / float64(total) * 100
		e.HasPercent = true
	}

	return e
}

// Sub marks e as nested.
func (e Entry) Sub() Entry {
	e.Nested = true

	return e
}

// List is an entry joining names with commas.
func List(label string, names []string) Entry {
	return Text(label, strings.Join(names, ", "))
}

// YesNo renders a boolean.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}
