// Package metric defines the per-file Metric Record, its closed set of
// value kinds, and the merge rules that fold records into aggregates.
package metric

import (
	"maps"
	"slices"
)

// Kind identifies the variant of a Value.
type Kind uint8

// Value kinds.
const (
	KindCount Kind = iota + 1
	KindStrings
	KindFindings
	KindFlags
	KindText
	KindBool
)

// String returns the kind name used in logs and exports.
func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindStrings:
		return "strings"
	case KindFindings:
		return "findings"
	case KindFlags:
		return "flags"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// UnknownText is the placeholder drivers emit for undetectable text facts.
// Text merging treats it like an empty value.
const UnknownText = "unknown"

// Value is a single metric value. The set of implementations is closed:
// every variant lives in this package.
type Value interface {
	Kind() Kind

	// merge folds incoming into the receiver and returns the result.
	// The receiver is never mutated and the result never aliases incoming.
	merge(incoming Value) Value

	// clone returns a deep copy.
	clone() Value

	// plain returns the wire representation used by exporters.
	plain() any
}

// Count is an additive counter.
type Count int64

// Kind implements Value.
func (Count) Kind() Kind { return KindCount }

func (c Count) merge(incoming Value) Value {
	return c + incoming.(Count) //nolint:forcetypeassert // kinds checked by Record.Merge.
}

func (c Count) clone() Value { return c }
func (c Count) plain() any   { return int64(c) }

// Strings is a set of strings merged by union.
type Strings map[string]struct{}

// NewStrings builds a set from values.
func NewStrings(values ...string) Strings {
	s := make(Strings, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}

	return s
}

// Kind implements Value.
func (Strings) Kind() Kind { return KindStrings }

// Has reports whether v is a member.
func (s Strings) Has(v string) bool {
	_, ok := s[v]

	return ok
}

// Sorted returns the members in lexical order.
func (s Strings) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s Strings) merge(incoming Value) Value {
	out := maps.Clone(s)
	if out == nil {
		out = Strings{}
	}

	for v := range incoming.(Strings) { //nolint:forcetypeassert // kinds checked by Record.Merge.
		out[v] = struct{}{}
	}

	return out
}

func (s Strings) clone() Value {
	out := maps.Clone(s)
	if out == nil {
		out = Strings{}
	}

	return out
}

func (s Strings) plain() any { return s.Sorted() }

// Detail locates one occurrence behind a Finding.
type Detail struct {
	Name       string  `json:"name,omitempty"       yaml:"name,omitempty"`
	File       string  `json:"file,omitempty"       yaml:"file,omitempty"`
	Line       int     `json:"line,omitempty"       yaml:"line,omitempty"`
	Similarity float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

// Finding is a single security, performance or quality observation.
type Finding struct {
	Type        string   `json:"type"              yaml:"type"`
	Severity    string   `json:"severity"          yaml:"severity"`
	Description string   `json:"description"       yaml:"description"`
	Count       int      `json:"count"             yaml:"count"`
	Details     []Detail `json:"details,omitempty" yaml:"details,omitempty"`
}

// Severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Findings is an ordered list merged by concatenation.
type Findings []Finding

// Kind implements Value.
func (Findings) Kind() Kind { return KindFindings }

func (f Findings) merge(incoming Value) Value {
	in := incoming.(Findings) //nolint:forcetypeassert // kinds checked by Record.Merge.

	out := make(Findings, 0, len(f)+len(in))
	out = append(out, f...)

	for _, finding := range in {
		out = append(out, cloneFinding(finding))
	}

	return out
}

func (f Findings) clone() Value {
	out := make(Findings, len(f))
	for i, finding := range f {
		out[i] = cloneFinding(finding)
	}

	return out
}

func (f Findings) plain() any { return []Finding(f.clone().(Findings)) } //nolint:forcetypeassert // same kind.

func cloneFinding(f Finding) Finding {
	f.Details = slices.Clone(f.Details)

	return f
}

// Flags is a boolean map merged shallowly, last write wins per key.
type Flags map[string]bool

// Kind implements Value.
func (Flags) Kind() Kind { return KindFlags }

// Enabled returns the keys set to true, sorted.
func (f Flags) Enabled() []string {
	var out []string

	for k, v := range f {
		if v {
			out = append(out, k)
		}
	}

	slices.Sort(out)

	return out
}

func (f Flags) merge(incoming Value) Value {
	out := maps.Clone(f)
	if out == nil {
		out = Flags{}
	}

	maps.Copy(out, incoming.(Flags)) //nolint:forcetypeassert // kinds checked by Record.Merge.

	return out
}

func (f Flags) clone() Value {
	out := maps.Clone(f)
	if out == nil {
		out = Flags{}
	}

	return out
}

func (f Flags) plain() any { return map[string]bool(maps.Clone(f)) }

// Text keeps the first meaningful value.
type Text string

// Kind implements Value.
func (Text) Kind() Kind { return KindText }

// Known reports whether the text carries information.
func (t Text) Known() bool { return t != "" && t != UnknownText }

func (t Text) merge(incoming Value) Value {
	if t.Known() {
		return t
	}

	return incoming
}

func (t Text) clone() Value { return t }
func (t Text) plain() any   { return string(t) }

// Bool keeps the first written value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

func (b Bool) merge(Value) Value { return b }
func (b Bool) clone() Value      { return b }
func (b Bool) plain() any        { return bool(b) }
