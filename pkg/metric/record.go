package metric

import (
	"maps"
	"slices"
)

// Well-known keys present in every record.
const (
	KeyFiles      = "files"
	KeyLOC        = "loc"
	KeyCLOC       = "cloc"
	KeyNCLOC      = "ncloc"
	KeyLLOC       = "lloc"
	KeyParseError = "parseError"
)

// Record maps metric names to values. A nil Record is a valid empty record
// for reads.
type Record map[string]Value

// Initial returns the zeroed aggregate every driver bucket starts from.
func Initial() Record {
	return Record{
		KeyFiles: Count(0),
		KeyLOC:   Count(0),
		KeyCLOC:  Count(0),
		KeyNCLOC: Count(0),
		KeyLLOC:  Count(0),
	}
}

// ParseError returns the sentinel record drivers emit when content does not
// match the expected format.
func ParseError() Record {
	return Record{
		KeyLOC:        Count(0),
		KeyCLOC:       Count(0),
		KeyNCLOC:      Count(0),
		KeyLLOC:       Count(0),
		KeyFiles:      Count(0),
		KeyParseError: Bool(true),
	}
}

// Merge folds incoming into r in place.
//
// Keys absent from r adopt a copy of the incoming value. When both sides
// carry the same kind, the kind's own rule applies. When kinds differ, the
// existing entry is treated as absent and replaced.
func (r Record) Merge(incoming Record) {
	for key, in := range incoming {
		if in == nil {
			continue
		}

		cur, ok := r[key]
		if !ok || cur == nil || cur.Kind() != in.Kind() {
			r[key] = in.clone()

			continue
		}

		r[key] = cur.merge(in)
	}
}

// Overlay returns the shallow union of r and other; other wins collisions.
// Neither input is modified.
func (r Record) Overlay(other Record) Record {
	out := make(Record, len(r)+len(other))
	maps.Copy(out, r)
	maps.Copy(out, other)

	return out
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if v != nil {
			out[k] = v.clone()
		}
	}

	return out
}

// Keys returns the record keys in lexical order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// IsParseError reports whether r is the parse failure sentinel.
func (r Record) IsParseError() bool {
	return r.Bool(KeyParseError)
}

// Count returns the counter under key, or 0.
func (r Record) Count(key string) int64 {
	if v, ok := r[key].(Count); ok {
		return int64(v)
	}

	return 0
}

// Strings returns the set under key, or nil.
func (r Record) Strings(key string) Strings {
	v, _ := r[key].(Strings)

	return v
}

// Findings returns the list under key, or nil.
func (r Record) Findings(key string) Findings {
	v, _ := r[key].(Findings)

	return v
}

// Flags returns the map under key, or nil.
func (r Record) Flags(key string) Flags {
	v, _ := r[key].(Flags)

	return v
}

// Text returns the text under key, or "".
func (r Record) Text(key string) string {
	v, _ := r[key].(Text)

	return string(v)
}

// Bool returns the bool under key, or false.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(Bool)

	return bool(v)
}

// Plain converts the record into JSON/YAML friendly values: sets become
// sorted arrays, findings become structs.
func (r Record) Plain() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if v != nil {
			out[k] = v.plain()
		}
	}

	return out
}
