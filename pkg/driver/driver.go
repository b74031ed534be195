// Package driver defines the file driver contract: which files a driver
// claims, how it turns a file into a metric.Record, and how it presents an
// aggregate. Drivers are composed from ordered layers; a specialization is
// its parent's layers followed by its own.
package driver

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
	"github.com/Sumatoshi-tech/codecortex/pkg/project"
)

// Source is the shared input of every layer.
type Source struct {
	Path    string
	Content string
	Project *project.Context
}

// Dir returns the directory holding the file.
func (s *Source) Dir() string { return filepath.Dir(s.Path) }

// Sibling returns the path of name next to the file.
func (s *Source) Sibling(name string) string { return filepath.Join(s.Dir(), name) }

// HasSibling reports whether name exists next to the file.
func (s *Source) HasSibling(name string) bool {
	_, err := os.Stat(s.Sibling(name))

	return err == nil
}

// ReadSibling returns the content of name next to the file.
func (s *Source) ReadSibling(name string) ([]byte, error) {
	return os.ReadFile(s.Sibling(name))
}

// Layer extracts one group of metrics from a source.
type Layer func(src *Source) metric.Record

// Formatter renders an aggregate into report sections.
type Formatter func(agg metric.Record) []Section

// Descriptor is the static identity of a driver.
type Descriptor struct {
	// Name is unique and keys the per-driver aggregates.
	Name       string
	Extensions []string
	Include    []*regexp.Regexp
	Exclude    []*regexp.Regexp
	Priority   int
	// Parent names the driver this one specializes, if any.
	Parent string
}

// Matches applies the default claim policy to path: excluded basenames are
// rejected; with include patterns only matching basenames are claimed;
// otherwise the extension decides.
func (d *Descriptor) Matches(path string) bool {
	base := filepath.Base(path)

	for _, re := range d.Exclude {
		if re.MatchString(base) {
			return false
		}
	}

	if len(d.Include) > 0 {
		for _, re := range d.Include {
			if re.MatchString(base) {
				return true
			}
		}

		return false
	}

	return slices.Contains(d.Extensions, filepath.Ext(path))
}

// Driver claims and parses one family of files.
type Driver interface {
	Descriptor() *Descriptor
	CanHandle(path string, pc *project.Context) bool
	Parse(src *Source) metric.Record
	FormatMetrics(agg metric.Record) []Section
	InitialMetrics() metric.Record
}

// Gate decides, from the project context, whether a driver is active.
type Gate func(pc *project.Context) bool

// Composite is a Driver assembled from layers and formatters.
type Composite struct {
	desc       Descriptor
	layers     []Layer
	formatters []Formatter
	gate       Gate
}

var _ Driver = (*Composite)(nil)

// New builds a root driver.
func New(desc Descriptor, layers []Layer, formatters []Formatter) *Composite {
	return &Composite{
		desc:       desc,
		layers:     slices.Clone(layers),
		formatters: slices.Clone(formatters),
	}
}

// Extend builds a specialization of c. Its records start from every field
// c produces, and its sections follow c's.
func (c *Composite) Extend(desc Descriptor, layers []Layer, formatters []Formatter) *Composite {
	desc.Parent = c.desc.Name

	return &Composite{
		desc:       desc,
		layers:     append(slices.Clone(c.layers), layers...),
		formatters: append(slices.Clone(c.formatters), formatters...),
		gate:       c.gate,
	}
}

// WithGate returns a copy of c that only claims files when gate accepts the
// project context.
func (c *Composite) WithGate(gate Gate) *Composite {
	out := *c
	out.gate = gate

	return &out
}

// Layers returns the driver's layers in evaluation order.
func (c *Composite) Layers() []Layer { return slices.Clone(c.layers) }

// Descriptor implements Driver.
func (c *Composite) Descriptor() *Descriptor { return &c.desc }

// CanHandle implements Driver.
func (c *Composite) CanHandle(path string, pc *project.Context) bool {
	if c.gate != nil && !c.gate(pc) {
		return false
	}

	return c.desc.Matches(path)
}

// Parse runs every layer and returns the shallow union of their records,
// later layers winning collisions. A layer reporting a parse error ends the
// run with that record.
func (c *Composite) Parse(src *Source) metric.Record {
	out := metric.Record{}

	for _, layer := range c.layers {
		rec := layer(src)
		if rec.IsParseError() {
			return rec
		}

		out = out.Overlay(rec)
	}

	return out
}

// FormatMetrics implements Driver.
func (c *Composite) FormatMetrics(agg metric.Record) []Section {
	var out []Section

	for _, f := range c.formatters {
		out = append(out, f(agg)...)
	}

	return out
}

// InitialMetrics implements Driver.
func (c *Composite) InitialMetrics() metric.Record { return metric.Initial() }

// Narrow runs layers over a sub-source produced by cut. When cut reports no
// match, fallback is returned instead.
func Narrow(cut func(src *Source) (*Source, bool), fallback metric.Record, layers ...Layer) Layer {
	return func(src *Source) metric.Record {
		sub, ok := cut(src)
		if !ok {
			return fallback.Clone()
		}

		out := metric.Record{}
		for _, layer := range layers {
			out = out.Overlay(layer(sub))
		}

		return out
	}
}
