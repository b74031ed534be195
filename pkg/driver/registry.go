package driver

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/codecortex/pkg/project"
)

// Registry errors.
var (
	ErrInvalidDriver   = errors.New("invalid driver")
	ErrDuplicateDriver = errors.New("duplicate driver name")
)

// Registry holds drivers ordered by descending priority. Equal priorities
// keep registration order. The project context is bound at construction,
// so Resolve is a pure function of the path.
type Registry struct {
	drivers []Driver
	project *project.Context
}

// NewRegistry returns an empty registry bound to pc. pc may be nil.
func NewRegistry(pc *project.Context) *Registry {
	return &Registry{project: pc}
}

// Register adds drivers and re-sorts the registry. The batch is validated
// as a whole; on error nothing is added.
func (r *Registry) Register(drivers ...Driver) error {
	seen := make(map[string]struct{}, len(drivers))

	for _, d := range drivers {
		if d == nil || d.Descriptor() == nil || d.Descriptor().Name == "" {
			return ErrInvalidDriver
		}

		name := d.Descriptor().Name

		_, dup := seen[name]
		if _, ok := r.Lookup(name); ok || dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDriver, name)
		}

		seen[name] = struct{}{}
	}

	r.drivers = append(r.drivers, drivers...)

	slices.SortStableFunc(r.drivers, func(a, b Driver) int {
		return b.Descriptor().Priority - a.Descriptor().Priority
	})

	return nil
}

// Resolve returns the first driver, in priority order, that claims path.
func (r *Registry) Resolve(path string) (Driver, bool) {
	for _, d := range r.drivers {
		if d.CanHandle(path, r.project) {
			return d, true
		}
	}

	return nil, false
}

// Lookup finds a driver by name.
func (r *Registry) Lookup(name string) (Driver, bool) {
	for _, d := range r.drivers {
		if d.Descriptor().Name == name {
			return d, true
		}
	}

	return nil, false
}

// Drivers returns the drivers in resolution order.
func (r *Registry) Drivers() []Driver {
	return slices.Clone(r.drivers)
}

// Project returns the bound project context.
func (r *Registry) Project() *project.Context {
	return r.project
}

// Node is one driver in the specialization tree.
type Node struct {
	Driver   Driver
	Children []*Node
}

// Hierarchy arranges the registered drivers by Parent. Drivers whose parent
// is not registered become roots. Siblings keep resolution order.
func (r *Registry) Hierarchy() []*Node {
	nodes := make(map[string]*Node, len(r.drivers))
	for _, d := range r.drivers {
		nodes[d.Descriptor().Name] = &Node{Driver: d}
	}

	// Ascending priority lists base drivers first.
	ordered := slices.Clone(r.drivers)
	slices.SortStableFunc(ordered, func(a, b Driver) int {
		return a.Descriptor().Priority - b.Descriptor().Priority
	})

	var roots []*Node

	for _, d := range ordered {
		n := nodes[d.Descriptor().Name]
		if parent, ok := nodes[d.Descriptor().Parent]; ok && d.Descriptor().Parent != "" {
			parent.Children = append(parent.Children, n)

			continue
		}

		roots = append(roots, n)
	}

	return roots
}
