// Package system provides the simulation-phase rules that run every tick,
// mutating existing entities, adding relationships, and nudging pressures.
package system

import (
	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// Addition is a relationship a system wants created. Systems only reference
// entities that already exist.
type Addition struct {
	Kind string
	Src  graph.EntityID
	Dst  graph.EntityID
}

// Change is a requested mutation of an existing entity. Nil fields are left
// untouched.
type Change struct {
	ID         graph.EntityID
	Status     *string
	Prominence *graph.Prominence
	AddTags    []string
}

// Result carries everything a system wants to happen. Systems may read the
// full graph but express all mutation here; the engine applies results
// uniformly, drops them wholesale on failure, and logs a uniform history
// shape from them.
type Result struct {
	Relationships  []Addition
	Changes        []Change
	PressureDeltas map[string]float64
	Description    string
}

// Empty reports whether the result carries no effect.
func (r Result) Empty() bool {
	return len(r.Relationships) == 0 && len(r.Changes) == 0 && len(r.PressureDeltas) == 0
}

// System is a simulation-phase rule. modifier scales effect magnitude
// (era-derived). A system with modifier 0 is never invoked: the engine
// short-circuits it.
type System interface {
	Name() string
	Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error)
}

// Registry is an ordered collection of systems, iterated every tick.
type Registry struct {
	systems []System
}

// NewRegistry creates a registry holding the given systems.
func NewRegistry(systems ...System) *Registry {
	return &Registry{systems: systems}
}

// Add appends a system.
func (r *Registry) Add(s System) {
	r.systems = append(r.systems, s)
}

// All returns the registered systems in registration order.
func (r *Registry) All() []System {
	return r.systems
}

// Len returns the number of registered systems.
func (r *Registry) Len() int {
	return len(r.systems)
}

// Builtins returns a registry with the standard simulation systems.
func Builtins() *Registry {
	return NewRegistry(
		&ConflictEscalation{},
		&AllianceWeaving{},
		&RenownDynamics{},
		&TradeNetwork{},
		&UnrestAgitation{},
	)
}

func statusPtr(s string) *string { return &s }

func prominencePtr(p graph.Prominence) *graph.Prominence { return &p }
