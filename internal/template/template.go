// Package template provides the growth-phase rules that create new entities
// and relationships, and the registry the engine iterates each epoch.
package template

import (
	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// Ref is a relationship endpoint in a proposal: either an existing entity or
// a positional index into the proposal's own entity batch, resolved by the
// engine immediately after batch insertion. The zero value is unset and is
// rejected at commit time; endpoints must come from ToExisting or ToNew.
type Ref struct {
	existing graph.EntityID
	batch    int
	mode     refMode
}

type refMode uint8

const (
	refUnset refMode = iota
	refExisting
	refNew
)

// ToExisting references an entity already present in the graph.
func ToExisting(id graph.EntityID) Ref {
	return Ref{existing: id, mode: refExisting}
}

// ToNew references the i-th entity of the same proposal's batch.
func ToNew(i int) Ref {
	return Ref{batch: i, mode: refNew}
}

// Batch returns the batch index when the ref points into the proposal's own
// entity batch.
func (r Ref) Batch() (int, bool) {
	return r.batch, r.mode == refNew
}

// Entity returns the referenced identifier when the ref points at an entity
// already in the graph.
func (r Ref) Entity() (graph.EntityID, bool) {
	return r.existing, r.mode == refExisting
}

// NewEntity describes an entity to be created. The engine assigns the real
// identifier in batch order.
type NewEntity struct {
	Kind        string
	Subtype     string
	Name        string
	Description string
	Status      string
	Prominence  graph.Prominence
	Tags        []string
}

// NewRelationship describes an edge to be created once the batch has ids.
type NewRelationship struct {
	Kind string
	Src  Ref
	Dst  Ref
}

// Proposal is the result of a template expansion. Templates never mutate the
// graph directly; the engine validates and commits the proposal as one unit.
type Proposal struct {
	Entities      []NewEntity
	Relationships []NewRelationship
	Description   string
}

// Template is a growth-phase rule. CanApply is a cheap precondition,
// FindTargets returns candidate anchor entities (may be empty, which is not
// an error), and Expand produces a proposal without touching the graph.
type Template interface {
	Name() string
	CanApply(g *graph.Graph) bool
	FindTargets(g *graph.Graph) []*graph.Entity
	Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error)
}

// Registry is an ordered collection of templates. The engine shuffles the
// iteration order per epoch; registration order only matters for determinism
// of that shuffle.
type Registry struct {
	templates []Template
}

// NewRegistry creates a registry holding the given templates.
func NewRegistry(templates ...Template) *Registry {
	return &Registry{templates: templates}
}

// Add appends a template.
func (r *Registry) Add(t Template) {
	r.templates = append(r.templates, t)
}

// All returns the registered templates in registration order.
func (r *Registry) All() []Template {
	return r.templates
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}

// Builtins returns a registry with the standard growth templates.
func Builtins() *Registry {
	return NewRegistry(
		&GuildEstablishment{},
		&SettlementFounding{},
		&CultEmergence{},
		&ArtifactForging{},
		&HeroEmergence{},
		&FactionSchism{},
	)
}
