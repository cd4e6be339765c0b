package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for insertion-time invariant checks.
var (
	ErrUnknownEntity   = errors.New("relationship endpoint does not resolve to a known entity")
	ErrRelationshipCap = errors.New("relationship cap reached for entity and kind")
)

// Graph is the mutable world state. It is single-owner: the engine drives all
// mutation synchronously, so there is no locking here.
type Graph struct {
	Entities      []*Entity      // Creation order (stable across a run).
	Relationships []Relationship // Insertion order = causal order.
	Pressures     map[string]float64
	History       []HistoryEvent

	index          map[EntityID]*Entity
	nextID         EntityID
	maxRelsPerType int // Per (src entity, kind) cap. 0 = unlimited.
}

// New creates an empty graph. maxRelsPerType caps how many outgoing
// relationships of one kind a single entity may accumulate (0 = unlimited).
func New(maxRelsPerType int) *Graph {
	return &Graph{
		Pressures:      make(map[string]float64),
		index:          make(map[EntityID]*Entity),
		nextID:         1,
		maxRelsPerType: maxRelsPerType,
	}
}

// AddEntity inserts an entity and returns its identifier. A zero ID is
// assigned the next sequential identifier; a pre-existing ID (seed entities)
// is kept and the sequence advanced past it.
func (g *Graph) AddEntity(e *Entity, tick uint64) (EntityID, error) {
	if !ValidKind(e.Kind) {
		return 0, fmt.Errorf("unknown entity kind: %q", e.Kind)
	}
	if e.ID == 0 {
		e.ID = g.nextID
	} else if _, exists := g.index[e.ID]; exists {
		return 0, fmt.Errorf("duplicate entity id: %d", e.ID)
	}
	if e.ID >= g.nextID {
		g.nextID = e.ID + 1
	}
	e.CreatedAt = tick
	e.UpdatedAt = tick
	g.Entities = append(g.Entities, e)
	g.index[e.ID] = e
	return e.ID, nil
}

// Get returns the entity with the given id, or nil.
func (g *Graph) Get(id EntityID) *Entity {
	return g.index[id]
}

// AddRelationship appends a directed edge after resolving both endpoints.
// Dangling endpoints are a contract violation and are rejected before any
// mutation. Duplicates are allowed.
func (g *Graph) AddRelationship(kind string, src, dst EntityID) error {
	if g.index[src] == nil || g.index[dst] == nil {
		return fmt.Errorf("%w: %s %d -> %d", ErrUnknownEntity, kind, src, dst)
	}
	if g.maxRelsPerType > 0 && g.CountRelationships(src, kind) >= g.maxRelsPerType {
		return fmt.Errorf("%w: %s from %d", ErrRelationshipCap, kind, src)
	}
	g.Relationships = append(g.Relationships, Relationship{Kind: kind, Src: src, Dst: dst})
	return nil
}

// CountRelationships returns how many outgoing edges of one kind src has.
func (g *Graph) CountRelationships(src EntityID, kind string) int {
	n := 0
	for _, r := range g.Relationships {
		if r.Src == src && r.Kind == kind {
			n++
		}
	}
	return n
}

// Degree counts relationships touching the entity in either direction.
func (g *Graph) Degree(id EntityID) int {
	n := 0
	for _, r := range g.Relationships {
		if r.Src == id || r.Dst == id {
			n++
		}
	}
	return n
}

// ByKind returns entities of the given kind in creation order.
func (g *Graph) ByKind(kind string) []*Entity {
	var out []*Entity
	for _, e := range g.Entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind returns entity counts per kind.
func (g *Graph) CountByKind() map[string]int {
	counts := make(map[string]int, len(Kinds))
	for _, e := range g.Entities {
		counts[e.Kind]++
	}
	return counts
}

// Related returns entities connected to id by edges of the given kind, in
// either direction. kind "" matches any edge.
func (g *Graph) Related(id EntityID, kind string) []*Entity {
	var out []*Entity
	for _, r := range g.Relationships {
		if kind != "" && r.Kind != kind {
			continue
		}
		if r.Src == id {
			out = append(out, g.index[r.Dst])
		} else if r.Dst == id {
			out = append(out, g.index[r.Src])
		}
	}
	return out
}

// SetPressure sets a pressure value, clamped to [0,100].
func (g *Graph) SetPressure(name string, value float64) {
	g.Pressures[name] = clampPressure(value)
}

// AdjustPressure applies a delta to a pressure, clamped immediately.
func (g *Graph) AdjustPressure(name string, delta float64) {
	g.Pressures[name] = clampPressure(g.Pressures[name] + delta)
}

func clampPressure(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
