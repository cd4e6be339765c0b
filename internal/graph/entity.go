// Package graph holds the mutable world state: entities, relationships,
// pressures, and the append-only history log.
package graph

import "fmt"

// EntityID is a unique identifier for an entity, stable for its lifetime.
type EntityID uint64

// Entity kinds. Coarse categories; Subtype carries the kind-specific refinement.
const (
	KindFaction  = "faction"
	KindNPC      = "npc"
	KindLocation = "location"
	KindItem     = "item"
	KindAbility  = "ability"
)

// Kinds lists every entity kind the engine tracks. The stop condition
// "entity count >= target per kind x number of kinds" counts against this set.
var Kinds = []string{KindFaction, KindNPC, KindLocation, KindItem, KindAbility}

// Prominence is ordinal narrative visibility. Pruning demotes entities to
// ProminenceForgotten; systems may raise it again.
type Prominence uint8

const (
	ProminenceForgotten  Prominence = 0
	ProminenceMarginal   Prominence = 1
	ProminenceRecognized Prominence = 2
	ProminenceRenowned   Prominence = 3
	ProminenceMythic     Prominence = 4
)

// ProminenceName returns a human-readable prominence label.
func ProminenceName(p Prominence) string {
	switch p {
	case ProminenceForgotten:
		return "forgotten"
	case ProminenceMarginal:
		return "marginal"
	case ProminenceRecognized:
		return "recognized"
	case ProminenceRenowned:
		return "renowned"
	case ProminenceMythic:
		return "mythic"
	default:
		return "unknown"
	}
}

// ParseProminence maps a prominence label back to its ordinal value.
func ParseProminence(s string) (Prominence, error) {
	switch s {
	case "forgotten":
		return ProminenceForgotten, nil
	case "marginal":
		return ProminenceMarginal, nil
	case "recognized":
		return ProminenceRecognized, nil
	case "renowned":
		return ProminenceRenowned, nil
	case "mythic":
		return ProminenceMythic, nil
	default:
		return 0, fmt.Errorf("unknown prominence: %q", s)
	}
}

// Common lifecycle statuses. Status is free-form per kind; these are the
// values the built-in templates and systems use.
const (
	StatusAlive    = "alive"
	StatusDead     = "dead"
	StatusActive   = "active"
	StatusRuined   = "ruined"
	StatusOutlawed = "outlawed"
)

// Entity is a node in the world graph. Entities are owned exclusively by the
// Graph; templates and systems receive read access and express mutation
// through proposals and results, never by retaining references across ticks.
type Entity struct {
	ID          EntityID   `json:"id"`
	Kind        string     `json:"kind"`
	Subtype     string     `json:"subtype,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Prominence  Prominence `json:"prominence"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   uint64     `json:"created_at"`
	UpdatedAt   uint64     `json:"updated_at"`
}

// HasTag reports whether the entity carries the given tag.
func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if not already present.
func (e *Entity) AddTag(tag string) {
	if !e.HasTag(tag) {
		e.Tags = append(e.Tags, tag)
	}
}

// ValidKind reports whether kind is one of the tracked entity kinds.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
