package graph

// SnapshotMeta describes the run state at export time.
type SnapshotMeta struct {
	Tick              uint64 `json:"tick"`
	Epoch             int    `json:"epoch"`
	Era               string `json:"era"`
	EntityCount       int    `json:"entity_count"`
	RelationshipCount int    `json:"relationship_count"`
}

// Snapshot is the exportable view of a finished (or paused) run. It is the
// sole contract surface toward downstream enrichment and authoring tooling;
// its shape is stable across runs of the same configuration class. Encoding
// a Snapshot with encoding/json is deterministic: entities and relationships
// are emitted in creation/insertion order and map keys sort.
type Snapshot struct {
	Meta          SnapshotMeta       `json:"meta"`
	Entities      []Entity           `json:"entities"`
	Relationships []Relationship     `json:"relationships"`
	Pressures     map[string]float64 `json:"pressures"`
	History       []HistoryEvent     `json:"history"`
}

// DefaultHistoryTail bounds how much of the history log a snapshot carries.
const DefaultHistoryTail = 50

// Export builds a snapshot of the current graph state.
func (g *Graph) Export(tick uint64, epoch int, eraName string) Snapshot {
	entities := make([]Entity, len(g.Entities))
	for i, e := range g.Entities {
		entities[i] = *e
	}
	rels := make([]Relationship, len(g.Relationships))
	copy(rels, g.Relationships)
	pressures := make(map[string]float64, len(g.Pressures))
	for name, v := range g.Pressures {
		pressures[name] = v
	}
	tail := g.HistoryTail(DefaultHistoryTail)
	history := make([]HistoryEvent, len(tail))
	copy(history, tail)

	return Snapshot{
		Meta: SnapshotMeta{
			Tick:              tick,
			Epoch:             epoch,
			Era:               eraName,
			EntityCount:       len(entities),
			RelationshipCount: len(rels),
		},
		Entities:      entities,
		Relationships: rels,
		Pressures:     pressures,
		History:       history,
	}
}
