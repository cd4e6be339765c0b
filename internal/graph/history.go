package graph

// History event types.
const (
	EventGrowth     = "growth"
	EventSimulation = "simulation"
	EventSpecial    = "special"
)

// HistoryEvent records one notable change in the world. The history log is
// append-only (entries are never edited or removed) and is part of the
// engine's output contract toward narrative consumers.
type HistoryEvent struct {
	Tick                 uint64         `json:"tick"`
	Era                  string         `json:"era"`
	Type                 string         `json:"type"` // growth | simulation | special
	Description          string         `json:"description"`
	EntitiesCreated      []EntityID     `json:"entities_created,omitempty"`
	EntitiesModified     []EntityID     `json:"entities_modified,omitempty"`
	RelationshipsCreated []Relationship `json:"relationships_created,omitempty"`
}

// AppendHistory adds an event to the history log.
func (g *Graph) AppendHistory(ev HistoryEvent) {
	g.History = append(g.History, ev)
}

// HistoryTail returns the last n history events (fewer if the log is shorter).
func (g *Graph) HistoryTail(n int) []HistoryEvent {
	if n <= 0 || len(g.History) == 0 {
		return nil
	}
	start := 0
	if len(g.History) > n {
		start = len(g.History) - n
	}
	return g.History[start:]
}
