// Epoch statistics. Observability only, not part of the correctness
// contract.
package engine

import "log/slog"

// EpochStats summarizes the world at the end of an epoch.
type EpochStats struct {
	Epoch         int                `json:"epoch"`
	Tick          uint64             `json:"tick"`
	Era           string             `json:"era"`
	ByKind        map[string]int     `json:"by_kind"`
	BySubtype     map[string]int     `json:"by_subtype"`
	Relationships int                `json:"relationships"`
	Pressures     map[string]float64 `json:"pressures"`
}

func (e *Engine) collectStats() EpochStats {
	bySubtype := make(map[string]int)
	for _, ent := range e.graph.Entities {
		if ent.Subtype != "" {
			bySubtype[ent.Subtype]++
		}
	}
	pressures := make(map[string]float64, len(e.graph.Pressures))
	for name, v := range e.graph.Pressures {
		pressures[name] = v
	}
	return EpochStats{
		Epoch:         e.epoch,
		Tick:          e.tick,
		Era:           e.era.Name,
		ByKind:        e.graph.CountByKind(),
		BySubtype:     bySubtype,
		Relationships: len(e.graph.Relationships),
		Pressures:     pressures,
	}
}

func logEpochStats(stats EpochStats) {
	slog.Info("epoch report",
		"epoch", stats.Epoch,
		"tick", stats.Tick,
		"era", stats.Era,
		"factions", stats.ByKind["faction"],
		"npcs", stats.ByKind["npc"],
		"locations", stats.ByKind["location"],
		"items", stats.ByKind["item"],
		"abilities", stats.ByKind["ability"],
		"relationships", stats.Relationships,
	)
}
