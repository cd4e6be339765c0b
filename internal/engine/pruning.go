// Pruning pass: forgetting and NPC retirement. Keeps the graph bounded
// over long runs without ever deleting anything.
package engine

import (
	"log/slog"

	"github.com/talgya/chronica/internal/graph"
)

// prune runs the two end-of-epoch consolidation passes. Both are
// order-independent. Entities are never physically deleted; retirement and
// forgetting are status/prominence changes that preserve connectivity and
// history integrity.
func (e *Engine) prune() {
	forgotten := e.forgettingPass()
	retired := e.retirementPass()

	if forgotten > 0 || retired > 0 {
		slog.Debug("pruning pass",
			"epoch", e.epoch,
			"forgotten", forgotten,
			"retired", retired,
		)
	}
}

// forgettingPass demotes stale, poorly connected entities to the lowest
// prominence level. Monotonic: prominence only decreases here.
func (e *Engine) forgettingPass() int {
	n := 0
	for _, ent := range e.graph.Entities {
		if ent.Prominence == graph.ProminenceForgotten {
			continue
		}
		if e.tick-ent.CreatedAt <= e.cfg.Pruning.ForgetAge {
			continue
		}
		if e.graph.Degree(ent.ID) >= e.cfg.Pruning.MinDegree {
			continue
		}
		ent.Prominence = graph.ProminenceForgotten
		ent.UpdatedAt = e.tick
		n++
	}
	return n
}

// retirementPass stochastically retires aged living NPCs. Each eligible NPC
// is evaluated independently every epoch it remains eligible.
func (e *Engine) retirementPass() int {
	n := 0
	for _, ent := range e.graph.Entities {
		if ent.Kind != graph.KindNPC || ent.Status != graph.StatusAlive {
			continue
		}
		if e.tick-ent.CreatedAt <= e.cfg.Pruning.RetireAge {
			continue
		}
		if !e.rng.Chance(e.cfg.Pruning.RetireChance) {
			continue
		}
		ent.Status = graph.StatusDead
		ent.UpdatedAt = e.tick
		n++
	}
	return n
}
