// Simulation phase: per-tick system dispatch and result application.
package engine

import (
	"github.com/talgya/chronica/internal/era"
	"github.com/talgya/chronica/internal/graph"
	"github.com/talgya/chronica/internal/system"
)

// simulationPhase runs the configured number of ticks. Each tick iterates
// every registered system, short-circuiting those with era modifier 0. A
// system failure is reported per-system and the remaining systems still run.
func (e *Engine) simulationPhase() {
	for i := 0; i < e.cfg.TicksPerEpoch; i++ {
		e.tick++

		for _, s := range e.cfg.Systems.All() {
			modifier := e.era.SystemModifier(s.Name())
			if modifier == 0 {
				continue
			}

			var result system.Result
			err := guard(func() error {
				var applyErr error
				result, applyErr = s.Apply(e.graph, modifier, e.rng)
				return applyErr
			})
			if err != nil {
				e.cfg.Hooks.OnActorError("simulation", s.Name(), err)
				continue
			}
			if result.Empty() {
				continue
			}

			e.applyResult(s.Name(), result)
		}
	}
}

// applyResult commits a system result: relationship additions, entity
// changes, and pressure deltas (clamped immediately). An addition with an
// unresolvable endpoint is rejected as a no-op for that edge; the rest of
// the result still applies. Only results with actual effect reach history.
func (e *Engine) applyResult(actor string, r system.Result) {
	var relsCreated []graph.Relationship
	for _, add := range r.Relationships {
		if err := e.graph.AddRelationship(add.Kind, add.Src, add.Dst); err != nil {
			e.cfg.Hooks.OnActorError("simulation", actor, err)
			continue
		}
		relsCreated = append(relsCreated, graph.Relationship{Kind: add.Kind, Src: add.Src, Dst: add.Dst})
	}

	var modified []graph.EntityID
	for _, ch := range r.Changes {
		ent := e.graph.Get(ch.ID)
		if ent == nil {
			e.cfg.Hooks.OnActorError("simulation", actor, graph.ErrUnknownEntity)
			continue
		}
		if ch.Status != nil {
			ent.Status = *ch.Status
		}
		if ch.Prominence != nil {
			ent.Prominence = *ch.Prominence
		}
		for _, tag := range ch.AddTags {
			ent.AddTag(tag)
		}
		ent.UpdatedAt = e.tick
		modified = append(modified, ch.ID)
	}

	for name, delta := range r.PressureDeltas {
		e.graph.AdjustPressure(name, delta)
	}

	if len(relsCreated) == 0 && len(modified) == 0 && len(r.PressureDeltas) == 0 {
		return
	}
	e.graph.AppendHistory(graph.HistoryEvent{
		Tick:                 e.tick,
		Era:                  e.era.ID,
		Type:                 graph.EventSimulation,
		Description:          r.Description,
		EntitiesModified:     modified,
		RelationshipsCreated: relsCreated,
	})
}

// applySpecialRule invokes the era's one-shot hook, if any. This is the only
// dispatch point with unconstrained graph access.
func (e *Engine) applySpecialRule() {
	if e.era.Special == "" {
		return
	}
	rule, ok := era.LookupSpecial(e.era.Special)
	if !ok {
		return // Validated at construction; unreachable.
	}

	var desc string
	err := guard(func() error {
		var ruleErr error
		desc, ruleErr = rule(e.graph, e.rng, e.tick)
		return ruleErr
	})
	if err != nil {
		e.cfg.Hooks.OnActorError("special", e.era.Special, err)
		return
	}
	if desc == "" {
		return
	}
	e.graph.AppendHistory(graph.HistoryEvent{
		Tick:        e.tick,
		Era:         e.era.ID,
		Type:        graph.EventSpecial,
		Description: desc,
	})
}
