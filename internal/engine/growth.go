// Growth phase: era-weighted template selection and batch commitment.
package engine

import (
	"fmt"

	"github.com/talgya/chronica/internal/graph"
	"github.com/talgya/chronica/internal/template"
)

// growthPhase iterates the template registry in a per-epoch shuffled order.
// Each template is skipped when its era weight is 0, skipped probabilistically
// per weight, skipped when its precondition fails, and otherwise expanded
// against one uniformly chosen target. A template failure is reported and the
// remaining templates still run. Growth stops once the per-epoch target count
// is reached.
func (e *Engine) growthPhase() {
	target := e.rng.Between(e.cfg.GrowthMin, e.cfg.GrowthMax)
	created := 0

	templates := append([]template.Template(nil), e.cfg.Templates.All()...)
	e.rng.Shuffle(len(templates), func(i, j int) {
		templates[i], templates[j] = templates[j], templates[i]
	})

	for _, t := range templates {
		if created >= target {
			break
		}

		weight := e.era.TemplateWeight(t.Name())
		if weight == 0 {
			continue
		}
		if weight < 1 && !e.rng.Chance(weight) {
			continue
		}
		if !t.CanApply(e.graph) {
			continue
		}
		candidates := t.FindTargets(e.graph)
		if len(candidates) == 0 {
			continue
		}
		anchor := candidates[e.rng.Index(len(candidates))]

		var proposal template.Proposal
		err := guard(func() error {
			var expandErr error
			proposal, expandErr = t.Expand(e.graph, anchor, e.rng)
			return expandErr
		})
		if err != nil {
			e.cfg.Hooks.OnActorError("growth", t.Name(), err)
			continue
		}

		n, err := e.commitProposal(t.Name(), proposal)
		if err != nil {
			e.cfg.Hooks.OnActorError("growth", t.Name(), err)
			continue
		}
		created += n
	}
}

// commitProposal validates a proposal and applies it as one unit: entities
// are inserted first (real identifiers assigned in batch order), then
// relationships with batch references resolved positionally. Validation
// happens before any insertion, so a bad proposal leaves the graph untouched.
func (e *Engine) commitProposal(actor string, p template.Proposal) (int, error) {
	for _, ne := range p.Entities {
		if !graph.ValidKind(ne.Kind) {
			return 0, fmt.Errorf("entity %q: unknown kind %q", ne.Name, ne.Kind)
		}
	}
	for _, rel := range p.Relationships {
		if err := e.checkRef(rel.Src, len(p.Entities)); err != nil {
			return 0, fmt.Errorf("relationship %s src: %w", rel.Kind, err)
		}
		if err := e.checkRef(rel.Dst, len(p.Entities)); err != nil {
			return 0, fmt.Errorf("relationship %s dst: %w", rel.Kind, err)
		}
	}

	ids := make([]graph.EntityID, len(p.Entities))
	for i, ne := range p.Entities {
		id, err := e.graph.AddEntity(&graph.Entity{
			Kind:        ne.Kind,
			Subtype:     ne.Subtype,
			Name:        ne.Name,
			Description: ne.Description,
			Status:      ne.Status,
			Prominence:  ne.Prominence,
			Tags:        ne.Tags,
		}, e.tick)
		if err != nil {
			// Kinds were pre-validated and batch entities carry no explicit
			// ids, so insertion cannot fail after validation passes.
			return 0, fmt.Errorf("entity %q: %w", ne.Name, err)
		}
		ids[i] = id
	}

	var relsCreated []graph.Relationship
	for _, rel := range p.Relationships {
		src := e.resolveRef(rel.Src, ids)
		dst := e.resolveRef(rel.Dst, ids)
		if err := e.graph.AddRelationship(rel.Kind, src, dst); err != nil {
			// Endpoints were pre-validated; only the per-type cap can reject
			// here, and a capped edge is a no-op, not a failure.
			e.cfg.Hooks.OnActorError("growth", actor, err)
			continue
		}
		relsCreated = append(relsCreated, graph.Relationship{Kind: rel.Kind, Src: src, Dst: dst})
	}

	e.graph.AppendHistory(graph.HistoryEvent{
		Tick:                 e.tick,
		Era:                  e.era.ID,
		Type:                 graph.EventGrowth,
		Description:          p.Description,
		EntitiesCreated:      ids,
		RelationshipsCreated: relsCreated,
	})
	return len(ids), nil
}

func (e *Engine) checkRef(r template.Ref, batchSize int) error {
	if i, ok := r.Batch(); ok {
		if i < 0 || i >= batchSize {
			return fmt.Errorf("batch index %d out of range (batch size %d)", i, batchSize)
		}
		return nil
	}
	id, ok := r.Entity()
	if !ok {
		return fmt.Errorf("endpoint reference is unset")
	}
	if e.graph.Get(id) == nil {
		return fmt.Errorf("%w: id %d", graph.ErrUnknownEntity, id)
	}
	return nil
}

func (e *Engine) resolveRef(r template.Ref, batch []graph.EntityID) graph.EntityID {
	if i, ok := r.Batch(); ok {
		return batch[i]
	}
	id, _ := r.Entity()
	return id
}
