package system

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// RenownDynamics raises the prominence of well-connected entities: the more
// relationships an entity accumulates, the likelier its deeds are retold.
type RenownDynamics struct{}

func (s *RenownDynamics) Name() string { return "renown_dynamics" }

func (s *RenownDynamics) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error) {
	if len(g.Entities) == 0 {
		return Result{}, nil
	}

	e := g.Entities[rng.Index(len(g.Entities))]
	if e.Prominence >= graph.ProminenceMythic {
		return Result{}, nil
	}
	if e.Kind == graph.KindNPC && e.Status != graph.StatusAlive {
		return Result{}, nil
	}

	degree := g.Degree(e.ID)
	chance := float64(degree) * 0.03 * modifier
	if !rng.Chance(chance) {
		return Result{}, nil
	}

	return Result{
		Changes: []Change{
			{ID: e.ID, Prominence: prominencePtr(e.Prominence + 1)},
		},
		Description: fmt.Sprintf("Tales of %s spread; they are now %s", e.Name, graph.ProminenceName(e.Prominence+1)),
	}, nil
}
