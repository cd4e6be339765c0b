package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// HeroEmergence raises a new notable figure from the ranks of a faction.
type HeroEmergence struct{}

func (t *HeroEmergence) Name() string { return "hero_emergence" }

func (t *HeroEmergence) CanApply(g *graph.Graph) bool {
	return len(g.ByKind(graph.KindFaction)) > 0
}

func (t *HeroEmergence) FindTargets(g *graph.Graph) []*graph.Entity {
	return g.ByKind(graph.KindFaction)
}

func (t *HeroEmergence) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	hero := npcName(rng)

	return Proposal{
		Entities: []NewEntity{
			{
				Kind:        graph.KindNPC,
				Subtype:     "champion",
				Name:        hero,
				Description: fmt.Sprintf("A rising champion of %s.", target.Name),
				Status:      graph.StatusAlive,
				Prominence:  graph.ProminenceRecognized,
				Tags:        []string{"hero"},
			},
		},
		Relationships: []NewRelationship{
			{Kind: graph.RelMemberOf, Src: ToNew(0), Dst: ToExisting(target.ID)},
		},
		Description: fmt.Sprintf("%s rises to fame among %s", hero, target.Name),
	}, nil
}
