package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// CultEmergence forms a cult around an ability: a faction of subtype "cult"
// seeking the ability, led by a prophet with two devotees.
type CultEmergence struct{}

func (t *CultEmergence) Name() string { return "cult_emergence" }

func (t *CultEmergence) CanApply(g *graph.Graph) bool {
	return len(g.ByKind(graph.KindAbility)) > 0
}

func (t *CultEmergence) FindTargets(g *graph.Graph) []*graph.Entity {
	return g.ByKind(graph.KindAbility)
}

func (t *CultEmergence) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	cultName := fmt.Sprintf("The %s Circle of %s", pick(rng, cultEpithet), target.Name)
	prophet := npcName(rng)

	entities := []NewEntity{
		{
			Kind:        graph.KindFaction,
			Subtype:     "cult",
			Name:        cultName,
			Description: fmt.Sprintf("A secretive circle devoted to %s.", target.Name),
			Status:      graph.StatusActive,
			Prominence:  graph.ProminenceMarginal,
			Tags:        []string{"cult", "secretive"},
		},
		{
			Kind:        graph.KindNPC,
			Subtype:     "prophet",
			Name:        prophet,
			Description: fmt.Sprintf("Self-proclaimed voice of %s.", target.Name),
			Status:      graph.StatusAlive,
			Prominence:  graph.ProminenceMarginal,
			Tags:        []string{"zealot"},
		},
	}
	relationships := []NewRelationship{
		{Kind: graph.RelSeeks, Src: ToNew(0), Dst: ToExisting(target.ID)},
		{Kind: graph.RelMemberOf, Src: ToNew(1), Dst: ToNew(0)},
	}

	for i := 0; i < 2; i++ {
		entities = append(entities, NewEntity{
			Kind:       graph.KindNPC,
			Subtype:    "devotee",
			Name:       npcName(rng),
			Status:     graph.StatusAlive,
			Prominence: graph.ProminenceMarginal,
			Tags:       []string{"zealot"},
		})
		relationships = append(relationships, NewRelationship{
			Kind: graph.RelMemberOf, Src: ToNew(i + 2), Dst: ToNew(0),
		})
	}

	return Proposal{
		Entities:      entities,
		Relationships: relationships,
		Description:   fmt.Sprintf("%s gathers in secret around %s, led by %s", cultName, target.Name, prophet),
	}, nil
}
