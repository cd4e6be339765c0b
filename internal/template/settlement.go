package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// SettlementFounding has an established faction found a new outpost, with a
// steward residing there.
type SettlementFounding struct{}

func (t *SettlementFounding) Name() string { return "settlement_founding" }

func (t *SettlementFounding) CanApply(g *graph.Graph) bool {
	return len(t.FindTargets(g)) > 0
}

func (t *SettlementFounding) FindTargets(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, f := range g.ByKind(graph.KindFaction) {
		if f.Status != graph.StatusOutlawed && f.Prominence >= graph.ProminenceRecognized {
			out = append(out, f)
		}
	}
	return out
}

func (t *SettlementFounding) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	placeName := fmt.Sprintf("%s's %s", pick(rng, npcFamily), pick(rng, placeForms))
	steward := npcName(rng)

	return Proposal{
		Entities: []NewEntity{
			{
				Kind:        graph.KindLocation,
				Subtype:     "outpost",
				Name:        placeName,
				Description: fmt.Sprintf("An outpost founded by %s.", target.Name),
				Status:      graph.StatusActive,
				Prominence:  graph.ProminenceMarginal,
				Tags:        []string{"frontier"},
			},
			{
				Kind:        graph.KindNPC,
				Subtype:     "steward",
				Name:        steward,
				Description: fmt.Sprintf("Steward of %s on behalf of %s.", placeName, target.Name),
				Status:      graph.StatusAlive,
				Prominence:  graph.ProminenceMarginal,
			},
		},
		Relationships: []NewRelationship{
			{Kind: graph.RelControls, Src: ToExisting(target.ID), Dst: ToNew(0)},
			{Kind: graph.RelMemberOf, Src: ToNew(1), Dst: ToExisting(target.ID)},
			{Kind: graph.RelResidesIn, Src: ToNew(1), Dst: ToNew(0)},
		},
		Description: fmt.Sprintf("%s founds the outpost of %s, stewarded by %s", target.Name, placeName, steward),
	}, nil
}
