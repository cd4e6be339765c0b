package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// FactionSchism splinters a well-established faction: a rival splinter group
// forms under a defector figurehead.
type FactionSchism struct{}

func (t *FactionSchism) Name() string { return "faction_schism" }

func (t *FactionSchism) CanApply(g *graph.Graph) bool {
	return len(t.FindTargets(g)) > 0
}

// FindTargets returns factions with at least three members; small groups
// have nothing to splinter.
func (t *FactionSchism) FindTargets(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, f := range g.ByKind(graph.KindFaction) {
		members := 0
		for _, r := range g.Relationships {
			if r.Kind == graph.RelMemberOf && r.Dst == f.ID {
				members++
			}
		}
		if members >= 3 {
			out = append(out, f)
		}
	}
	return out
}

func (t *FactionSchism) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	splinterName := fmt.Sprintf("The %s %s", pick(rng, cultEpithet), target.Name)
	defector := npcName(rng)

	return Proposal{
		Entities: []NewEntity{
			{
				Kind:        graph.KindFaction,
				Subtype:     "splinter",
				Name:        splinterName,
				Description: fmt.Sprintf("A splinter group broken away from %s.", target.Name),
				Status:      graph.StatusActive,
				Prominence:  graph.ProminenceMarginal,
				Tags:        []string{"schism"},
			},
			{
				Kind:        graph.KindNPC,
				Subtype:     "defector",
				Name:        defector,
				Description: fmt.Sprintf("Figurehead of the schism against %s.", target.Name),
				Status:      graph.StatusAlive,
				Prominence:  graph.ProminenceRecognized,
			},
		},
		Relationships: []NewRelationship{
			{Kind: graph.RelRivalOf, Src: ToNew(0), Dst: ToExisting(target.ID)},
			{Kind: graph.RelMemberOf, Src: ToNew(1), Dst: ToNew(0)},
		},
		Description: fmt.Sprintf("%s breaks away from %s under %s", splinterName, target.Name, defector),
	}, nil
}
