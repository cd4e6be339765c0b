package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// ArtifactForging has a renowned living NPC forge a named artifact, which
// they then possess.
type ArtifactForging struct{}

func (t *ArtifactForging) Name() string { return "artifact_forging" }

func (t *ArtifactForging) CanApply(g *graph.Graph) bool {
	return len(t.FindTargets(g)) > 0
}

func (t *ArtifactForging) FindTargets(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, n := range g.ByKind(graph.KindNPC) {
		if n.Status == graph.StatusAlive && n.Prominence >= graph.ProminenceRenowned {
			out = append(out, n)
		}
	}
	return out
}

func (t *ArtifactForging) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	relicName := fmt.Sprintf("The %s of %s", pick(rng, relicForms), target.Name)

	return Proposal{
		Entities: []NewEntity{
			{
				Kind:        graph.KindItem,
				Subtype:     "artifact",
				Name:        relicName,
				Description: fmt.Sprintf("An artifact wrought by %s.", target.Name),
				Status:      graph.StatusActive,
				Prominence:  graph.ProminenceRecognized,
				Tags:        []string{"artifact"},
			},
		},
		Relationships: []NewRelationship{
			{Kind: graph.RelCreated, Src: ToExisting(target.ID), Dst: ToNew(0)},
			{Kind: graph.RelPossesses, Src: ToExisting(target.ID), Dst: ToNew(0)},
		},
		Description: fmt.Sprintf("%s forges %s", target.Name, relicName),
	}, nil
}
