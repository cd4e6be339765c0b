package template

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// GuildEstablishment founds a trading company in a standing settlement:
// one faction of subtype "company" controlling the settlement, staffed by
// a handful of member merchants.
type GuildEstablishment struct{}

func (t *GuildEstablishment) Name() string { return "guild_establishment" }

func (t *GuildEstablishment) CanApply(g *graph.Graph) bool {
	return len(t.FindTargets(g)) > 0
}

func (t *GuildEstablishment) FindTargets(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, loc := range g.ByKind(graph.KindLocation) {
		if loc.Status != graph.StatusRuined {
			out = append(out, loc)
		}
	}
	return out
}

func (t *GuildEstablishment) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (Proposal, error) {
	trade := pick(rng, guildTrades)
	guildName := fmt.Sprintf("%s %s Company", target.Name, trade)

	entities := []NewEntity{
		{
			Kind:        graph.KindFaction,
			Subtype:     "company",
			Name:        guildName,
			Description: fmt.Sprintf("A trading company dealing in %s, chartered in %s.", trade, target.Name),
			Status:      graph.StatusActive,
			Prominence:  graph.ProminenceRecognized,
			Tags:        []string{"trade", "guild"},
		},
	}
	relationships := []NewRelationship{
		{Kind: graph.RelControls, Src: ToNew(0), Dst: ToExisting(target.ID)},
	}

	members := rng.Between(2, 4)
	for i := 0; i < members; i++ {
		entities = append(entities, NewEntity{
			Kind:        graph.KindNPC,
			Subtype:     "merchant",
			Name:        npcName(rng),
			Description: fmt.Sprintf("A founding member of the %s.", guildName),
			Status:      graph.StatusAlive,
			Prominence:  graph.ProminenceMarginal,
			Tags:        []string{"merchant"},
		})
		relationships = append(relationships, NewRelationship{
			Kind: graph.RelMemberOf, Src: ToNew(i + 1), Dst: ToNew(0),
		})
	}

	return Proposal{
		Entities:      entities,
		Relationships: relationships,
		Description:   fmt.Sprintf("The %s is established in %s with %d founding members", guildName, target.Name, members),
	}, nil
}
