package system

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// ConflictEscalation occasionally pushes two factions into open war. The
// chance rises with standing unrest and scales with the era modifier.
type ConflictEscalation struct{}

func (s *ConflictEscalation) Name() string { return "conflict_escalation" }

func (s *ConflictEscalation) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error) {
	factions := activeFactions(g)
	if len(factions) < 2 {
		return Result{}, nil
	}

	unrest := g.Pressures["unrest"]
	chance := (0.05 + unrest/400) * modifier
	if !rng.Chance(chance) {
		return Result{}, nil
	}

	a := factions[rng.Index(len(factions))]
	b := factions[rng.Index(len(factions))]
	if a.ID == b.ID || atWar(g, a.ID, b.ID) {
		return Result{}, nil
	}

	return Result{
		Relationships: []Addition{
			{Kind: graph.RelAtWarWith, Src: a.ID, Dst: b.ID},
			{Kind: graph.RelAtWarWith, Src: b.ID, Dst: a.ID},
		},
		PressureDeltas: map[string]float64{"unrest": 8 * modifier},
		Description:    fmt.Sprintf("%s declares war on %s", a.Name, b.Name),
	}, nil
}

func activeFactions(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, f := range g.ByKind(graph.KindFaction) {
		if f.Status != graph.StatusOutlawed {
			out = append(out, f)
		}
	}
	return out
}

func atWar(g *graph.Graph, a, b graph.EntityID) bool {
	for _, r := range g.Relationships {
		if r.Kind == graph.RelAtWarWith && ((r.Src == a && r.Dst == b) || (r.Src == b && r.Dst == a)) {
			return true
		}
	}
	return false
}
