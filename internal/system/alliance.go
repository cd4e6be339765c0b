package system

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// AllianceWeaving lets factions that are not at war form alliances,
// bleeding off unrest.
type AllianceWeaving struct{}

func (s *AllianceWeaving) Name() string { return "alliance_weaving" }

func (s *AllianceWeaving) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error) {
	factions := activeFactions(g)
	if len(factions) < 2 {
		return Result{}, nil
	}

	if !rng.Chance(0.08 * modifier) {
		return Result{}, nil
	}

	a := factions[rng.Index(len(factions))]
	b := factions[rng.Index(len(factions))]
	if a.ID == b.ID || atWar(g, a.ID, b.ID) || allied(g, a.ID, b.ID) {
		return Result{}, nil
	}

	return Result{
		Relationships: []Addition{
			{Kind: graph.RelAlliedWith, Src: a.ID, Dst: b.ID},
			{Kind: graph.RelAlliedWith, Src: b.ID, Dst: a.ID},
		},
		PressureDeltas: map[string]float64{"unrest": -4 * modifier},
		Description:    fmt.Sprintf("%s and %s seal an alliance", a.Name, b.Name),
	}, nil
}

func allied(g *graph.Graph, a, b graph.EntityID) bool {
	for _, r := range g.Relationships {
		if r.Kind == graph.RelAlliedWith && ((r.Src == a && r.Dst == b) || (r.Src == b && r.Dst == a)) {
			return true
		}
	}
	return false
}
