package system

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// TradeNetwork links factions to settlements through trade routes, easing
// scarcity as the network densifies.
type TradeNetwork struct{}

func (s *TradeNetwork) Name() string { return "trade_network" }

func (s *TradeNetwork) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error) {
	factions := activeFactions(g)
	var standing []*graph.Entity
	for _, loc := range g.ByKind(graph.KindLocation) {
		if loc.Status != graph.StatusRuined {
			standing = append(standing, loc)
		}
	}
	if len(factions) == 0 || len(standing) == 0 {
		return Result{}, nil
	}

	if !rng.Chance(0.12 * modifier) {
		return Result{}, nil
	}

	f := factions[rng.Index(len(factions))]
	loc := standing[rng.Index(len(standing))]

	return Result{
		Relationships: []Addition{
			{Kind: graph.RelTradesWith, Src: f.ID, Dst: loc.ID},
		},
		PressureDeltas: map[string]float64{"scarcity": -3 * modifier},
		Description:    fmt.Sprintf("%s opens a trade route to %s", f.Name, loc.Name),
	}, nil
}
