// Package pressure defines the bounded global scalars that feed back into
// era and system behavior, and their growth/decay dynamics.
package pressure

import "github.com/talgya/chronica/internal/graph"

// Definition describes one pressure: a growth rule (pure function of graph
// state) and a fixed natural decay rate. The engine owns the current value;
// templates and systems only propose deltas through their results.
type Definition struct {
	Name   string
	Decay  float64
	Growth func(g *graph.Graph) float64
}

// Next computes a pressure's new value. Decay opposes the value's position
// relative to the midpoint 50: pressures are pulled toward equilibrium, not
// toward zero. The era modifier scales the whole update. The result is
// clamped to [0,100] by the caller via Graph.SetPressure.
func Next(current, growth, decay, eraModifier float64) float64 {
	signedDecay := decay
	if current > 50 {
		signedDecay = -decay
	}
	return current + (growth+signedDecay)*eraModifier
}

// Builtins returns the standard pressure set.
func Builtins() []Definition {
	return []Definition{
		{Name: "unrest", Decay: 1.0, Growth: unrestGrowth},
		{Name: "scarcity", Decay: 0.8, Growth: scarcityGrowth},
		{Name: "arcane_flux", Decay: 0.5, Growth: arcaneFluxGrowth},
	}
}

// ByName returns a built-in definition, if registered.
func ByName(name string) (Definition, bool) {
	for _, def := range Builtins() {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// unrestGrowth rises with open wars and falls with alliances.
func unrestGrowth(g *graph.Graph) float64 {
	wars, alliances := 0, 0
	for _, r := range g.Relationships {
		switch r.Kind {
		case graph.RelAtWarWith:
			wars++
		case graph.RelAlliedWith:
			alliances++
		}
	}
	return float64(wars)*1.5 - float64(alliances)*0.5
}

// scarcityGrowth rises as population outpaces standing settlements.
func scarcityGrowth(g *graph.Graph) float64 {
	standing := 0
	for _, loc := range g.ByKind(graph.KindLocation) {
		if loc.Status != graph.StatusRuined {
			standing++
		}
	}
	if standing == 0 {
		return 5
	}
	npcs := len(g.ByKind(graph.KindNPC))
	perSettlement := float64(npcs) / float64(standing)
	return perSettlement*0.4 - 2
}

// arcaneFluxGrowth rises with the number of abilities and artifacts in play.
func arcaneFluxGrowth(g *graph.Graph) float64 {
	n := len(g.ByKind(graph.KindAbility))
	for _, item := range g.ByKind(graph.KindItem) {
		if item.Subtype == "artifact" {
			n++
		}
	}
	return float64(n)*0.6 - 1
}
