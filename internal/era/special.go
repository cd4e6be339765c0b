package era

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// SpecialRule is a one-shot hook invoked once at epoch end when the era
// names it. This is the only hook with unconstrained graph access.
type SpecialRule func(g *graph.Graph, rng *entropy.Source, tick uint64) (string, error)

var specialRules = map[string]SpecialRule{
	"great_calamity": greatCalamity,
	"golden_age":     goldenAge,
	"arcane_surge":   arcaneSurge,
}

// LookupSpecial returns a registered special rule by name.
func LookupSpecial(name string) (SpecialRule, bool) {
	rule, ok := specialRules[name]
	return rule, ok
}

// KnownSpecial reports whether a special rule name is registered.
func KnownSpecial(name string) bool {
	_, ok := specialRules[name]
	return ok
}

// greatCalamity ruins one location and scatters wariness through the graph.
func greatCalamity(g *graph.Graph, rng *entropy.Source, tick uint64) (string, error) {
	locations := g.ByKind(graph.KindLocation)
	var standing []*graph.Entity
	for _, loc := range locations {
		if loc.Status != graph.StatusRuined {
			standing = append(standing, loc)
		}
	}
	if len(standing) == 0 {
		return "", nil
	}
	loc := standing[rng.Index(len(standing))]
	loc.Status = graph.StatusRuined
	loc.AddTag("calamity")
	loc.UpdatedAt = tick
	g.AdjustPressure("unrest", 20)
	return fmt.Sprintf("A great calamity strikes %s, leaving it in ruins", loc.Name), nil
}

// goldenAge raises the prominence of every active faction by one step.
func goldenAge(g *graph.Graph, rng *entropy.Source, tick uint64) (string, error) {
	raised := 0
	for _, f := range g.ByKind(graph.KindFaction) {
		if f.Status == graph.StatusOutlawed || f.Prominence >= graph.ProminenceMythic {
			continue
		}
		f.Prominence++
		f.UpdatedAt = tick
		raised++
	}
	if raised == 0 {
		return "", nil
	}
	g.AdjustPressure("unrest", -10)
	return fmt.Sprintf("A golden age lifts %d factions to new heights", raised), nil
}

// arcaneSurge makes one random ability sought by a random faction.
func arcaneSurge(g *graph.Graph, rng *entropy.Source, tick uint64) (string, error) {
	abilities := g.ByKind(graph.KindAbility)
	factions := g.ByKind(graph.KindFaction)
	if len(abilities) == 0 || len(factions) == 0 {
		return "", nil
	}
	ability := abilities[rng.Index(len(abilities))]
	faction := factions[rng.Index(len(factions))]
	if err := g.AddRelationship(graph.RelSeeks, faction.ID, ability.ID); err != nil {
		return "", err
	}
	g.AdjustPressure("arcane_flux", 15)
	return fmt.Sprintf("An arcane surge draws %s to seek %s", faction.Name, ability.Name), nil
}
