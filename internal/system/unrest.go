package system

import (
	"fmt"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/graph"
)

// UnrestAgitation fires once unrest runs high: a faction is declared outlawed
// and its members marked dissidents, venting some of the pressure.
type UnrestAgitation struct{}

func (s *UnrestAgitation) Name() string { return "unrest_agitation" }

func (s *UnrestAgitation) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (Result, error) {
	unrest := g.Pressures["unrest"]
	if unrest < 70 {
		return Result{}, nil
	}

	var candidates []*graph.Entity
	for _, f := range activeFactions(g) {
		if f.Prominence <= graph.ProminenceRecognized {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return Result{}, nil
	}

	if !rng.Chance(0.2 * modifier) {
		return Result{}, nil
	}

	f := candidates[rng.Index(len(candidates))]
	changes := []Change{
		{ID: f.ID, Status: statusPtr(graph.StatusOutlawed), AddTags: []string{"outlawed"}},
	}
	for _, member := range g.Related(f.ID, graph.RelMemberOf) {
		if member.Kind == graph.KindNPC && member.Status == graph.StatusAlive {
			changes = append(changes, Change{ID: member.ID, AddTags: []string{"dissident"}})
		}
	}

	return Result{
		Changes:        changes,
		PressureDeltas: map[string]float64{"unrest": -12 * modifier},
		Description:    fmt.Sprintf("Amid the unrest, %s is declared outlawed", f.Name),
	}, nil
}
