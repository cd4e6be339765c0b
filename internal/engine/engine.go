// Package engine drives the epoch-based history simulation: era selection,
// growth, simulation ticks, pressure dynamics, and pruning.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/era"
	"github.com/talgya/chronica/internal/graph"
	"github.com/talgya/chronica/internal/pressure"
	"github.com/talgya/chronica/internal/system"
	"github.com/talgya/chronica/internal/template"
)

// PruneConfig holds the pruning pass thresholds. Ages are measured in ticks
// since creation.
type PruneConfig struct {
	ForgetAge    uint64  // Entities older than this with low degree are forgotten.
	MinDegree    int     // Degree below which an old entity is forgettable.
	RetireAge    uint64  // Alive NPCs older than this become retirement-eligible.
	RetireChance float64 // Per-epoch probability of retiring an eligible NPC.
}

// DefaultPruning mirrors the long-standing pruning policy constants.
func DefaultPruning() PruneConfig {
	return PruneConfig{ForgetAge: 50, MinDegree: 2, RetireAge: 80, RetireChance: 0.7}
}

// Hooks let a host observe the run without the engine hard-coding an output
// sink. Nil hooks fall back to slog.
type Hooks struct {
	// OnActorError is called when a template, system, or special rule fails.
	// The failure never aborts the phase or the run.
	OnActorError func(phase, actor string, err error)
	// OnEpoch receives end-of-epoch statistics.
	OnEpoch func(stats EpochStats)
}

// Config is the full engine configuration. Validation happens once, at
// construction; configuration errors are the only fatal error category and
// only before the first epoch.
type Config struct {
	Seed          int64
	Eras          []era.Era
	Templates     *template.Registry
	Systems       *system.Registry
	Pressures     []pressure.Definition
	TicksPerEpoch int    // Simulation ticks per growth phase.
	MaxTicks      uint64 // Stop once the tick counter reaches this.
	TargetPerKind int    // Stop once entities >= TargetPerKind * len(graph.Kinds).

	// Per-epoch growth target bounds: a value in [GrowthMin, GrowthMax] is
	// rolled each epoch and caps how many entities growth may add.
	GrowthMin int
	GrowthMax int

	MaxRelsPerType int // Outgoing relationship cap per (entity, kind). 0 = unlimited.

	// DriftAmplitude scales the slow coherent background noise added to each
	// pressure update. 0 disables drift.
	DriftAmplitude float64

	Pruning PruneConfig
	Hooks   Hooks
}

// SeedLink is a one-time named link on a seed entity, consumed at
// construction to seed initial relationships. Target is an entity name or a
// numeric identifier.
type SeedLink struct {
	Kind   string
	Target string
}

// SeedEntity is an initial entity provided by the authoring layer.
type SeedEntity struct {
	ID          graph.EntityID // Optional pre-existing identifier (0 = assign).
	Kind        string
	Subtype     string
	Name        string
	Description string
	Status      string
	Prominence  graph.Prominence
	Tags        []string
	Links       []SeedLink
}

// Engine owns the graph and drives epochs. Single-threaded by design: the
// epoch loop runs to completion with no external mutation of the graph.
type Engine struct {
	cfg   Config
	graph *graph.Graph
	rng   *entropy.Source
	drift *entropy.Drift

	tick  uint64
	epoch int
	era   era.Era
}

// New validates the configuration, builds the graph from the seed entities,
// and resolves their one-time links. All validation failures are fatal here;
// nothing after construction can fail the run.
func New(cfg Config, seeds []SeedEntity) (*Engine, error) {
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	if cfg.Hooks.OnActorError == nil {
		cfg.Hooks.OnActorError = func(phase, actor string, err error) {
			slog.Error("actor failed", "phase", phase, "actor", actor, "error", err)
		}
	}
	if cfg.Hooks.OnEpoch == nil {
		cfg.Hooks.OnEpoch = logEpochStats
	}

	g := graph.New(cfg.MaxRelsPerType)
	for _, def := range cfg.Pressures {
		g.SetPressure(def.Name, 50) // Start at the equilibrium midpoint.
	}

	if err := seedGraph(g, seeds); err != nil {
		return nil, fmt.Errorf("seed entities: %w", err)
	}

	return &Engine{
		cfg:   cfg,
		graph: g,
		rng:   entropy.NewSource(cfg.Seed),
		drift: entropy.NewDrift(cfg.Seed + 1),
		era:   era.Select(0, cfg.Eras),
	}, nil
}

func validate(cfg Config) error {
	if len(cfg.Eras) == 0 {
		return fmt.Errorf("at least one era is required")
	}
	if cfg.Templates == nil || cfg.Templates.Len() == 0 {
		return fmt.Errorf("at least one growth template is required")
	}
	if cfg.Systems == nil || cfg.Systems.Len() == 0 {
		return fmt.Errorf("at least one simulation system is required")
	}
	if cfg.TicksPerEpoch <= 0 {
		return fmt.Errorf("ticks per epoch must be positive, got %d", cfg.TicksPerEpoch)
	}
	if cfg.MaxTicks == 0 {
		return fmt.Errorf("max ticks must be positive")
	}
	if cfg.TargetPerKind <= 0 {
		return fmt.Errorf("target per kind must be positive, got %d", cfg.TargetPerKind)
	}
	if cfg.GrowthMin <= 0 || cfg.GrowthMax < cfg.GrowthMin {
		return fmt.Errorf("growth bounds invalid: min %d, max %d", cfg.GrowthMin, cfg.GrowthMax)
	}
	if cfg.MaxRelsPerType < 0 {
		return fmt.Errorf("max relationships per type must not be negative")
	}
	if cfg.DriftAmplitude < 0 {
		return fmt.Errorf("drift amplitude must not be negative")
	}
	if cfg.Pruning.RetireChance < 0 || cfg.Pruning.RetireChance > 1 {
		return fmt.Errorf("retire chance must be in [0,1], got %g", cfg.Pruning.RetireChance)
	}
	for _, e := range cfg.Eras {
		if e.Special != "" && !era.KnownSpecial(e.Special) {
			return fmt.Errorf("era %s references unknown special rule %q", e.ID, e.Special)
		}
	}
	seen := make(map[string]struct{}, len(cfg.Pressures))
	for _, def := range cfg.Pressures {
		if def.Growth == nil {
			return fmt.Errorf("pressure %s has no growth rule", def.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("duplicate pressure: %s", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	return nil
}

// seedGraph inserts seed entities at tick 0, then resolves their one-time
// links by name or numeric id. Unresolvable links are configuration errors.
func seedGraph(g *graph.Graph, seeds []SeedEntity) error {
	byName := make(map[string]graph.EntityID, len(seeds))
	ids := make([]graph.EntityID, len(seeds))

	for i, s := range seeds {
		id, err := g.AddEntity(&graph.Entity{
			ID:          s.ID,
			Kind:        s.Kind,
			Subtype:     s.Subtype,
			Name:        s.Name,
			Description: s.Description,
			Status:      s.Status,
			Prominence:  s.Prominence,
			Tags:        s.Tags,
		}, 0)
		if err != nil {
			return fmt.Errorf("entity %q: %w", s.Name, err)
		}
		ids[i] = id
		byName[s.Name] = id
	}

	for i, s := range seeds {
		for _, link := range s.Links {
			target, ok := byName[link.Target]
			if !ok {
				var numeric graph.EntityID
				if _, err := fmt.Sscanf(link.Target, "%d", &numeric); err == nil && g.Get(numeric) != nil {
					target = numeric
					ok = true
				}
			}
			if !ok {
				return fmt.Errorf("entity %q links to unknown target %q", s.Name, link.Target)
			}
			if err := g.AddRelationship(link.Kind, ids[i], target); err != nil {
				return fmt.Errorf("entity %q link %s: %w", s.Name, link.Kind, err)
			}
		}
	}
	return nil
}

// Run executes epochs until a stop condition holds, then returns the final
// graph. Stop conditions are checked before each epoch, so the loop is
// bounded and terminating by construction.
func (e *Engine) Run() *graph.Graph {
	slog.Info("run starting",
		"seed", e.cfg.Seed,
		"eras", len(e.cfg.Eras),
		"entities", len(e.graph.Entities),
	)

	for !e.done() {
		e.runEpoch()
		e.epoch++
	}

	slog.Info("run finished",
		"tick", e.tick,
		"epochs", e.epoch,
		"entities", len(e.graph.Entities),
		"relationships", len(e.graph.Relationships),
	)
	return e.graph
}

// done checks the stop conditions: tick budget spent, epoch budget spent
// (twice the era count), or the entity population target reached. Any one
// condition halts the run.
func (e *Engine) done() bool {
	if e.tick >= e.cfg.MaxTicks {
		return true
	}
	if e.epoch >= 2*len(e.cfg.Eras) {
		return true
	}
	if len(e.graph.Entities) >= e.cfg.TargetPerKind*len(graph.Kinds) {
		return true
	}
	return false
}

// runEpoch executes one full era-select / growth / simulate / special /
// pressures / pruning cycle.
func (e *Engine) runEpoch() {
	e.era = era.Select(e.epoch, e.cfg.Eras)

	e.growthPhase()
	e.simulationPhase()
	e.applySpecialRule()
	e.updatePressures()
	e.prune()

	e.cfg.Hooks.OnEpoch(e.collectStats())
}

// Graph returns the engine's graph. Callers must not mutate it during a run.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Tick returns the current tick counter.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Epoch returns the number of completed epochs.
func (e *Engine) Epoch() int {
	return e.epoch
}

// Snapshot exports the current run state for downstream consumers.
func (e *Engine) Snapshot() graph.Snapshot {
	return e.graph.Export(e.tick, e.epoch, e.era.Name)
}

// guard runs an actor callback, converting panics into errors so one broken
// actor cannot abort the phase.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor panicked: %v", r)
		}
	}()
	return fn()
}
