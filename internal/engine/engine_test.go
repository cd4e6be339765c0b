package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/talgya/chronica/internal/entropy"
	"github.com/talgya/chronica/internal/era"
	"github.com/talgya/chronica/internal/graph"
	"github.com/talgya/chronica/internal/pressure"
	"github.com/talgya/chronica/internal/system"
	"github.com/talgya/chronica/internal/template"
)

func testEras() []era.Era {
	return []era.Era{
		{ID: "founding", Name: "The Founding"},
		{ID: "expansion", Name: "The Expansion", Special: "golden_age"},
		{ID: "decline", Name: "The Long Decline", TemplateWeights: map[string]float64{"artifact_forging": 0}},
	}
}

func testConfig() Config {
	return Config{
		Seed:          42,
		Eras:          testEras(),
		Templates:     template.Builtins(),
		Systems:       system.Builtins(),
		Pressures:     pressure.Builtins(),
		TicksPerEpoch: 6,
		MaxTicks:      200,
		TargetPerKind: 25,
		GrowthMin:     5,
		GrowthMax:     15,
		Pruning:       DefaultPruning(),
	}
}

// The scenario seed set: one colony, two merchants, one faction, one ability.
func testSeeds() []SeedEntity {
	return []SeedEntity{
		{Kind: graph.KindLocation, Subtype: "colony", Name: "Meridian Colony", Status: graph.StatusActive, Prominence: graph.ProminenceRecognized},
		{Kind: graph.KindNPC, Subtype: "merchant", Name: "Corvik Fairwind", Status: graph.StatusAlive, Prominence: graph.ProminenceMarginal,
			Links: []SeedLink{{Kind: graph.RelResidesIn, Target: "Meridian Colony"}}},
		{Kind: graph.KindNPC, Subtype: "merchant", Name: "Delia Blackmere", Status: graph.StatusAlive, Prominence: graph.ProminenceMarginal},
		{Kind: graph.KindFaction, Subtype: "guild", Name: "The Tide Compact", Status: graph.StatusActive, Prominence: graph.ProminenceRecognized},
		{Kind: graph.KindAbility, Subtype: "magic", Name: "Tidebinding", Status: graph.StatusActive, Prominence: graph.ProminenceRecognized},
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty eras", func(c *Config) { c.Eras = nil }},
		{"nil templates", func(c *Config) { c.Templates = nil }},
		{"empty systems", func(c *Config) { c.Systems = system.NewRegistry() }},
		{"zero ticks per epoch", func(c *Config) { c.TicksPerEpoch = 0 }},
		{"negative ticks per epoch", func(c *Config) { c.TicksPerEpoch = -5 }},
		{"zero max ticks", func(c *Config) { c.MaxTicks = 0 }},
		{"zero target per kind", func(c *Config) { c.TargetPerKind = 0 }},
		{"inverted growth bounds", func(c *Config) { c.GrowthMin = 10; c.GrowthMax = 5 }},
		{"negative rel cap", func(c *Config) { c.MaxRelsPerType = -1 }},
		{"retire chance above 1", func(c *Config) { c.Pruning.RetireChance = 1.5 }},
		{"unknown special rule", func(c *Config) { c.Eras[0].Special = "dragon_invasion" }},
		{"duplicate pressure", func(c *Config) { c.Pressures = append(c.Pressures, c.Pressures[0]) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, testSeeds()); err == nil {
				t.Error("expected construction to fail")
			}
		})
	}

	if _, err := New(testConfig(), testSeeds()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestSeedLinksResolveByNameOrID(t *testing.T) {
	seeds := []SeedEntity{
		{ID: 3, Kind: graph.KindLocation, Name: "Meridian", Status: graph.StatusActive},
		{Kind: graph.KindFaction, Name: "The Compact", Status: graph.StatusActive,
			Links: []SeedLink{
				{Kind: graph.RelControls, Target: "Meridian"},
				{Kind: graph.RelControls, Target: "3"},
			}},
	}

	eng, err := New(testConfig(), seeds)
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	if len(g.Relationships) != 2 {
		t.Fatalf("expected 2 seeded relationships, got %d", len(g.Relationships))
	}
	for _, r := range g.Relationships {
		if r.Dst != 3 {
			t.Errorf("seed link resolved to %d, want 3", r.Dst)
		}
	}
}

func TestSeedLinkToUnknownTargetFailsFast(t *testing.T) {
	seeds := []SeedEntity{
		{Kind: graph.KindFaction, Name: "The Compact", Status: graph.StatusActive,
			Links: []SeedLink{{Kind: graph.RelControls, Target: "Atlantis"}}},
	}
	if _, err := New(testConfig(), seeds); err == nil {
		t.Error("expected unresolved seed link to fail construction")
	}
}

// At the moment Run returns, at least one stop condition must hold.
func TestRunTerminatesOnStopCondition(t *testing.T) {
	cfg := testConfig()
	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}

	g := eng.Run()

	tickStop := eng.Tick() >= cfg.MaxTicks
	epochStop := eng.Epoch() >= 2*len(cfg.Eras)
	entityStop := len(g.Entities) >= cfg.TargetPerKind*len(graph.Kinds)
	if !tickStop && !epochStop && !entityStop {
		t.Errorf("run returned with no stop condition satisfied: tick %d, epoch %d, entities %d",
			eng.Tick(), eng.Epoch(), len(g.Entities))
	}
}

func TestRunStopsAtEpochCapWhenNothingGrows(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 1 << 32
	// Disable every template so the entity target can never be reached.
	weights := make(map[string]float64)
	for _, tmpl := range cfg.Templates.All() {
		weights[tmpl.Name()] = 0
	}
	for i := range cfg.Eras {
		cfg.Eras[i].TemplateWeights = weights
	}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	eng.Run()

	if eng.Epoch() != 2*len(cfg.Eras) {
		t.Errorf("epoch cap: got %d epochs, want %d", eng.Epoch(), 2*len(cfg.Eras))
	}
}

func TestNoDanglingRelationships(t *testing.T) {
	eng, err := New(testConfig(), testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Run()

	for i, r := range g.Relationships {
		if g.Get(r.Src) == nil {
			t.Errorf("relationship %d (%s) has dangling src %d", i, r.Kind, r.Src)
		}
		if g.Get(r.Dst) == nil {
			t.Errorf("relationship %d (%s) has dangling dst %d", i, r.Kind, r.Dst)
		}
	}
}

func TestPressuresStayBoundedEveryEpoch(t *testing.T) {
	cfg := testConfig()
	cfg.DriftAmplitude = 5 // Exaggerate drift to stress the clamp.
	cfg.Hooks.OnEpoch = func(stats EpochStats) {
		for name, v := range stats.Pressures {
			if v < 0 || v > 100 {
				t.Errorf("epoch %d: pressure %s out of bounds: %g", stats.Epoch, name, v)
			}
		}
	}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	eng.Run()
}

// Two runs with the same seed, seed entities, and configuration must export
// byte-identical snapshots.
func TestRunsAreReproducible(t *testing.T) {
	runOnce := func() []byte {
		eng, err := New(testConfig(), testSeeds())
		if err != nil {
			t.Fatalf("construction: %v", err)
		}
		eng.Run()
		data, err := json.Marshal(eng.Snapshot())
		if err != nil {
			t.Fatalf("marshal snapshot: %v", err)
		}
		return data
	}

	a := runOnce()
	b := runOnce()
	if string(a) != string(b) {
		t.Error("identical configurations produced different snapshots")
	}

	cfg := testConfig()
	cfg.Seed = 43
	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	eng.Run()
	c, _ := json.Marshal(eng.Snapshot())
	if string(a) == string(c) {
		t.Error("different seeds produced identical snapshots")
	}
}

// The end-to-end scenario: one growth phase with only guild establishment
// enabled must found a company controlling the colony with at least two
// member npcs.
func TestGuildEstablishmentScenario(t *testing.T) {
	cfg := testConfig()
	cfg.Templates = template.NewRegistry(&template.GuildEstablishment{})
	cfg.TargetPerKind = 10

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	colony := g.Get(1)
	if colony == nil || colony.Subtype != "colony" {
		t.Fatal("scenario seed layout changed")
	}

	eng.growthPhase()

	var company *graph.Entity
	for _, f := range g.ByKind(graph.KindFaction) {
		if f.Subtype == "company" {
			company = f
			break
		}
	}
	if company == nil {
		t.Fatal("no company faction created by growth phase")
	}

	controls := false
	members := 0
	for _, r := range g.Relationships {
		if r.Kind == graph.RelControls && r.Src == company.ID && r.Dst == colony.ID {
			controls = true
		}
		if r.Kind == graph.RelMemberOf && r.Dst == company.ID {
			if m := g.Get(r.Src); m != nil && m.Kind == graph.KindNPC && m.CreatedAt == eng.Tick() {
				members++
			}
		}
	}
	if !controls {
		t.Error("company has no controls relationship to the colony")
	}
	if members < 2 {
		t.Errorf("company has %d new member npcs, want at least 2", members)
	}
}

// failingTemplate always errors from Expand.
type failingTemplate struct{}

func (failingTemplate) Name() string                                 { return "doomed" }
func (failingTemplate) CanApply(g *graph.Graph) bool                 { return true }
func (failingTemplate) FindTargets(g *graph.Graph) []*graph.Entity   { return g.Entities }
func (failingTemplate) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (template.Proposal, error) {
	return template.Proposal{}, errors.New("ritual interrupted")
}

// badRefTemplate proposes a relationship whose batch index is out of range.
type badRefTemplate struct{}

func (badRefTemplate) Name() string                               { return "bad_ref" }
func (badRefTemplate) CanApply(g *graph.Graph) bool               { return true }
func (badRefTemplate) FindTargets(g *graph.Graph) []*graph.Entity { return g.Entities }
func (badRefTemplate) Expand(g *graph.Graph, target *graph.Entity, rng *entropy.Source) (template.Proposal, error) {
	return template.Proposal{
		Entities: []template.NewEntity{
			{Kind: graph.KindNPC, Name: "Phantom Founder", Status: graph.StatusAlive},
		},
		Relationships: []template.NewRelationship{
			{Kind: graph.RelMemberOf, Src: template.ToNew(0), Dst: template.ToNew(5)},
		},
		Description: "a proposal that cannot be committed",
	}, nil
}

// panickingSystem panics every tick it is invoked.
type panickingSystem struct{}

func (panickingSystem) Name() string { return "explosive" }
func (panickingSystem) Apply(g *graph.Graph, modifier float64, rng *entropy.Source) (system.Result, error) {
	panic("boom")
}

func TestTemplateFailureDoesNotAbortGrowthPhase(t *testing.T) {
	cfg := testConfig()
	cfg.Templates = template.NewRegistry(failingTemplate{}, badRefTemplate{}, &template.GuildEstablishment{})

	var failures []string
	cfg.Hooks.OnActorError = func(phase, actor string, err error) {
		failures = append(failures, fmt.Sprintf("%s/%s", phase, actor))
	}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	before := len(g.Entities)

	eng.growthPhase()

	// The healthy template still ran.
	found := false
	for _, f := range g.ByKind(graph.KindFaction) {
		if f.Subtype == "company" {
			found = true
		}
	}
	if !found {
		t.Error("healthy template did not run after failures")
	}

	// The bad proposal left no partial state behind.
	for _, e := range g.Entities[before:] {
		if e.Name == "Phantom Founder" {
			t.Error("rejected proposal left a partially applied entity")
		}
	}
	for _, r := range g.Relationships {
		if g.Get(r.Src) == nil || g.Get(r.Dst) == nil {
			t.Error("rejected proposal left a dangling relationship")
		}
	}

	if len(failures) < 2 {
		t.Errorf("expected both broken templates reported, got %v", failures)
	}
}

// A proposal whose later entity carries an unknown kind must be rejected
// wholesale: the earlier, valid entities never reach the graph.
func TestInvalidKindRejectsWholeBatch(t *testing.T) {
	eng, err := New(testConfig(), testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	before := len(g.Entities)

	_, err = eng.commitProposal("wild_spawning", template.Proposal{
		Entities: []template.NewEntity{
			{Kind: graph.KindNPC, Name: "Harlan Vey", Status: graph.StatusAlive},
			{Kind: "dragon", Name: "Smolder"},
		},
		Description: "a brood stirs",
	})
	if err == nil {
		t.Fatal("expected the commit to fail on the unknown kind")
	}
	if len(g.Entities) != before {
		t.Fatalf("rejected proposal changed entity count: %d -> %d", before, len(g.Entities))
	}
	for _, e := range g.Entities {
		if e.Name == "Harlan Vey" {
			t.Error("rejected proposal left a partially applied entity")
		}
	}
}

func TestUnsetRefRejectsWholeBatch(t *testing.T) {
	eng, err := New(testConfig(), testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	before := len(g.Entities)
	relsBefore := len(g.Relationships)

	_, err = eng.commitProposal("half_wired", template.Proposal{
		Entities: []template.NewEntity{
			{Kind: graph.KindNPC, Name: "Orla Thane", Status: graph.StatusAlive},
		},
		Relationships: []template.NewRelationship{
			{Kind: graph.RelMemberOf, Src: template.ToNew(0), Dst: template.Ref{}},
		},
	})
	if err == nil {
		t.Fatal("expected the commit to fail on the unset endpoint")
	}
	if len(g.Entities) != before || len(g.Relationships) != relsBefore {
		t.Error("rejected proposal mutated the graph")
	}
}

func TestSystemPanicIsIsolated(t *testing.T) {
	cfg := testConfig()
	cfg.Systems = system.NewRegistry(panickingSystem{}, &system.TradeNetwork{})

	var failed []string
	cfg.Hooks.OnActorError = func(phase, actor string, err error) {
		failed = append(failed, actor)
	}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	eng.simulationPhase()

	reported := false
	for _, actor := range failed {
		if actor == "explosive" {
			reported = true
		}
	}
	if !reported {
		t.Error("panicking system was not reported through the error hook")
	}
	if eng.Tick() != uint64(cfg.TicksPerEpoch) {
		t.Errorf("phase stopped early: tick %d, want %d", eng.Tick(), cfg.TicksPerEpoch)
	}
}

func TestZeroModifierShortCircuitsSystem(t *testing.T) {
	cfg := testConfig()
	cfg.Systems = system.NewRegistry(panickingSystem{})
	cfg.Eras = []era.Era{{ID: "quiet", Name: "Quiet", SystemModifiers: map[string]float64{"explosive": 0}}}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	// Would panic into the error hook if invoked at all; with modifier 0 it
	// must never be called, so no failure is reported.
	var failures int
	eng.cfg.Hooks.OnActorError = func(phase, actor string, err error) { failures++ }
	eng.simulationPhase()
	if failures != 0 {
		t.Errorf("system with modifier 0 was invoked %d times", failures)
	}
}

func TestForgettingPassDemotesStaleEntities(t *testing.T) {
	cfg := testConfig()
	cfg.Pruning = PruneConfig{ForgetAge: 10, MinDegree: 2, RetireAge: 1000, RetireChance: 0}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	eng.tick = 50

	eng.prune()

	// Seeds were created at tick 0 and are older than ForgetAge; those with
	// degree < 2 must now be forgotten.
	for _, e := range g.Entities {
		if g.Degree(e.ID) < 2 && e.Prominence != graph.ProminenceForgotten {
			t.Errorf("%s should be forgotten (degree %d)", e.Name, g.Degree(e.ID))
		}
	}

	// Monotonic: a second pass cannot raise prominence.
	eng.prune()
	for _, e := range g.Entities {
		if g.Degree(e.ID) < 2 && e.Prominence != graph.ProminenceForgotten {
			t.Errorf("%s prominence rose during pruning", e.Name)
		}
	}
}

func TestRetirementPassKillsAgedNPCs(t *testing.T) {
	cfg := testConfig()
	cfg.Pruning = PruneConfig{ForgetAge: 1 << 30, MinDegree: 2, RetireAge: 10, RetireChance: 1}

	eng, err := New(cfg, testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Graph()
	eng.tick = 50

	eng.prune()

	for _, e := range g.ByKind(graph.KindNPC) {
		if e.Status != graph.StatusDead {
			t.Errorf("npc %s should have retired with chance 1", e.Name)
		}
	}
	// Non-npc entities are untouched by retirement.
	for _, e := range g.ByKind(graph.KindFaction) {
		if e.Status == graph.StatusDead {
			t.Errorf("faction %s was retired", e.Name)
		}
	}
}

func TestSnapshotMetaTracksRunState(t *testing.T) {
	eng, err := New(testConfig(), testSeeds())
	if err != nil {
		t.Fatalf("construction: %v", err)
	}
	g := eng.Run()

	snap := eng.Snapshot()
	if snap.Meta.Tick != eng.Tick() {
		t.Errorf("meta tick %d, engine tick %d", snap.Meta.Tick, eng.Tick())
	}
	if snap.Meta.EntityCount != len(g.Entities) {
		t.Errorf("meta entity count %d, graph has %d", snap.Meta.EntityCount, len(g.Entities))
	}
	if len(snap.History) > graph.DefaultHistoryTail {
		t.Errorf("history tail %d exceeds bound %d", len(snap.History), graph.DefaultHistoryTail)
	}
}
