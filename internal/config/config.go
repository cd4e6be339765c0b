// Package config loads and validates YAML world files: engine settings, era
// definitions, pressure overrides, and the initial entity list.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/era"
	"github.com/talgya/chronica/internal/graph"
	"github.com/talgya/chronica/internal/pressure"
	"github.com/talgya/chronica/internal/system"
	"github.com/talgya/chronica/internal/template"
)

// World is the on-disk configuration for one run.
type World struct {
	Seed           int64          `yaml:"seed"`
	TicksPerEpoch  int            `yaml:"ticks_per_epoch"`
	MaxTicks       uint64         `yaml:"max_ticks"`
	TargetPerKind  int            `yaml:"target_per_kind"`
	Growth         GrowthConfig   `yaml:"growth"`
	MaxRelsPerType int            `yaml:"max_rels_per_type"`
	Drift          float64        `yaml:"drift"`
	Pruning        PruningConfig  `yaml:"pruning"`
	Pressures      []PressureRef  `yaml:"pressures"`
	Eras           []EraConfig    `yaml:"eras"`
	Entities       []EntityConfig `yaml:"entities"`
}

// GrowthConfig bounds the per-epoch growth target.
type GrowthConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// PruningConfig overrides the pruning thresholds. Zero values fall back to
// the defaults.
type PruningConfig struct {
	ForgetAge    uint64  `yaml:"forget_age"`
	MinDegree    int     `yaml:"min_degree"`
	RetireAge    uint64  `yaml:"retire_age"`
	RetireChance float64 `yaml:"retire_chance"`
}

// PressureRef selects a built-in pressure, optionally overriding its decay.
type PressureRef struct {
	Name  string   `yaml:"name"`
	Decay *float64 `yaml:"decay"`
}

// EraConfig is one era definition.
type EraConfig struct {
	ID                string             `yaml:"id"`
	Name              string             `yaml:"name"`
	TemplateWeights   map[string]float64 `yaml:"template_weights"`
	SystemModifiers   map[string]float64 `yaml:"system_modifiers"`
	PressureModifiers map[string]float64 `yaml:"pressure_modifiers"`
	Special           string             `yaml:"special"`
}

// EntityConfig is one seed entity.
type EntityConfig struct {
	ID          uint64       `yaml:"id"`
	Kind        string       `yaml:"kind"`
	Subtype     string       `yaml:"subtype"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Status      string       `yaml:"status"`
	Prominence  string       `yaml:"prominence"`
	Tags        []string     `yaml:"tags"`
	Links       []LinkConfig `yaml:"links"`
}

// LinkConfig is a one-time seed link, by target name or numeric id.
type LinkConfig struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
}

// Load reads and validates a world file.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading world config: %w", err)
	}

	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("loading world config: %w", err)
	}

	if err := validateWorld(&w); err != nil {
		return nil, fmt.Errorf("loading world config: %w", err)
	}

	return &w, nil
}

func validateWorld(w *World) error {
	if len(w.Eras) == 0 {
		return fmt.Errorf("at least one era is required")
	}
	seenEras := make(map[string]struct{})
	for i, e := range w.Eras {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("era %d id is required", i)
		}
		if _, dup := seenEras[e.ID]; dup {
			return fmt.Errorf("duplicate era id: %s", e.ID)
		}
		seenEras[e.ID] = struct{}{}
		if e.Special != "" && !era.KnownSpecial(e.Special) {
			return fmt.Errorf("era %s references unknown special rule %q", e.ID, e.Special)
		}
	}
	for i, p := range w.Pressures {
		if _, ok := pressure.ByName(p.Name); !ok {
			return fmt.Errorf("pressure %d references unknown definition %q", i, p.Name)
		}
	}
	for i, e := range w.Entities {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("entity %d name is required", i)
		}
		if !graph.ValidKind(e.Kind) {
			return fmt.Errorf("entity %q has unknown kind %q", e.Name, e.Kind)
		}
		if e.Prominence != "" {
			if _, err := graph.ParseProminence(e.Prominence); err != nil {
				return fmt.Errorf("entity %q: %w", e.Name, err)
			}
		}
	}
	return nil
}

// Build assembles the engine configuration and seed entities from a world
// file, using the built-in template, system, and pressure registries.
// Numeric bounds are validated again (and more strictly) by engine.New.
func (w *World) Build() (engine.Config, []engine.SeedEntity, error) {
	eras := make([]era.Era, len(w.Eras))
	for i, e := range w.Eras {
		eras[i] = era.Era{
			ID:                e.ID,
			Name:              e.Name,
			TemplateWeights:   e.TemplateWeights,
			SystemModifiers:   e.SystemModifiers,
			PressureModifiers: e.PressureModifiers,
			Special:           e.Special,
		}
	}

	defs := pressure.Builtins()
	if len(w.Pressures) > 0 {
		defs = defs[:0]
		for _, ref := range w.Pressures {
			def, _ := pressure.ByName(ref.Name)
			if ref.Decay != nil {
				def.Decay = *ref.Decay
			}
			defs = append(defs, def)
		}
	}

	pruning := engine.DefaultPruning()
	if w.Pruning.ForgetAge > 0 {
		pruning.ForgetAge = w.Pruning.ForgetAge
	}
	if w.Pruning.MinDegree > 0 {
		pruning.MinDegree = w.Pruning.MinDegree
	}
	if w.Pruning.RetireAge > 0 {
		pruning.RetireAge = w.Pruning.RetireAge
	}
	if w.Pruning.RetireChance > 0 {
		pruning.RetireChance = w.Pruning.RetireChance
	}

	growth := w.Growth
	if growth.Min == 0 && growth.Max == 0 {
		growth = GrowthConfig{Min: 5, Max: 15}
	}

	seeds := make([]engine.SeedEntity, len(w.Entities))
	for i, e := range w.Entities {
		prominence := graph.ProminenceMarginal
		if e.Prominence != "" {
			prominence, _ = graph.ParseProminence(e.Prominence)
		}
		links := make([]engine.SeedLink, len(e.Links))
		for j, l := range e.Links {
			links[j] = engine.SeedLink{Kind: l.Kind, Target: l.Target}
		}
		seeds[i] = engine.SeedEntity{
			ID:          graph.EntityID(e.ID),
			Kind:        e.Kind,
			Subtype:     e.Subtype,
			Name:        e.Name,
			Description: e.Description,
			Status:      e.Status,
			Prominence:  prominence,
			Tags:        e.Tags,
			Links:       links,
		}
	}

	cfg := engine.Config{
		Seed:           w.Seed,
		Eras:           eras,
		Templates:      template.Builtins(),
		Systems:        system.Builtins(),
		Pressures:      defs,
		TicksPerEpoch:  w.TicksPerEpoch,
		MaxTicks:       w.MaxTicks,
		TargetPerKind:  w.TargetPerKind,
		GrowthMin:      growth.Min,
		GrowthMax:      growth.Max,
		MaxRelsPerType: w.MaxRelsPerType,
		DriftAmplitude: w.Drift,
		Pruning:        pruning,
	}
	return cfg, seeds, nil
}
