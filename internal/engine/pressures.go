// End-of-epoch pressure dynamics.
package engine

import "github.com/talgya/chronica/internal/pressure"

// updatePressures recomputes every configured pressure: growth from current
// graph state, directional decay toward the midpoint, era modifier, plus an
// optional slow drift component, clamped to [0,100]. Iteration follows the
// configured definition order, so the RNG stream stays reproducible.
func (e *Engine) updatePressures() {
	for i, def := range e.cfg.Pressures {
		current := e.graph.Pressures[def.Name]
		growth := def.Growth(e.graph)
		modifier := e.era.PressureModifier(def.Name)

		next := pressure.Next(current, growth, def.Decay, modifier)
		if e.cfg.DriftAmplitude > 0 {
			next += e.drift.At(e.epoch, i) * e.cfg.DriftAmplitude
		}
		e.graph.SetPressure(def.Name, next)
	}
}
