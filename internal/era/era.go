// Package era defines configuration windows that bias which growth templates
// and simulation systems are active, and how strongly.
package era

// Era is immutable configuration selected (never mutated) by epoch number.
// Weight and modifier maps use 0 to disable an actor; names absent from a map
// default to 1 (fully enabled).
type Era struct {
	ID                string
	Name              string
	TemplateWeights   map[string]float64
	SystemModifiers   map[string]float64
	PressureModifiers map[string]float64
	Special           string // Name of a registered special rule, "" = none.
}

// TemplateWeight returns the acceptance probability bias for a template.
func (e Era) TemplateWeight(name string) float64 {
	if w, ok := e.TemplateWeights[name]; ok {
		return w
	}
	return 1
}

// SystemModifier returns the effect magnitude multiplier for a system.
func (e Era) SystemModifier(name string) float64 {
	if m, ok := e.SystemModifiers[name]; ok {
		return m
	}
	return 1
}

// PressureModifier returns the update multiplier for a pressure.
func (e Era) PressureModifier(name string) float64 {
	if m, ok := e.PressureModifiers[name]; ok {
		return m
	}
	return 1
}

// Select maps an epoch index to an era. Indices past the end clamp to the
// last era: reaching the final era repeats it for all subsequent epochs.
// This is deliberate policy, not an off-by-one.
func Select(epoch int, eras []Era) Era {
	if epoch < 0 {
		epoch = 0
	}
	if epoch >= len(eras) {
		epoch = len(eras) - 1
	}
	return eras[epoch]
}
