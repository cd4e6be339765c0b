package graph

// Common relationship kinds used by the built-in templates and systems.
// The set is open; any string is a valid edge label.
const (
	RelMemberOf   = "member_of"
	RelControls   = "controls"
	RelAtWarWith  = "at_war_with"
	RelAlliedWith = "allied_with"
	RelTradesWith = "trades_with"
	RelSeeks      = "seeks"
	RelCreated    = "created"
	RelPossesses  = "possesses"
	RelRivalOf    = "rival_of"
	RelResidesIn  = "resides_in"
)

// Relationship is a directed typed edge between two entities. Relationships
// are not required to be unique; repeated edges (e.g. repeated seeks) are
// intentional. The Graph owns them as an ordered sequence; insertion order
// is causal order and must be preserved for replay and history rendering.
type Relationship struct {
	Kind string   `json:"kind"`
	Src  EntityID `json:"src"`
	Dst  EntityID `json:"dst"`
}
