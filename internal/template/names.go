package template

import "github.com/talgya/chronica/internal/entropy"

// Flavor word lists for generated entity names. Name generation proper is an
// external collaborator; these lists only keep generated entities readable.
var (
	guildTrades = []string{"Salt", "Amber", "Iron", "Silk", "Grain", "Tide"}
	npcGiven    = []string{"Adren", "Bryga", "Corvik", "Delia", "Ewart", "Fenna", "Garrick", "Hesta", "Ivo", "Jessa"}
	npcFamily   = []string{"Ashdown", "Blackmere", "Coldwell", "Draven", "Ellsworth", "Fairwind", "Grimsby", "Holt"}
	placeForms  = []string{"Hollow", "Reach", "Crossing", "Watch", "Landing", "Rest"}
	cultEpithet = []string{"Veiled", "Silent", "Ashen", "Radiant", "Hollow"}
	relicForms  = []string{"Blade", "Crown", "Lantern", "Codex", "Ring"}
)

func pick(rng *entropy.Source, list []string) string {
	return list[rng.Index(len(list))]
}

func npcName(rng *entropy.Source) string {
	return pick(rng, npcGiven) + " " + pick(rng, npcFamily)
}
