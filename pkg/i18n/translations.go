package i18n

// french maps English message keys to their French text.
var french = map[string]string{
	// Characteristics
	"Strength":   "Force",
	"Dexterity":  "Dextérité",
	"Endurance":  "Endurance",
	"Wits":       "Astuce",
	"Perception": "Perception",
	"Tech":       "Tech",
	"Extrovert":  "Extraverti",
	"Introvert":  "Introverti",
	"Passion":    "Passion",
	"Calm":       "Calme",
	"Faith":      "Foi",
	"Ego":        "Ego",

	// Groups
	"Body":   "Corps",
	"Mind":   "Intellect",
	"Spirit": "Esprit",

	// Innate skills
	"Charm":   "Charme",
	"Dodge":   "Esquive",
	"Fight":   "Combat",
	"Impress": "Impressionner",
	"Melee":   "Mêlée",
	"Observe": "Observer",
	"Shoot":   "Tir",
	"Sneak":   "Furtivité",
	"Vigor":   "Vigueur",

	// Sheet
	"Natural Skills": "Compétences Naturelles",
	"Vitality":       "Vitalité",
	"Defense":        "Défense",

	// Item types
	"Skill":     "Compétence",
	"Weapon":    "Arme",
	"Armor":     "Armure",
	"Equipment": "Équipement",

	// Outcomes
	"Critical Failure!":  "Échec Critique !",
	"Automatic Failure.": "Échec Automatique.",
	"Automatic Success!": "Succès Automatique !",
	"Critical Success!":  "Succès Critique !",
	"Success.":           "Succès.",
	"Failure.":           "Échec.",

	// Chat card
	msgRollTitle:     "Jet de %s",
	msgGoal:          "Objectif : %d ou moins",
	msgResult:        "Résultat : %d",
	msgVictoryPoints: "%d Point(s) de Victoire",
	msgLabelJoin:     "%s + %s",
	msgModifier:      "Modificateur : %+d",
	msgNotFound:      "Caractéristique %q non trouvée.",
}
