package traits

import (
	"fmt"
	"strings"
)

// SkillKey identifies an innate ("natural") skill every character has.
type SkillKey string

const (
	Charm   SkillKey = "charm"
	Dodge   SkillKey = "dodge"
	Fight   SkillKey = "fight"
	Impress SkillKey = "impress"
	Melee   SkillKey = "melee"
	Observe SkillKey = "observe"
	Shoot   SkillKey = "shoot"
	Sneak   SkillKey = "sneak"
	Vigor   SkillKey = "vigor"
)

var skillDefaults = map[SkillKey]CharacteristicKey{
	Charm:   Extrovert,
	Dodge:   Dexterity,
	Fight:   Strength,
	Impress: Extrovert,
	Melee:   Strength,
	Observe: Perception,
	Shoot:   Dexterity,
	Sneak:   Dexterity,
	Vigor:   Endurance,
}

// AllSkills returns the innate skills in alphabetical order.
func AllSkills() []SkillKey {
	return []SkillKey{Charm, Dodge, Fight, Impress, Melee, Observe, Shoot, Sneak, Vigor}
}

// ParseSkillKey normalizes s and checks it against the closed set.
func ParseSkillKey(s string) (SkillKey, error) {
	k := SkillKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown innate skill %q", s)
	}
	return k, nil
}

func (k SkillKey) Valid() bool {
	_, ok := skillDefaults[k]
	return ok
}

// DefaultCharacteristic is the characteristic the skill is usually rolled
// with.
func (k SkillKey) DefaultCharacteristic() CharacteristicKey {
	return skillDefaults[k]
}

func (k SkillKey) String() string {
	return string(k)
}
