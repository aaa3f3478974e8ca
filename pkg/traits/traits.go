// Package traits defines the closed sets of characteristics and innate
// skills of a Fading Suns character.
package traits

import (
	"fmt"
	"strings"
)

// CharacteristicKey identifies one characteristic on a character sheet.
type CharacteristicKey string

const (
	Strength  CharacteristicKey = "strength"
	Dexterity CharacteristicKey = "dexterity"
	Endurance CharacteristicKey = "endurance"

	Wits       CharacteristicKey = "wits"
	Perception CharacteristicKey = "perception"
	Tech       CharacteristicKey = "tech"

	Extrovert CharacteristicKey = "extrovert"
	Introvert CharacteristicKey = "introvert"
	Passion   CharacteristicKey = "passion"
	Calm      CharacteristicKey = "calm"
	Faith     CharacteristicKey = "faith"
	Ego       CharacteristicKey = "ego"
)

// Group is the sheet section a characteristic belongs to.
type Group string

const (
	GroupBody   Group = "body"
	GroupMind   Group = "mind"
	GroupSpirit Group = "spirit"
)

// Groups returns the sheet sections in display order.
func Groups() []Group {
	return []Group{GroupBody, GroupMind, GroupSpirit}
}

var characteristicGroups = map[CharacteristicKey]Group{
	Strength:   GroupBody,
	Dexterity:  GroupBody,
	Endurance:  GroupBody,
	Wits:       GroupMind,
	Perception: GroupMind,
	Tech:       GroupMind,
	Extrovert:  GroupSpirit,
	Introvert:  GroupSpirit,
	Passion:    GroupSpirit,
	Calm:       GroupSpirit,
	Faith:      GroupSpirit,
	Ego:        GroupSpirit,
}

// AllCharacteristics returns every characteristic in sheet order.
func AllCharacteristics() []CharacteristicKey {
	return []CharacteristicKey{
		Strength, Dexterity, Endurance,
		Wits, Perception, Tech,
		Extrovert, Introvert, Passion, Calm, Faith, Ego,
	}
}

// CharacteristicsIn returns the characteristics of one group in sheet order.
func CharacteristicsIn(g Group) []CharacteristicKey {
	var keys []CharacteristicKey
	for _, k := range AllCharacteristics() {
		if characteristicGroups[k] == g {
			keys = append(keys, k)
		}
	}
	return keys
}

// ParseCharacteristicKey normalizes s and checks it against the closed set.
func ParseCharacteristicKey(s string) (CharacteristicKey, error) {
	k := CharacteristicKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown characteristic %q", s)
	}
	return k, nil
}

func (k CharacteristicKey) Valid() bool {
	_, ok := characteristicGroups[k]
	return ok
}

func (k CharacteristicKey) Group() Group {
	return characteristicGroups[k]
}

func (k CharacteristicKey) String() string {
	return string(k)
}

// SpiritPair is one of the three opposed spirit characteristics.
type SpiritPair string

const (
	PairExtrovertIntrovert SpiritPair = "extrovert_introvert"
	PairPassionCalm        SpiritPair = "passion_calm"
	PairFaithEgo           SpiritPair = "faith_ego"
)

var pairSides = map[SpiritPair][2]CharacteristicKey{
	PairExtrovertIntrovert: {Extrovert, Introvert},
	PairPassionCalm:        {Passion, Calm},
	PairFaithEgo:           {Faith, Ego},
}

// SpiritPairs returns the opposed pairs in sheet order.
func SpiritPairs() []SpiritPair {
	return []SpiritPair{PairExtrovertIntrovert, PairPassionCalm, PairFaithEgo}
}

func (p SpiritPair) Valid() bool {
	_, ok := pairSides[p]
	return ok
}

// Sides returns the two characteristics of the pair, default primary first.
func (p SpiritPair) Sides() (CharacteristicKey, CharacteristicKey) {
	s := pairSides[p]
	return s[0], s[1]
}

// Contains reports whether k is one side of the pair.
func (p SpiritPair) Contains(k CharacteristicKey) bool {
	s := pairSides[p]
	return s[0] == k || s[1] == k
}

// PairOf returns the spirit pair containing k.
func PairOf(k CharacteristicKey) (SpiritPair, bool) {
	for p, s := range pairSides {
		if s[0] == k || s[1] == k {
			return p, true
		}
	}
	return "", false
}

// Opposite returns the other side of a spirit characteristic.
func (k CharacteristicKey) Opposite() (CharacteristicKey, bool) {
	p, ok := PairOf(k)
	if !ok {
		return "", false
	}
	a, b := p.Sides()
	if a == k {
		return b, true
	}
	return a, true
}
