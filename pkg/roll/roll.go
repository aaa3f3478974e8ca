// Package roll turns a roll request made from a character sheet into a
// resolved check: it looks up the characteristic and skill values on the
// character and hands them to the resolution engine.
package roll

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/resolution"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

// Kind is where the skill half of a roll comes from.
type Kind string

const (
	KindCharacteristic Kind = "characteristic" // bare characteristic, skill 0
	KindInnate         Kind = "innate"
	KindLearned        Kind = "learned"
)

var (
	ErrInvalidRequest         = errors.New("invalid roll request")
	ErrCharacteristicNotFound = errors.New("characteristic not found")
	ErrSkillNotFound          = errors.New("skill not found")
	ErrItemNotFound           = errors.New("skill item not found")
)

// CharacteristicNotFoundError names the characteristic a roll could not
// find on the sheet. It matches ErrCharacteristicNotFound with errors.Is.
type CharacteristicNotFoundError struct {
	Key traits.CharacteristicKey
}

func (e *CharacteristicNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrCharacteristicNotFound, e.Key)
}

func (e *CharacteristicNotFoundError) Unwrap() error {
	return ErrCharacteristicNotFound
}

// Request describes a roll made from a sheet.
type Request struct {
	Kind Kind `json:"kind"`

	// Key is the characteristic for KindCharacteristic, the innate skill for
	// KindInnate, and optionally the skill name for KindLearned.
	Key    string    `json:"key,omitempty"`
	ItemID uuid.UUID `json:"item_id,omitempty"`

	// Characteristic replaces the skill's paired characteristic when set.
	Characteristic string `json:"characteristic,omitempty"`
	Modifier       int    `json:"modifier,omitempty"`
}

// Result is a resolved roll together with what went into it.
type Result struct {
	ID                  uuid.UUID                `json:"id"`
	CharacterID         uuid.UUID                `json:"character_id"`
	CharacterName       string                   `json:"character_name"`
	Kind                Kind                     `json:"kind"`
	Skill               string                   `json:"skill,omitempty"`
	Characteristic      traits.CharacteristicKey `json:"characteristic"`
	CharacteristicValue int                      `json:"characteristic_value"`
	SkillValue          int                      `json:"skill_value"`
	Modifier            int                      `json:"modifier"`
	Outcome             resolution.Outcome       `json:"outcome"`
	RolledAt            time.Time                `json:"rolled_at"`
}

// Resolver resolves roll requests against characters.
type Resolver struct {
	src resolution.Source
	now func() time.Time
}

// NewResolver creates a Resolver. A nil source means the global random
// generator.
func NewResolver(src resolution.Source) *Resolver {
	if src == nil {
		src = resolution.RandomSource()
	}
	return &Resolver{
		src: src,
		now: time.Now,
	}
}

// Resolve looks up the values named by req on ch and rolls.
func (r *Resolver) Resolve(ch *character.Character, req Request) (*Result, error) {
	if ch == nil || ch.Spec == nil {
		return nil, fmt.Errorf("%w: character is required", ErrInvalidRequest)
	}

	in, err := prepare(ch, req)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:                  uuid.New(),
		CharacterID:         ch.Spec.ID,
		CharacterName:       ch.Spec.Name,
		Kind:                req.Kind,
		Skill:               in.skill,
		Characteristic:      in.characteristic,
		CharacteristicValue: in.characteristicValue,
		SkillValue:          in.skillValue,
		Modifier:            req.Modifier,
		Outcome:             resolution.Resolve(r.src, in.characteristicValue, in.skillValue, req.Modifier),
		RolledAt:            r.now().UTC(),
	}, nil
}

type inputs struct {
	skill               string
	skillValue          int
	characteristic      traits.CharacteristicKey
	characteristicValue int
}

func prepare(ch *character.Character, req Request) (inputs, error) {
	var in inputs
	var paired traits.CharacteristicKey

	switch req.Kind {
	case KindCharacteristic:
		paired = traits.CharacteristicKey(strings.ToLower(strings.TrimSpace(req.Key)))
		if paired == "" {
			return in, fmt.Errorf("%w: characteristic key is required", ErrInvalidRequest)
		}

	case KindInnate:
		key, err := traits.ParseSkillKey(req.Key)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrSkillNotFound, err)
		}
		sk, ok := ch.InnateSkill(key)
		if !ok {
			return in, fmt.Errorf("%w: %q", ErrSkillNotFound, req.Key)
		}
		in.skill = string(key)
		in.skillValue = sk.Value
		paired = sk.Characteristic

	case KindLearned:
		it, err := findLearned(ch, req)
		if err != nil {
			return in, err
		}
		in.skill = it.name
		in.skillValue = it.value
		paired = it.characteristic

	default:
		return in, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}

	if override := strings.TrimSpace(req.Characteristic); override != "" {
		paired = traits.CharacteristicKey(strings.ToLower(override))
	}

	value, ok := ch.Characteristic(paired)
	if !ok {
		return in, &CharacteristicNotFoundError{Key: paired}
	}
	in.characteristic = paired
	in.characteristicValue = value
	return in, nil
}

type learned struct {
	name           string
	value          int
	characteristic traits.CharacteristicKey
}

func findLearned(ch *character.Character, req Request) (learned, error) {
	if req.ItemID != uuid.Nil {
		it, ok := ch.LearnedSkill(req.ItemID)
		if !ok {
			return learned{}, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemID)
		}
		return learned{name: it.Name, value: it.Value, characteristic: it.Characteristic}, nil
	}
	if strings.TrimSpace(req.Key) == "" {
		return learned{}, fmt.Errorf("%w: item_id or key is required for a learned skill", ErrInvalidRequest)
	}
	it, ok := ch.LearnedSkillByName(req.Key)
	if !ok {
		return learned{}, fmt.Errorf("%w: %q", ErrItemNotFound, req.Key)
	}
	return learned{name: it.Name, value: it.Value, characteristic: it.Characteristic}, nil
}

// Option is one entry of the characteristic override choice.
type Option struct {
	Key     traits.CharacteristicKey `json:"key"`
	Group   traits.Group             `json:"group"`
	Value   int                      `json:"value"`
	Primary bool                     `json:"primary"`
}

// Options lists the characteristics a roll can be made with, in sheet
// order with the primary side of each spirit pair first. Characteristics
// missing from the sheet are skipped.
func Options(ch *character.Character) []Option {
	var opts []Option
	add := func(k traits.CharacteristicKey) {
		v, ok := ch.Characteristic(k)
		if !ok {
			return
		}
		opts = append(opts, Option{Key: k, Group: k.Group(), Value: v, Primary: ch.IsPrimary(k)})
	}

	for _, k := range traits.CharacteristicsIn(traits.GroupBody) {
		add(k)
	}
	for _, k := range traits.CharacteristicsIn(traits.GroupMind) {
		add(k)
	}
	for _, p := range traits.SpiritPairs() {
		primary, _ := p.Sides()
		if !ch.IsPrimary(primary) {
			primary, _ = primary.Opposite()
		}
		secondary, _ := primary.Opposite()
		add(primary)
		add(secondary)
	}
	return opts
}
