package character

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

const (
	MinCharacteristic     = 1
	MaxCharacteristic     = 10
	DefaultCharacteristic = 3
	DefaultSkill          = 3

	baseVitality    = 5
	baseDefense     = 10
	skillAttrPrefix = "skill."
)

var ErrInvalidCharacter = errors.New("invalid character")

// InnateSkill is a skill stored inline on the sheet, paired with the
// characteristic it is normally rolled with.
type InnateSkill struct {
	Value          int                      `json:"value"`
	Characteristic traits.CharacteristicKey `json:"characteristic"`
}

// Spec is the serializable character sheet
type Spec struct {
	ID              uuid.UUID                                      `json:"id"`
	Name            string                                         `json:"name"`
	Description     string                                         `json:"description,omitempty"`
	Race            string                                         `json:"race,omitempty"`
	Rank            string                                         `json:"rank,omitempty"` // e.g. "Knight", "Novitiate"
	Characteristics map[traits.CharacteristicKey]int               `json:"characteristics"`
	SpiritPrimary   map[traits.SpiritPair]traits.CharacteristicKey `json:"spirit_primary,omitempty"`
	Skills          map[traits.SkillKey]InnateSkill                `json:"skills"`
	Items           []item.Item                                    `json:"items,omitempty"`
	Armor           int                                            `json:"armor,omitempty"`
	CreatedAt       time.Time                                      `json:"created_at"`
	UpdatedAt       time.Time                                      `json:"updated_at"`
}

// NewSpec returns a fresh sheet with every characteristic and innate skill
// at its starting value.
func NewSpec(name string) *Spec {
	now := time.Now()
	spec := &Spec{
		ID:              uuid.New(),
		Name:            name,
		Characteristics: make(map[traits.CharacteristicKey]int),
		SpiritPrimary:   make(map[traits.SpiritPair]traits.CharacteristicKey),
		Skills:          make(map[traits.SkillKey]InnateSkill),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, k := range traits.AllCharacteristics() {
		spec.Characteristics[k] = DefaultCharacteristic
	}
	for _, p := range traits.SpiritPairs() {
		primary, _ := p.Sides()
		spec.SpiritPrimary[p] = primary
	}
	for _, s := range traits.AllSkills() {
		spec.Skills[s] = InnateSkill{Value: DefaultSkill, Characteristic: s.DefaultCharacteristic()}
	}
	return spec
}

// Validate checks the sheet. All problems are reported together.
func (s *Spec) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for k, v := range s.Characteristics {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("unknown characteristic %q", k))
			continue
		}
		if v < MinCharacteristic || v > MaxCharacteristic {
			errs = append(errs, fmt.Errorf("characteristic %s value %d outside %d-%d", k, v, MinCharacteristic, MaxCharacteristic))
		}
	}
	for p, k := range s.SpiritPrimary {
		if !p.Valid() {
			errs = append(errs, fmt.Errorf("unknown spirit pair %q", p))
			continue
		}
		if !p.Contains(k) {
			errs = append(errs, fmt.Errorf("spirit pair %s cannot have %q as primary", p, k))
		}
	}
	for k, sk := range s.Skills {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("unknown innate skill %q", k))
			continue
		}
		if !sk.Characteristic.Valid() {
			errs = append(errs, fmt.Errorf("skill %s references unknown characteristic %q", k, sk.Characteristic))
		}
		if sk.Value < item.MinSkillValue || sk.Value > item.MaxSkillValue {
			errs = append(errs, fmt.Errorf("skill %s value %d outside %d-%d", k, sk.Value, item.MinSkillValue, item.MaxSkillValue))
		}
	}
	seen := make(map[uuid.UUID]bool, len(s.Items))
	for _, it := range s.Items {
		if err := it.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[it.ID] {
			errs = append(errs, fmt.Errorf("duplicate item id %s", it.ID))
		}
		seen[it.ID] = true
	}
	if s.Armor < 0 {
		errs = append(errs, fmt.Errorf("armor %d cannot be negative", s.Armor))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCharacter, errors.Join(errs...))
	}
	return nil
}

// Vitality is 5 plus endurance.
func (s *Spec) Vitality() int {
	return baseVitality + s.Characteristics[traits.Endurance]
}

// attributes flattens characteristics and innate skills into the actor's
// attribute map.
func (s *Spec) attributes() map[string]int {
	attrs := make(map[string]int, len(s.Characteristics)+len(s.Skills))
	for k, v := range s.Characteristics {
		attrs[string(k)] = v
	}
	for k, sk := range s.Skills {
		attrs[skillAttrPrefix+string(k)] = sk.Value
	}
	return attrs
}

// Character is the runtime form of a sheet
type Character struct {
	Spec  *Spec
	Actor *d20.Actor // Built at runtime from Spec
}

// NewCharacterFromSpec builds a Character and its d20.Actor from a sheet.
func NewCharacterFromSpec(spec *Spec) (*Character, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	vitality := spec.Vitality()
	if vitality < 1 {
		vitality = 1
	}

	actor, err := d20.NewActor(spec.ID.String()).
		WithHP(vitality).
		WithAC(baseDefense + spec.Armor).
		WithAttributes(spec.attributes()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	return &Character{Spec: spec, Actor: actor}, nil
}

// Load reads a sheet from a JSON file and builds its Character.
func Load(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character spec: %w", err)
	}
	if spec.ID == uuid.Nil {
		spec.ID = uuid.New()
	}
	return NewCharacterFromSpec(&spec)
}

// Characteristic returns the current value of a characteristic.
func (c *Character) Characteristic(key traits.CharacteristicKey) (int, bool) {
	if !key.Valid() {
		return 0, false
	}
	if c.Actor != nil {
		return c.Actor.Attribute(string(key))
	}
	v, ok := c.Spec.Characteristics[key]
	return v, ok
}

// InnateSkill returns an inline skill with its current value.
func (c *Character) InnateSkill(key traits.SkillKey) (InnateSkill, bool) {
	sk, ok := c.Spec.Skills[key]
	if !ok {
		return InnateSkill{}, false
	}
	if c.Actor != nil {
		if v, ok := c.Actor.Attribute(skillAttrPrefix + string(key)); ok {
			sk.Value = v
		}
	}
	return sk, true
}

// LearnedSkill returns the skill item with the given ID.
func (c *Character) LearnedSkill(id uuid.UUID) (item.Item, bool) {
	it, ok := item.Find(c.Spec.Items, id)
	if !ok || it.Type != item.TypeSkill {
		return item.Item{}, false
	}
	return it, true
}

// LearnedSkillByName finds a skill item by case-insensitive name.
func (c *Character) LearnedSkillByName(name string) (item.Item, bool) {
	for _, it := range c.Spec.Items {
		if it.Type == item.TypeSkill && strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return item.Item{}, false
}

// IsPrimary reports whether k is the primary side of its spirit pair.
// Body and mind characteristics are always primary.
func (c *Character) IsPrimary(k traits.CharacteristicKey) bool {
	p, ok := traits.PairOf(k)
	if !ok {
		return true
	}
	if primary, set := c.Spec.SpiritPrimary[p]; set {
		return primary == k
	}
	def, _ := p.Sides()
	return def == k
}

// MarshalJSON writes the sheet, reading current values from the Actor
func (c *Character) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	if c.Actor == nil {
		return json.Marshal(c.Spec)
	}

	type response struct {
		*Spec
		Vitality    int `json:"vitality"`
		MaxVitality int `json:"max_vitality"`
		Defense     int `json:"defense"`
	}

	out := *c.Spec
	out.Characteristics = make(map[traits.CharacteristicKey]int, len(c.Spec.Characteristics))
	for k := range c.Spec.Characteristics {
		if v, ok := c.Actor.Attribute(string(k)); ok {
			out.Characteristics[k] = v
		}
	}
	out.Skills = make(map[traits.SkillKey]InnateSkill, len(c.Spec.Skills))
	for k := range c.Spec.Skills {
		sk, _ := c.InnateSkill(k)
		out.Skills[k] = sk
	}

	return json.Marshal(response{
		Spec:        &out,
		Vitality:    c.Actor.HP(),
		MaxVitality: c.Actor.MaxHP(),
		Defense:     c.Actor.AC(),
	})
}

// UnmarshalJSON reconstructs a Character from JSON and rebuilds its Actor
func (c *Character) UnmarshalJSON(data []byte) error {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal character spec: %w", err)
	}

	built, err := NewCharacterFromSpec(&spec)
	if err != nil {
		return fmt.Errorf("failed to rebuild character: %w", err)
	}
	*c = *built
	return nil
}

// Clone returns a deep copy of the sheet.
func (s *Spec) Clone() *Spec {
	out := *s
	out.Characteristics = maps.Clone(s.Characteristics)
	out.SpiritPrimary = maps.Clone(s.SpiritPrimary)
	out.Skills = maps.Clone(s.Skills)
	out.Items = append([]item.Item(nil), s.Items...)
	return &out
}
