package item

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

// Type is the kind of record an item represents on a sheet.
type Type string

const (
	TypeSkill     Type = "skill" // learned skill
	TypeWeapon    Type = "weapon"
	TypeArmor     Type = "armor"
	TypeEquipment Type = "equipment"
)

// Types returns every item type in display order.
func Types() []Type {
	return []Type{TypeSkill, TypeWeapon, TypeArmor, TypeEquipment}
}

func (t Type) Valid() bool {
	switch t {
	case TypeSkill, TypeWeapon, TypeArmor, TypeEquipment:
		return true
	default:
		return false
	}
}

const (
	MinSkillValue = 0
	MaxSkillValue = 10
)

var ErrInvalidItem = errors.New("invalid item")

// Item is a detachable record owned by a character.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Description string    `json:"description,omitempty"`

	// Learned skill fields
	Value          int                      `json:"value,omitempty"`
	Characteristic traits.CharacteristicKey `json:"characteristic,omitempty"`

	Damage   string `json:"damage,omitempty"`   // weapons, e.g. "5"
	Armor    int    `json:"armor,omitempty"`    // armor dice
	Quantity int    `json:"quantity,omitempty"` // equipment
}

// New creates an item with a fresh ID.
func New(name string, typ Type) Item {
	return Item{
		ID:   uuid.New(),
		Name: name,
		Type: typ,
	}
}

// NewSkill creates a learned skill paired with a characteristic.
func NewSkill(name string, value int, characteristic traits.CharacteristicKey) Item {
	it := New(name, TypeSkill)
	it.Value = value
	it.Characteristic = characteristic
	return it
}

// Validate checks the item fields for its type.
func (it Item) Validate() error {
	var errs []error
	if strings.TrimSpace(it.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !it.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown item type %q", it.Type))
	}
	if it.Type == TypeSkill {
		if !it.Characteristic.Valid() {
			errs = append(errs, fmt.Errorf("skill %q references unknown characteristic %q", it.Name, it.Characteristic))
		}
		if it.Value < MinSkillValue || it.Value > MaxSkillValue {
			errs = append(errs, fmt.Errorf("skill %q value %d outside %d-%d", it.Name, it.Value, MinSkillValue, MaxSkillValue))
		}
	}
	if it.Armor < 0 {
		errs = append(errs, fmt.Errorf("armor %d cannot be negative", it.Armor))
	}
	if it.Quantity < 0 {
		errs = append(errs, fmt.Errorf("quantity %d cannot be negative", it.Quantity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItem, errors.Join(errs...))
	}
	return nil
}

// Category is a display group of items of one type.
type Category struct {
	Type  Type   `json:"type"`
	Items []Item `json:"items"`
}

// Categorize groups items by type in display order, sorting each group by
// name. Empty groups and items of unknown type are left out.
func Categorize(items []Item) []Category {
	byType := make(map[Type][]Item)
	for _, it := range items {
		if !it.Type.Valid() {
			continue
		}
		byType[it.Type] = append(byType[it.Type], it)
	}

	categories := make([]Category, 0, len(byType))
	for _, t := range Types() {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return strings.ToLower(group[i].Name) < strings.ToLower(group[j].Name)
		})
		categories = append(categories, Category{Type: t, Items: group})
	}
	return categories
}

// Find returns the item with the given ID.
func Find(items []Item, id uuid.UUID) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Remove returns items without the one with the given ID, and whether it
// was present.
func Remove(items []Item, id uuid.UUID) ([]Item, bool) {
	for i, it := range items {
		if it.ID == id {
			out := make([]Item, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}
