package item

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "learned skill", item: NewSkill("Xeno-Empathy", 4, traits.Passion)},
		{name: "weapon", item: Item{ID: uuid.New(), Name: "Blaster", Type: TypeWeapon, Damage: "6"}},
		{name: "missing name", item: New(" ", TypeEquipment), wantErr: true},
		{name: "unknown type", item: New("Relic", Type("artifact")), wantErr: true},
		{name: "skill without characteristic", item: New("Lore", TypeSkill), wantErr: true},
		{name: "skill above range", item: NewSkill("Lore", 11, traits.Wits), wantErr: true},
		{name: "negative armor", item: Item{Name: "Synthsilk", Type: TypeArmor, Armor: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidItem)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCategorize(t *testing.T) {
	items := []Item{
		New("medpac", TypeEquipment),
		NewSkill("Stoic Body", 2, traits.Endurance),
		{ID: uuid.New(), Name: "Dueling Sword", Type: TypeWeapon},
		NewSkill("academia", 3, traits.Wits),
		{ID: uuid.New(), Name: "Bogus", Type: Type("relic")},
		New("Flask", TypeEquipment),
	}

	got := Categorize(items)
	require.Len(t, got, 3)

	assert.Equal(t, TypeSkill, got[0].Type)
	assert.Equal(t, "academia", got[0].Items[0].Name)
	assert.Equal(t, "Stoic Body", got[0].Items[1].Name)

	assert.Equal(t, TypeWeapon, got[1].Type)

	assert.Equal(t, TypeEquipment, got[2].Type)
	assert.Equal(t, "Flask", got[2].Items[0].Name)
	assert.Equal(t, "medpac", got[2].Items[1].Name)
}

func TestCategorize_Empty(t *testing.T) {
	assert.Empty(t, Categorize(nil))
}

func TestFindAndRemove(t *testing.T) {
	a := New("a", TypeEquipment)
	b := New("b", TypeEquipment)
	items := []Item{a, b}

	found, ok := Find(items, b.ID)
	require.True(t, ok)
	assert.Equal(t, "b", found.Name)

	rest, ok := Remove(items, a.ID)
	require.True(t, ok)
	assert.Equal(t, []Item{b}, rest)
	assert.Len(t, items, 2, "original slice must be untouched")

	_, ok = Remove(items, uuid.New())
	assert.False(t, ok)
}
