package character

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *Spec {
	spec := NewSpec("Erian Li Halan")
	spec.Race = "Human"
	spec.Rank = "Knight"
	spec.Characteristics[traits.Strength] = 5
	spec.Characteristics[traits.Endurance] = 4
	spec.Characteristics[traits.Perception] = 6
	spec.SpiritPrimary[traits.PairFaithEgo] = traits.Ego
	spec.Skills[traits.Melee] = InnateSkill{Value: 6, Characteristic: traits.Dexterity}
	spec.Items = []item.Item{
		item.NewSkill("Remedy", 4, traits.Tech),
		item.New("Fusion Torch", item.TypeEquipment),
	}
	return spec
}

func TestNewSpec_Defaults(t *testing.T) {
	spec := NewSpec("Cardanzo")

	assert.NotEqual(t, uuid.Nil, spec.ID)
	assert.Len(t, spec.Characteristics, len(traits.AllCharacteristics()))
	assert.Len(t, spec.Skills, len(traits.AllSkills()))
	for _, s := range traits.AllSkills() {
		assert.Equal(t, s.DefaultCharacteristic(), spec.Skills[s].Characteristic)
	}
	assert.NoError(t, spec.Validate())
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Spec)
	}{
		{name: "missing name", mutate: func(s *Spec) { s.Name = "" }},
		{name: "characteristic too low", mutate: func(s *Spec) { s.Characteristics[traits.Wits] = 0 }},
		{name: "characteristic too high", mutate: func(s *Spec) { s.Characteristics[traits.Wits] = 11 }},
		{name: "unknown characteristic", mutate: func(s *Spec) { s.Characteristics["charisma"] = 4 }},
		{name: "bad spirit primary", mutate: func(s *Spec) { s.SpiritPrimary[traits.PairPassionCalm] = traits.Ego }},
		{name: "skill references unknown characteristic", mutate: func(s *Spec) {
			s.Skills[traits.Charm] = InnateSkill{Value: 2, Characteristic: "luck"}
		}},
		{name: "skill value too high", mutate: func(s *Spec) {
			s.Skills[traits.Charm] = InnateSkill{Value: 12, Characteristic: traits.Extrovert}
		}},
		{name: "invalid item", mutate: func(s *Spec) { s.Items = append(s.Items, item.New("", item.TypeWeapon)) }},
		{name: "duplicate item", mutate: func(s *Spec) { s.Items = append(s.Items, s.Items[0]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			require.NoError(t, spec.Validate())
			tt.mutate(spec)
			assert.ErrorIs(t, spec.Validate(), ErrInvalidCharacter)
		})
	}
}

func TestNewCharacterFromSpec(t *testing.T) {
	c, err := NewCharacterFromSpec(testSpec())
	require.NoError(t, err)
	require.NotNil(t, c.Actor)

	v, ok := c.Characteristic(traits.Strength)
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = c.Characteristic(traits.CharacteristicKey("luck"))
	assert.False(t, ok)

	sk, ok := c.InnateSkill(traits.Melee)
	require.True(t, ok)
	assert.Equal(t, 6, sk.Value)
	assert.Equal(t, traits.Dexterity, sk.Characteristic)

	assert.Equal(t, 9, c.Actor.MaxHP(), "vitality is 5 + endurance")
}

func TestNewCharacterFromSpec_Nil(t *testing.T) {
	_, err := NewCharacterFromSpec(nil)
	assert.Error(t, err)
}

func TestCharacter_MissingCharacteristic(t *testing.T) {
	spec := testSpec()
	delete(spec.Characteristics, traits.Calm)

	c, err := NewCharacterFromSpec(spec)
	require.NoError(t, err)

	_, ok := c.Characteristic(traits.Calm)
	assert.False(t, ok)
}

func TestCharacter_LearnedSkill(t *testing.T) {
	spec := testSpec()
	c, err := NewCharacterFromSpec(spec)
	require.NoError(t, err)

	remedy := spec.Items[0]
	got, ok := c.LearnedSkill(remedy.ID)
	require.True(t, ok)
	assert.Equal(t, "Remedy", got.Name)

	_, ok = c.LearnedSkill(spec.Items[1].ID)
	assert.False(t, ok, "equipment is not a skill")

	got, ok = c.LearnedSkillByName("remedy")
	require.True(t, ok)
	assert.Equal(t, remedy.ID, got.ID)
}

func TestCharacter_IsPrimary(t *testing.T) {
	c, err := NewCharacterFromSpec(testSpec())
	require.NoError(t, err)

	assert.True(t, c.IsPrimary(traits.Strength))
	assert.True(t, c.IsPrimary(traits.Extrovert))
	assert.False(t, c.IsPrimary(traits.Introvert))
	assert.True(t, c.IsPrimary(traits.Ego))
	assert.False(t, c.IsPrimary(traits.Faith))
}

func TestCharacter_JSONRoundTrip(t *testing.T) {
	c, err := NewCharacterFromSpec(testSpec())
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 9, raw["vitality"])
	assert.EqualValues(t, 10, raw["defense"])

	var restored Character
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, c.Spec.ID, restored.Spec.ID)
	assert.Equal(t, c.Spec.Name, restored.Spec.Name)
	assert.Equal(t, c.Spec.Characteristics, restored.Spec.Characteristics)
	assert.Equal(t, c.Spec.Skills, restored.Spec.Skills)
	assert.Len(t, restored.Spec.Items, 2)
	require.NotNil(t, restored.Actor)
}

func TestLoad(t *testing.T) {
	spec := testSpec()
	spec.ID = uuid.Nil
	data, err := json.Marshal(spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "erian.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.Spec.ID)
	assert.Equal(t, "Erian Li Halan", c.Spec.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSpec_Clone(t *testing.T) {
	spec := testSpec()
	clone := spec.Clone()
	clone.Characteristics[traits.Strength] = 9
	clone.Items[0].Name = "Changed"

	assert.Equal(t, 5, spec.Characteristics[traits.Strength])
	assert.Equal(t, "Remedy", spec.Items[0].Name)
}
