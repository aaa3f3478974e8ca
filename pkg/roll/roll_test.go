package roll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/resolution"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCharacter(t *testing.T) *character.Character {
	t.Helper()
	spec := character.NewSpec("Sanjuk")
	spec.Characteristics[traits.Dexterity] = 5
	spec.Characteristics[traits.Strength] = 6
	spec.Characteristics[traits.Wits] = 2
	spec.SpiritPrimary[traits.PairPassionCalm] = traits.Calm
	spec.Skills[traits.Shoot] = character.InnateSkill{Value: 3, Characteristic: traits.Dexterity}
	spec.Items = []item.Item{
		item.NewSkill("Drive Landcraft", 4, traits.Dexterity),
		item.New("Stunner", item.TypeWeapon),
	}
	c, err := character.NewCharacterFromSpec(spec)
	require.NoError(t, err)
	return c
}

func fixedResolver(rolls ...int) *Resolver {
	r := NewResolver(resolution.NewFixedSource(rolls...))
	r.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestResolve_InnateSkill(t *testing.T) {
	c := testCharacter(t)
	res, err := fixedResolver(8).Resolve(c, Request{Kind: KindInnate, Key: "shoot"})
	require.NoError(t, err)

	assert.Equal(t, c.Spec.ID, res.CharacterID)
	assert.Equal(t, "shoot", res.Skill)
	assert.Equal(t, traits.Dexterity, res.Characteristic)
	assert.Equal(t, 5, res.CharacteristicValue)
	assert.Equal(t, 3, res.SkillValue)
	assert.Equal(t, 8, res.Outcome.TargetNumber)
	assert.Equal(t, resolution.CriticalSuccess, res.Outcome.Classification)
	assert.Equal(t, 4, res.Outcome.VictoryPoints)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), res.RolledAt)
	assert.NotEqual(t, uuid.Nil, res.ID)
}

func TestResolve_CharacteristicOverride(t *testing.T) {
	c := testCharacter(t)
	res, err := fixedResolver(9).Resolve(c, Request{
		Kind:           KindInnate,
		Key:            "shoot",
		Characteristic: "Strength",
		Modifier:       -1,
	})
	require.NoError(t, err)

	assert.Equal(t, traits.Strength, res.Characteristic)
	assert.Equal(t, 8, res.Outcome.TargetNumber)
	assert.Equal(t, resolution.Failure, res.Outcome.Classification)
	assert.Equal(t, 0, res.Outcome.VictoryPoints)
}

func TestResolve_CharacteristicOnly(t *testing.T) {
	c := testCharacter(t)
	res, err := fixedResolver(1).Resolve(c, Request{Kind: KindCharacteristic, Key: "wits", Modifier: -2})
	require.NoError(t, err)

	assert.Empty(t, res.Skill)
	assert.Equal(t, 0, res.SkillValue)
	assert.Equal(t, 0, res.Outcome.TargetNumber)
	assert.Equal(t, resolution.AutomaticSuccess, res.Outcome.Classification)
	assert.Equal(t, 1, res.Outcome.VictoryPoints)
}

func TestResolve_LearnedSkill(t *testing.T) {
	c := testCharacter(t)
	drive := c.Spec.Items[0]

	byID, err := fixedResolver(19).Resolve(c, Request{Kind: KindLearned, ItemID: drive.ID, Modifier: 10})
	require.NoError(t, err)
	assert.Equal(t, "Drive Landcraft", byID.Skill)
	assert.Equal(t, 19, byID.Outcome.TargetNumber)
	assert.Equal(t, resolution.AutomaticFailure, byID.Outcome.Classification)

	byName, err := fixedResolver(6).Resolve(c, Request{Kind: KindLearned, Key: "drive landcraft"})
	require.NoError(t, err)
	assert.Equal(t, resolution.Success, byName.Outcome.Classification)
	assert.Equal(t, 2, byName.Outcome.VictoryPoints)
}

func TestResolve_Errors(t *testing.T) {
	c := testCharacter(t)
	weapon := c.Spec.Items[1]

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "unknown kind", req: Request{Kind: "psi"}, wantErr: ErrInvalidRequest},
		{name: "missing characteristic key", req: Request{Kind: KindCharacteristic}, wantErr: ErrInvalidRequest},
		{name: "unknown characteristic", req: Request{Kind: KindCharacteristic, Key: "luck"}, wantErr: ErrCharacteristicNotFound},
		{name: "unknown override", req: Request{Kind: KindInnate, Key: "shoot", Characteristic: "luck"}, wantErr: ErrCharacteristicNotFound},
		{name: "unknown innate skill", req: Request{Kind: KindInnate, Key: "juggle"}, wantErr: ErrSkillNotFound},
		{name: "unknown item", req: Request{Kind: KindLearned, ItemID: uuid.New()}, wantErr: ErrItemNotFound},
		{name: "item is not a skill", req: Request{Kind: KindLearned, ItemID: weapon.ID}, wantErr: ErrItemNotFound},
		{name: "learned without reference", req: Request{Kind: KindLearned}, wantErr: ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := resolution.NewFixedSource(10)
			_, err := NewResolver(src).Resolve(c, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, src.Calls(), "no die is rolled for a rejected request")
		})
	}
}

func TestResolve_NilCharacter(t *testing.T) {
	_, err := fixedResolver(10).Resolve(nil, Request{Kind: KindCharacteristic, Key: "wits"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolve_MissingCharacteristicOnSheet(t *testing.T) {
	spec := character.NewSpec("Incomplete")
	delete(spec.Characteristics, traits.Dexterity)
	c, err := character.NewCharacterFromSpec(spec)
	require.NoError(t, err)

	_, err = fixedResolver(10).Resolve(c, Request{Kind: KindInnate, Key: "dodge"})
	assert.ErrorIs(t, err, ErrCharacteristicNotFound)

	var nf *CharacteristicNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, traits.Dexterity, nf.Key)
	assert.Equal(t, `characteristic not found: "dexterity"`, err.Error())
}

func TestOptions(t *testing.T) {
	c := testCharacter(t)
	opts := Options(c)
	require.Len(t, opts, len(traits.AllCharacteristics()))

	keys := make([]traits.CharacteristicKey, len(opts))
	for i, o := range opts {
		keys[i] = o.Key
	}
	assert.Equal(t, []traits.CharacteristicKey{
		traits.Strength, traits.Dexterity, traits.Endurance,
		traits.Wits, traits.Perception, traits.Tech,
		traits.Extrovert, traits.Introvert,
		traits.Calm, traits.Passion,
		traits.Faith, traits.Ego,
	}, keys)

	assert.Equal(t, 6, opts[0].Value)
	assert.True(t, opts[8].Primary)
	assert.False(t, opts[9].Primary)
}
