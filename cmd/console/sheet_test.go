package main

import (
	"testing"

	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func testCharacter(t *testing.T) *character.Character {
	t.Helper()
	spec := character.NewSpec("Alustro")
	spec.Items = []item.Item{
		item.NewSkill("Theology", 4, traits.Wits),
		item.New("Flux Sword", item.TypeWeapon),
	}
	ch, err := character.NewCharacterFromSpec(spec)
	require.NoError(t, err)
	return ch
}

func TestBuildRows(t *testing.T) {
	ch := testCharacter(t)
	rows := buildRows(ch, i18n.New(language.English))

	var headers []string
	for _, r := range rows {
		if !r.selectable() {
			headers = append(headers, r.header)
		}
	}
	assert.Equal(t, []string{"Body", "Mind", "Spirit", "Natural Skills", "Skill"}, headers)

	// 12 characteristics, every innate skill, one learned skill
	want := len(headers) + len(traits.AllCharacteristics()) + len(traits.AllSkills()) + 1
	assert.Len(t, rows, want)

	first := rows[1]
	assert.Equal(t, "Strength", first.label)
	assert.Equal(t, 3, first.value)
	assert.Equal(t, roll.KindCharacteristic, first.req.Kind)
	assert.Equal(t, "strength", first.req.Key)

	last := rows[len(rows)-1]
	assert.Equal(t, "Theology", last.label)
	assert.Equal(t, "Wits", last.detail)
	assert.Equal(t, 4, last.value)
	assert.Equal(t, roll.KindLearned, last.req.Kind)
	assert.Equal(t, ch.Spec.Items[0].ID, last.req.ItemID)

	var secondary int
	for _, r := range rows {
		if r.selectable() && !r.primary {
			secondary++
		}
	}
	assert.Equal(t, len(traits.SpiritPairs()), secondary, "one secondary side per spirit pair")
}

func TestBuildRows_French(t *testing.T) {
	rows := buildRows(testCharacter(t), i18n.New(language.French))
	assert.Equal(t, "Corps", rows[0].header)
	assert.Equal(t, "Force", rows[1].label)
}

func TestNextSelectable(t *testing.T) {
	rows := []sheetRow{
		{header: "Body"},
		{label: "Strength"},
		{label: "Dexterity"},
		{header: "Mind"},
		{label: "Wits"},
	}

	tests := []struct {
		name string
		from int
		dir  int
		want int
	}{
		{"first from nothing", -1, 1, 1},
		{"down", 1, 1, 2},
		{"skips header", 2, 1, 4},
		{"up skips header", 4, -1, 2},
		{"stays at bottom", 4, 1, 4},
		{"stays at top", 1, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextSelectable(rows, tt.from, tt.dir))
		})
	}

	assert.Equal(t, 1, firstSelectable(rows))
	assert.Equal(t, -1, firstSelectable([]sheetRow{{header: "Only"}}))
	assert.Equal(t, -1, firstSelectable(nil))
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"2", 2, false},
		{"+3", 3, false},
		{"-4", -4, false},
		{" 5 ", 5, false},
		{"abc", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseModifier(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
