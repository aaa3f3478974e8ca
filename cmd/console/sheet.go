package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

// sheetRow is one line of the sheet panel. Header rows have no request.
type sheetRow struct {
	header  string
	label   string
	detail  string
	value   int
	primary bool
	req     roll.Request
}

func (r sheetRow) selectable() bool {
	return r.header == ""
}

// buildRows lays the sheet out the way it is printed: characteristics by
// group, then innate skills, then learned skills.
func buildRows(ch *character.Character, l *i18n.Localizer) []sheetRow {
	var rows []sheetRow

	var group traits.Group
	for _, opt := range roll.Options(ch) {
		if opt.Group != group {
			group = opt.Group
			rows = append(rows, sheetRow{header: l.Group(group)})
		}
		rows = append(rows, sheetRow{
			label:   l.Characteristic(opt.Key),
			value:   opt.Value,
			primary: opt.Primary,
			req:     roll.Request{Kind: roll.KindCharacteristic, Key: string(opt.Key)},
		})
	}

	var innate []sheetRow
	for _, key := range traits.AllSkills() {
		sk, ok := ch.InnateSkill(key)
		if !ok {
			continue
		}
		innate = append(innate, sheetRow{
			label:   l.Skill(key),
			detail:  l.Characteristic(sk.Characteristic),
			value:   sk.Value,
			primary: true,
			req:     roll.Request{Kind: roll.KindInnate, Key: string(key)},
		})
	}
	if len(innate) > 0 {
		rows = append(rows, sheetRow{header: l.Label("natural_skills")})
		rows = append(rows, innate...)
	}

	for _, cat := range item.Categorize(ch.Spec.Items) {
		if cat.Type != item.TypeSkill {
			continue
		}
		rows = append(rows, sheetRow{header: l.ItemType(item.TypeSkill)})
		for _, it := range cat.Items {
			rows = append(rows, sheetRow{
				label:   it.Name,
				detail:  l.Characteristic(it.Characteristic),
				value:   it.Value,
				primary: true,
				req:     roll.Request{Kind: roll.KindLearned, ItemID: it.ID},
			})
		}
	}

	return rows
}

// firstSelectable returns the index of the first row that can be rolled,
// or -1.
func firstSelectable(rows []sheetRow) int {
	return nextSelectable(rows, -1, 1)
}

// nextSelectable moves from i in direction dir, skipping headers. It stays
// put at either end.
func nextSelectable(rows []sheetRow, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(rows); j += dir {
		if rows[j].selectable() {
			return j
		}
	}
	if i >= 0 && i < len(rows) {
		return i
	}
	return -1
}

// parseModifier reads the modifier typed in the roll dialog. Empty means 0;
// a leading "+" is allowed.
func parseModifier(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("modifier must be a whole number, got %q", s)
	}
	return n, nil
}
