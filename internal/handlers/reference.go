package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/fading-suns/pkg/item"
	"github.com/jwebster45206/fading-suns/pkg/resolution"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"golang.org/x/text/language"
)

// Entry is a key with its localized label.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type GroupEntry struct {
	Entry
	Characteristics []Entry `json:"characteristics"`
}

type SkillEntry struct {
	Entry
	Characteristic string `json:"characteristic"`
}

// ReferenceResponse lists everything a client needs to build roll dialogs.
type ReferenceResponse struct {
	Language    string       `json:"language"`
	Groups      []GroupEntry `json:"groups"`
	SpiritPairs [][2]string  `json:"spirit_pairs"`
	Skills      []SkillEntry `json:"skills"`
	ItemTypes   []Entry      `json:"item_types"`
	Outcomes    []Entry      `json:"outcomes"`
}

type ReferenceHandler struct {
	log    *slog.Logger
	locale language.Tag
}

func NewReferenceHandler(log *slog.Logger, locale language.Tag) *ReferenceHandler {
	return &ReferenceHandler{log: log, locale: locale}
}

// ServeHTTP handles GET /v1/reference
func (h *ReferenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	l := localizer(r, h.locale)
	resp := ReferenceResponse{Language: l.Tag().String()}

	for _, g := range traits.Groups() {
		ge := GroupEntry{Entry: Entry{Key: string(g), Label: l.Group(g)}}
		for _, k := range traits.CharacteristicsIn(g) {
			ge.Characteristics = append(ge.Characteristics, Entry{Key: string(k), Label: l.Characteristic(k)})
		}
		resp.Groups = append(resp.Groups, ge)
	}
	for _, p := range traits.SpiritPairs() {
		a, b := p.Sides()
		resp.SpiritPairs = append(resp.SpiritPairs, [2]string{string(a), string(b)})
	}
	for _, s := range traits.AllSkills() {
		resp.Skills = append(resp.Skills, SkillEntry{
			Entry:          Entry{Key: string(s), Label: l.Skill(s)},
			Characteristic: string(s.DefaultCharacteristic()),
		})
	}
	for _, t := range item.Types() {
		resp.ItemTypes = append(resp.ItemTypes, Entry{Key: string(t), Label: l.ItemType(t)})
	}
	for _, c := range resolution.Classifications() {
		resp.Outcomes = append(resp.Outcomes, Entry{Key: c.String(), Label: l.Outcome(c)})
	}

	writeJSON(w, h.log, http.StatusOK, resp)
}
