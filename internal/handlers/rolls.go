package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/internal/middleware"
	"github.com/jwebster45206/fading-suns/internal/storage"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"golang.org/x/text/language"
)

// RollResponse is a resolved roll with its localized rendering.
type RollResponse struct {
	Result  *roll.Result `json:"result"`
	Label   string       `json:"label"`
	Outcome string       `json:"outcome"`
	Chat    string       `json:"chat"`
}

type RollsHandler struct {
	log      *slog.Logger
	storage  storage.Storage
	resolver *roll.Resolver
	events   EventPublisher
	locale   language.Tag
}

// NewRollsHandler creates the roll handler. events may be nil.
func NewRollsHandler(log *slog.Logger, storage storage.Storage, resolver *roll.Resolver, events EventPublisher, locale language.Tag) *RollsHandler {
	return &RollsHandler{
		log:      log,
		storage:  storage,
		resolver: resolver,
		events:   events,
		locale:   locale,
	}
}

// ServeHTTP handles roll requests
// Routes:
// POST   /v1/rolls/{characterID}          - Resolve a roll
// GET    /v1/rolls/{characterID}?limit=n  - Roll history, oldest first
// DELETE /v1/rolls/{characterID}          - Clear roll history
func (h *RollsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/rolls"), "/")
	if idStr == "" {
		writeError(w, h.log, http.StatusBadRequest, "Character ID is required in URL path (e.g., /v1/rolls/{characterID})")
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log.Warn("Invalid character ID", "id", idStr, "error", err)
		writeError(w, h.log, http.StatusBadRequest, "Invalid character ID format")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleRoll(w, r, id)
	case http.MethodGet:
		h.handleHistory(w, r, id)
	case http.MethodDelete:
		h.handleClear(w, r, id)
	default:
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *RollsHandler) handleRoll(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req roll.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Invalid roll request", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}

	ch, ok := h.character(w, r, id)
	if !ok {
		return
	}

	res, err := h.resolver.Resolve(ch, req)
	if err != nil {
		var missing *roll.CharacteristicNotFoundError
		switch {
		case errors.As(err, &missing):
			h.log.Info("Roll rejected", "error", err, "character_id", id)
			writeError(w, h.log, http.StatusUnprocessableEntity, localizer(r, h.locale).CharacteristicNotFound(string(missing.Key)))
		case errors.Is(err, roll.ErrSkillNotFound),
			errors.Is(err, roll.ErrItemNotFound):
			h.log.Info("Roll rejected", "error", err, "character_id", id)
			writeError(w, h.log, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, roll.ErrInvalidRequest):
			writeError(w, h.log, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Failed to resolve roll", "error", err, "character_id", id)
			writeError(w, h.log, http.StatusInternalServerError, "Failed to resolve roll")
		}
		return
	}

	if err := h.storage.AppendRoll(r.Context(), res); err != nil {
		h.log.Error("Failed to record roll", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to record roll")
		return
	}

	h.log.Info("Roll resolved",
		"character_id", id,
		"kind", res.Kind,
		"characteristic", res.Characteristic,
		"skill", res.Skill,
		"roll", res.Outcome.Roll,
		"target", res.Outcome.TargetNumber,
		"classification", res.Outcome.Classification)

	resp := render(localizer(r, h.locale), res)
	if h.events != nil {
		if err := h.events.PublishRollResolved(r.Context(), middleware.RequestID(r.Context()), res, resp.Chat); err != nil {
			h.log.Warn("Failed to publish roll", "error", err, "character_id", id)
		}
	}

	writeJSON(w, h.log, http.StatusOK, resp)
}

func (h *RollsHandler) handleHistory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, h.log, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	if _, ok := h.character(w, r, id); !ok {
		return
	}

	results, err := h.storage.ListRolls(r.Context(), id, limit)
	if err != nil {
		h.log.Error("Failed to list rolls", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list rolls")
		return
	}

	l := localizer(r, h.locale)
	out := make([]RollResponse, 0, len(results))
	for _, res := range results {
		out = append(out, render(l, res))
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

func (h *RollsHandler) handleClear(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.ClearRolls(r.Context(), id); err != nil {
		h.log.Error("Failed to clear rolls", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to clear rolls")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RollsHandler) character(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*character.Character, bool) {
	spec, err := h.storage.LoadCharacter(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to load character", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to load character")
		return nil, false
	}
	if spec == nil {
		writeError(w, h.log, http.StatusNotFound, "Character not found")
		return nil, false
	}

	ch, err := character.NewCharacterFromSpec(spec)
	if err != nil {
		h.log.Error("Failed to build character", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to build character")
		return nil, false
	}
	return ch, true
}

func render(l *i18n.Localizer, res *roll.Result) RollResponse {
	return RollResponse{
		Result:  res,
		Label:   l.RollLabel(res),
		Outcome: l.Outcome(res.Outcome.Classification),
		Chat:    l.ChatMessage(res),
	}
}
