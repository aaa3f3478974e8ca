package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/internal/middleware"
	"github.com/jwebster45206/fading-suns/internal/storage"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/item"
	"golang.org/x/text/language"
)

// CreateCharacterRequest creates a character from a template, a full sheet,
// or a default sheet with just a name. Name overrides the template's name.
type CreateCharacterRequest struct {
	Template  string          `json:"template,omitempty"`
	Name      string          `json:"name,omitempty"`
	Character *character.Spec `json:"character,omitempty"`
}

// CharacterSummary is one entry of the character list.
type CharacterSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Race     string    `json:"race,omitempty"`
	Rank     string    `json:"rank,omitempty"`
	Vitality int       `json:"vitality"`
}

// CategoryResponse is one localized group of a character's items.
type CategoryResponse struct {
	Type  item.Type   `json:"type"`
	Label string      `json:"label"`
	Items []item.Item `json:"items"`
}

type CharactersHandler struct {
	log     *slog.Logger
	storage storage.Storage
	events  EventPublisher
	locale  language.Tag
}

// NewCharactersHandler creates the character handler. events may be nil.
func NewCharactersHandler(log *slog.Logger, storage storage.Storage, events EventPublisher, locale language.Tag) *CharactersHandler {
	return &CharactersHandler{
		log:     log,
		storage: storage,
		events:  events,
		locale:  locale,
	}
}

// ServeHTTP routes character requests
// Routes:
// GET    /v1/characters                         - List characters
// POST   /v1/characters                         - Create a character
// GET    /v1/characters/{id}                    - Read a character
// PUT    /v1/characters/{id}                    - Replace a character sheet
// DELETE /v1/characters/{id}                    - Delete a character and its rolls
// GET    /v1/characters/{id}/items              - Items grouped by type
// POST   /v1/characters/{id}/items              - Add an item
// DELETE /v1/characters/{id}/items/{itemID}     - Remove an item
func (h *CharactersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/characters"), "/")
	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}

	if len(parts) == 0 {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.log.Warn("Invalid character ID", "id", parts[0], "error", err)
		writeError(w, h.log, http.StatusBadRequest, "Invalid character ID format")
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, id)
		case http.MethodPut:
			h.handleReplace(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, PUT, DELETE")
		}

	case len(parts) == 2 && parts[1] == "items":
		switch r.Method {
		case http.MethodGet:
			h.handleListItems(w, r, id)
		case http.MethodPost:
			h.handleAddItem(w, r, id)
		default:
			writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}

	case len(parts) == 3 && parts[1] == "items":
		if r.Method != http.MethodDelete {
			writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed. Only DELETE is supported.")
			return
		}
		itemID, err := uuid.Parse(parts[2])
		if err != nil {
			writeError(w, h.log, http.StatusBadRequest, "Invalid item ID format")
			return
		}
		h.handleRemoveItem(w, r, id, itemID)

	default:
		writeError(w, h.log, http.StatusNotFound, "Not found")
	}
}

func (h *CharactersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	specs, err := h.storage.ListCharacters(r.Context())
	if err != nil {
		h.log.Error("Failed to list characters", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to list characters")
		return
	}

	// Initialize as empty slice instead of nil
	summaries := make([]CharacterSummary, 0, len(specs))
	for _, spec := range specs {
		summaries = append(summaries, CharacterSummary{
			ID:       spec.ID,
			Name:     spec.Name,
			Race:     spec.Race,
			Rank:     spec.Rank,
			Vitality: spec.Vitality(),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})

	writeJSON(w, h.log, http.StatusOK, summaries)
}

func (h *CharactersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Invalid create character request", "error", err)
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}

	var spec *character.Spec
	switch {
	case req.Template != "":
		tmpl, err := h.storage.GetTemplate(r.Context(), req.Template)
		if err != nil {
			if errors.Is(err, storage.ErrTemplateNotFound) {
				writeError(w, h.log, http.StatusNotFound, "Template not found")
				return
			}
			h.log.Error("Failed to load template", "error", err, "template", req.Template)
			writeError(w, h.log, http.StatusInternalServerError, "Failed to load template")
			return
		}
		spec = tmpl
		spec.ID = uuid.New()
		spec.CreatedAt = time.Time{}
		if req.Name != "" {
			spec.Name = req.Name
		}
	case req.Character != nil:
		spec = req.Character
		if spec.ID == uuid.Nil {
			spec.ID = uuid.New()
		}
	case strings.TrimSpace(req.Name) != "":
		spec = character.NewSpec(strings.TrimSpace(req.Name))
	default:
		writeError(w, h.log, http.StatusBadRequest, "One of template, character or name is required")
		return
	}

	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = time.Now()
	}
	for i := range spec.Items {
		if spec.Items[i].ID == uuid.Nil {
			spec.Items[i].ID = uuid.New()
		}
	}

	if err := spec.Validate(); err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.storage.LoadCharacter(r.Context(), spec.ID)
	if err != nil {
		h.log.Error("Failed to check character", "error", err, "character_id", spec.ID)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to create character")
		return
	}
	if existing != nil {
		writeError(w, h.log, http.StatusConflict, "Character already exists")
		return
	}

	h.save(w, r, spec, http.StatusCreated)
}

func (h *CharactersHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	spec, ok := h.load(w, r, id)
	if !ok {
		return
	}
	h.respondCharacter(w, spec, http.StatusOK)
}

func (h *CharactersHandler) handleReplace(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	existing, ok := h.load(w, r, id)
	if !ok {
		return
	}

	var spec character.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.log.Warn("Invalid character body", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	spec.ID = id
	spec.CreatedAt = existing.CreatedAt
	for i := range spec.Items {
		if spec.Items[i].ID == uuid.Nil {
			spec.Items[i].ID = uuid.New()
		}
	}

	if err := spec.Validate(); err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	h.save(w, r, &spec, http.StatusOK)
}

func (h *CharactersHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if _, ok := h.load(w, r, id); !ok {
		return
	}

	if err := h.storage.DeleteCharacter(r.Context(), id); err != nil {
		h.log.Error("Failed to delete character", "error", err, "character_id", id)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to delete character")
		return
	}

	if h.events != nil {
		if err := h.events.PublishCharacterDeleted(r.Context(), middleware.RequestID(r.Context()), id); err != nil {
			h.log.Warn("Failed to publish character deletion", "error", err, "character_id", id)
		}
	}

	h.log.Info("Character deleted", "character_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CharactersHandler) handleListItems(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	spec, ok := h.load(w, r, id)
	if !ok {
		return
	}

	l := localizer(r, h.locale)
	categories := item.Categorize(spec.Items)
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			Type:  c.Type,
			Label: l.ItemType(c.Type),
			Items: c.Items,
		})
	}

	writeJSON(w, h.log, http.StatusOK, out)
}

func (h *CharactersHandler) handleAddItem(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	spec, ok := h.load(w, r, id)
	if !ok {
		return
	}

	var it item.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if err := it.Validate(); err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}
	if _, dup := item.Find(spec.Items, it.ID); dup {
		writeError(w, h.log, http.StatusConflict, "Item already exists")
		return
	}

	spec.Items = append(spec.Items, it)
	if !h.persist(w, r, spec) {
		return
	}
	writeJSON(w, h.log, http.StatusCreated, it)
}

func (h *CharactersHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, id, itemID uuid.UUID) {
	spec, ok := h.load(w, r, id)
	if !ok {
		return
	}

	items, removed := item.Remove(spec.Items, itemID)
	if !removed {
		writeError(w, h.log, http.StatusNotFound, "Item not found")
		return
	}

	spec.Items = items
	if !h.persist(w, r, spec) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load fetches a character, writing a 404 or 500 itself when it can't.
func (h *CharactersHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*character.Spec, bool) {
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
	return spec, true
}

// persist saves the sheet and announces the change.
func (h *CharactersHandler) persist(w http.ResponseWriter, r *http.Request, spec *character.Spec) bool {
	if err := h.storage.SaveCharacter(r.Context(), spec); err != nil {
		h.log.Error("Failed to save character", "error", err, "character_id", spec.ID)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to save character")
		return false
	}

	if h.events != nil {
		if err := h.events.PublishCharacterUpdated(r.Context(), middleware.RequestID(r.Context()), spec.ID, spec.Name); err != nil {
			h.log.Warn("Failed to publish character update", "error", err, "character_id", spec.ID)
		}
	}
	return true
}

func (h *CharactersHandler) save(w http.ResponseWriter, r *http.Request, spec *character.Spec, status int) {
	if !h.persist(w, r, spec) {
		return
	}
	h.log.Info("Character saved", "character_id", spec.ID, "name", spec.Name)
	h.respondCharacter(w, spec, status)
}

func (h *CharactersHandler) respondCharacter(w http.ResponseWriter, spec *character.Spec, status int) {
	ch, err := character.NewCharacterFromSpec(spec)
	if err != nil {
		h.log.Error("Failed to build character", "error", err, "character_id", spec.ID)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to build character")
		return
	}
	writeJSON(w, h.log, status, ch)
}
