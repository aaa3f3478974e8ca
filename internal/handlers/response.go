package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"golang.org/x/text/language"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// EventPublisher is the subset of events.Broadcaster the handlers use.
type EventPublisher interface {
	PublishRollResolved(ctx context.Context, requestID string, res *roll.Result, chat string) error
	PublishCharacterUpdated(ctx context.Context, requestID string, characterID uuid.UUID, name string) error
	PublishCharacterDeleted(ctx context.Context, requestID string, characterID uuid.UUID) error
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err, "status", status)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, ErrorResponse{Error: msg})
}

// localizer picks the response language from Accept-Language.
func localizer(r *http.Request, fallback language.Tag) *i18n.Localizer {
	return i18n.New(i18n.Match(r.Header.Get("Accept-Language"), fallback))
}
