package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/internal/storage"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

type published struct {
	kind        string
	characterID uuid.UUID
	chat        string
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishRollResolved(ctx context.Context, requestID string, res *roll.Result, chat string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{kind: "roll.resolved", characterID: res.CharacterID, chat: chat})
	return nil
}

func (p *recordingPublisher) PublishCharacterUpdated(ctx context.Context, requestID string, characterID uuid.UUID, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{kind: "character.updated", characterID: characterID})
	return nil
}

func (p *recordingPublisher) PublishCharacterDeleted(ctx context.Context, requestID string, characterID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{kind: "character.deleted", characterID: characterID})
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.kind)
	}
	return out
}

// seed stores a default sheet and returns it.
func seed(t *testing.T, s storage.Storage, name string) *character.Spec {
	t.Helper()
	spec := character.NewSpec(name)
	require.NoError(t, s.SaveCharacter(context.Background(), spec))
	return spec
}

func do(t *testing.T, h http.Handler, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
