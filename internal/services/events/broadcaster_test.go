package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/resolution"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/jwebster45206/fading-suns/pkg/traits"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Broadcaster, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBroadcaster(client, logger), client
}

func subscribe(t *testing.T, client *redis.Client, id uuid.UUID) <-chan *redis.Message {
	t.Helper()
	ctx := context.Background()
	sub := client.Subscribe(ctx, Channel(id))
	t.Cleanup(func() { _ = sub.Close() })

	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub.Channel()
}

func receive(t *testing.T, ch <-chan *redis.Message) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("6f1b6c3e-7d0e-4a35-9d43-2f7f3b0b7d11")
	assert.Equal(t, "character-events:6f1b6c3e-7d0e-4a35-9d43-2f7f3b0b7d11", Channel(id))
}

func TestBroadcaster_PublishRollResolved(t *testing.T) {
	b, client := setup(t)
	id := uuid.New()
	ch := subscribe(t, client, id)

	res := &roll.Result{
		ID:                  uuid.New(),
		CharacterID:         id,
		CharacterName:       "Erian Li Halan",
		Kind:                roll.KindInnate,
		Skill:               string(traits.Shoot),
		Characteristic:      traits.Dexterity,
		CharacteristicValue: 5,
		SkillValue:          3,
		Outcome:             resolution.Evaluate(5, 3, 0, 8),
	}
	require.NoError(t, b.PublishRollResolved(context.Background(), "req-1", res, "Roll: Dexterity + Shoot"))

	event := receive(t, ch)
	assert.Equal(t, EventTypeRollResolved, event.Type)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, id.String(), event.CharacterID)
	assert.Equal(t, "Roll: Dexterity + Shoot", event.Data["chat"])

	result, ok := event.Data["result"].(map[string]any)
	require.True(t, ok)
	outcome, ok := result["outcome"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "critical_success", outcome["classification"])
}

func TestBroadcaster_CharacterEvents(t *testing.T) {
	b, client := setup(t)
	id := uuid.New()
	ch := subscribe(t, client, id)
	ctx := context.Background()

	require.NoError(t, b.PublishCharacterUpdated(ctx, "", id, "Cardanzo"))
	updated := receive(t, ch)
	assert.Equal(t, EventTypeCharacterUpdated, updated.Type)
	assert.Equal(t, "Cardanzo", updated.Data["name"])

	require.NoError(t, b.PublishCharacterDeleted(ctx, "", id))
	deleted := receive(t, ch)
	assert.Equal(t, EventTypeCharacterDeleted, deleted.Type)
	assert.Empty(t, deleted.Data)
}

func TestBroadcaster_PublishFailsWhenRedisIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	mr.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	b := NewBroadcaster(client, logger)
	assert.Error(t, b.PublishCharacterDeleted(context.Background(), "", uuid.New()))
}
