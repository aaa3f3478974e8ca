package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeRollResolved     EventType = "roll.resolved"
	EventTypeCharacterUpdated EventType = "character.updated"
	EventTypeCharacterDeleted EventType = "character.deleted"
)

// Event represents a generic event structure
type Event struct {
	Type        EventType      `json:"type"`
	RequestID   string         `json:"request_id,omitempty"`
	CharacterID string         `json:"character_id,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying a character's events.
func Channel(characterID uuid.UUID) string {
	return fmt.Sprintf("character-events:%s", characterID.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishRollResolved publishes a roll.resolved event carrying the result
// and its rendered chat card.
func (b *Broadcaster) PublishRollResolved(ctx context.Context, requestID string, res *roll.Result, chat string) error {
	event := Event{
		Type:        EventTypeRollResolved,
		RequestID:   requestID,
		CharacterID: res.CharacterID.String(),
		Data: map[string]any{
			"result": res,
			"chat":   chat,
		},
	}
	return b.publishToCharacter(ctx, res.CharacterID, event)
}

// PublishCharacterUpdated publishes a character.updated event
func (b *Broadcaster) PublishCharacterUpdated(ctx context.Context, requestID string, characterID uuid.UUID, name string) error {
	event := Event{
		Type:        EventTypeCharacterUpdated,
		RequestID:   requestID,
		CharacterID: characterID.String(),
		Data: map[string]any{
			"name": name,
		},
	}
	return b.publishToCharacter(ctx, characterID, event)
}

// PublishCharacterDeleted publishes a character.deleted event
func (b *Broadcaster) PublishCharacterDeleted(ctx context.Context, requestID string, characterID uuid.UUID) error {
	event := Event{
		Type:        EventTypeCharacterDeleted,
		RequestID:   requestID,
		CharacterID: characterID.String(),
	}
	return b.publishToCharacter(ctx, characterID, event)
}

func (b *Broadcaster) publishToCharacter(ctx context.Context, characterID uuid.UUID, event Event) error {
	channel := Channel(characterID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)

	return nil
}
