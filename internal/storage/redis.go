package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/roll"
	"github.com/redis/go-redis/v9"
)

const (
	characterIndexKey  = "characters"
	defaultHistorySize = 100
)

func characterKey(id uuid.UUID) string {
	return "character:" + id.String()
}

func rollsKey(id uuid.UUID) string {
	return "rolls:" + id.String()
}

// RedisStorage implements the Storage interface using Redis for characters
// and roll history and the filesystem for templates
type RedisStorage struct {
	client       *redis.Client
	logger       *slog.Logger
	dataDir      string
	historyLimit int
	characterTTL time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// Options tunes a RedisStorage.
type Options struct {
	DataDir      string
	HistoryLimit int
	CharacterTTL time.Duration
}

// NewRedisStorage creates a new Redis storage instance. redisURL uses the
// redis:// scheme.
func NewRedisStorage(redisURL string, opts Options, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return NewRedisStorageWithClient(redis.NewClient(opt), opts, logger), nil
}

// NewRedisStorageWithClient wraps an existing client.
func NewRedisStorageWithClient(client *redis.Client, opts Options, logger *slog.Logger) *RedisStorage {
	if opts.DataDir == "" {
		opts.DataDir = "./data"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistorySize
	}

	return &RedisStorage{
		client:       client,
		logger:       logger,
		dataDir:      opts.DataDir,
		historyLimit: opts.HistoryLimit,
		characterTTL: opts.CharacterTTL,
	}
}

// Client returns the underlying Redis client for pub/sub
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Character operations

func (r *RedisStorage) SaveCharacter(ctx context.Context, spec *character.Spec) error {
	if spec == nil {
		return errors.New("character cannot be nil")
	}
	if spec.ID == uuid.Nil {
		return errors.New("character id is required")
	}

	spec.UpdatedAt = time.Now()
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = spec.UpdatedAt
	}

	data, err := json.Marshal(spec)
	if err != nil {
		r.logger.Error("Failed to marshal character", "character_id", spec.ID, "error", err)
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, characterKey(spec.ID), data, r.characterTTL)
		pipe.SAdd(ctx, characterIndexKey, spec.ID.String())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save character", "character_id", spec.ID, "error", err)
		return fmt.Errorf("failed to save character: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadCharacter(ctx context.Context, id uuid.UUID) (*character.Spec, error) {
	data, err := r.client.Get(ctx, characterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Character not found", "character_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load character", "character_id", id, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	var spec character.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		r.logger.Error("Failed to unmarshal character", "character_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}

	return &spec, nil
}

func (r *RedisStorage) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, characterKey(id), rollsKey(id))
		pipe.SRem(ctx, characterIndexKey, id.String())
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete character", "character_id", id, "error", err)
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// ListCharacters returns every indexed character. Index entries whose
// character has expired are pruned.
func (r *RedisStorage) ListCharacters(ctx context.Context) ([]*character.Spec, error) {
	ids, err := r.client.SMembers(ctx, characterIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	specs := make([]*character.Spec, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Invalid character id in index", "id", raw)
			continue
		}

		spec, err := r.LoadCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		if spec == nil {
			_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SRem(ctx, characterIndexKey, raw)
				pipe.Del(ctx, rollsKey(id))
				return nil
			})
			if err != nil {
				r.logger.Warn("Failed to prune character index", "character_id", raw, "error", err)
			}
			continue
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// Roll history

func (r *RedisStorage) AppendRoll(ctx context.Context, res *roll.Result) error {
	if res == nil {
		return errors.New("roll result cannot be nil")
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal roll: %w", err)
	}

	key := rollsKey(res.CharacterID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-r.historyLimit), -1)
		if r.characterTTL > 0 {
			pipe.Expire(ctx, key, r.characterTTL)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to append roll", "character_id", res.CharacterID, "error", err)
		return fmt.Errorf("failed to append roll: %w", err)
	}
	return nil
}

// ListRolls returns up to limit of the most recent rolls, oldest first.
// A limit of zero or less returns the whole history.
func (r *RedisStorage) ListRolls(ctx context.Context, characterID uuid.UUID, limit int) ([]*roll.Result, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	entries, err := r.client.LRange(ctx, rollsKey(characterID), start, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to list rolls: %w", err)
	}

	results := make([]*roll.Result, 0, len(entries))
	for _, entry := range entries {
		var res roll.Result
		if err := json.Unmarshal([]byte(entry), &res); err != nil {
			r.logger.Warn("Skipping unreadable roll", "character_id", characterID, "error", err)
			continue
		}
		results = append(results, &res)
	}
	return results, nil
}

func (r *RedisStorage) ClearRolls(ctx context.Context, characterID uuid.UUID) error {
	if err := r.client.Del(ctx, rollsKey(characterID)).Err(); err != nil {
		return fmt.Errorf("failed to clear rolls: %w", err)
	}
	return nil
}
