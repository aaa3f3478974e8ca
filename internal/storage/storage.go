package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/roll"
)

var ErrTemplateNotFound = errors.New("template not found")

// Storage defines a unified interface for all storage operations
// Characters and roll history live in Redis; pre-made sheets are read from
// the filesystem.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Character operations (Redis-backed)
	// LoadCharacter returns nil, nil when the character does not exist.
	SaveCharacter(ctx context.Context, spec *character.Spec) error
	LoadCharacter(ctx context.Context, id uuid.UUID) (*character.Spec, error)
	DeleteCharacter(ctx context.Context, id uuid.UUID) error
	ListCharacters(ctx context.Context) ([]*character.Spec, error)

	// Roll history (Redis-backed, newest last)
	AppendRoll(ctx context.Context, res *roll.Result) error
	ListRolls(ctx context.Context, characterID uuid.UUID, limit int) ([]*roll.Result, error)
	ClearRolls(ctx context.Context, characterID uuid.UUID) error

	// Template operations (filesystem-backed)
	ListTemplates(ctx context.Context) ([]string, error)
	GetTemplate(ctx context.Context, name string) (*character.Spec, error)
}
