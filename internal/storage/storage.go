package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/world"
)

// Storage abstracts persistence of game states. The hot path is Redis;
// save files on disk are the durable export format.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations
	SaveGameState(ctx context.Context, id uuid.UUID, gs *world.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*world.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// Save file operations (filesystem-backed)
	ExportSave(ctx context.Context, name string, gs *world.GameState) error
	ImportSave(ctx context.Context, name string) (*world.GameState, error)
	ListSaves(ctx context.Context) ([]string, error)
}
