package etl

import (
	"context"

	"github.com/BartekS5/soundope-import/pkg/models"
)

// Store is the target the pipeline writes into. Every Upsert is keyed by the
// entity id and replaces all mutable fields of an existing row.
// CreatePlaceholderUser must be a no-op when the user already exists.
type Store interface {
	UserExists(ctx context.Context, id string) (bool, error)
	CreatePlaceholderUser(ctx context.Context, u models.User) error
	UpsertUser(ctx context.Context, u models.User) error
	UpsertTrack(ctx context.Context, t models.Track) error
	UpsertComment(ctx context.Context, c models.Comment) error
	UpsertFeedback(ctx context.Context, f models.Feedback) error
	Close() error
}
