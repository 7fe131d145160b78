package post

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Post is only touched here when its author deletes their account.
type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"date"`
}

type Repository interface {
	// DeleteByOwner removes every post written by userID and reports how many went.
	DeleteByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
}
