package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the identity record owned by the auth service. Profiles and posts reference it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

type Repository interface {
	Save(ctx context.Context, u *User) error
	// Delete removes the user. A missing row is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
