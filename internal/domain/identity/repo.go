package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the storage contract for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, role, orderBy string, limit, offset int) ([]*User, int, error)
}
