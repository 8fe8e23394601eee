package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the business logic contract for identity management.
type Service interface {
	// Self-service
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateOwnProfile(ctx context.Context, actorID uuid.UUID, req UpdateProfileRequest) (*User, error)

	// Administrative
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
