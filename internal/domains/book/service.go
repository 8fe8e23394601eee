package book

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business logic contract for book catalog management.
// Mutating calls take the acting user's id so overrides can be traced.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateBookRequest) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	List(ctx context.Context, filter BookFilter) ([]Book, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req UpdateBookRequest) (*Book, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}
