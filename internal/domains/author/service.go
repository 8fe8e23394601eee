package author

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business logic contract for author catalog management.
type Service interface {
	Create(ctx context.Context, req CreateAuthorRequest) (*Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)
	List(ctx context.Context, filter AuthorFilter) ([]Author, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateAuthorRequest) (*Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
