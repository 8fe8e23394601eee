package author

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for authors. The sortColumn
// passed to List must already be validated against the allow-list; an
// empty value means insertion order.
type Repository interface {
	Create(ctx context.Context, a *Author) (*Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)
	List(ctx context.Context, sortColumn string) ([]Author, error)
	Update(ctx context.Context, a *Author) (*Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
