package book

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for books. Circulation status
// flips happen in the loan repository inside its transaction; Update
// here is the administrative path only.
type Repository interface {
	Create(ctx context.Context, b *Book) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	// List returns books, optionally restricted to a status and ordered
	// by sortColumn (already allow-listed; empty means insertion order).
	List(ctx context.Context, status Status, sortColumn string) ([]Book, error)
	Update(ctx context.Context, b *Book) (*Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
