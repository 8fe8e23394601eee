package loan

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/user"
)

// Service is the business logic contract for circulation.
type Service interface {
	// Borrow opens a loan for the acting user on the given book.
	Borrow(ctx context.Context, actorID, bookID uuid.UUID) (*Loan, error)

	// Return closes a loan. Readers may only return their own loans;
	// librarians and admins may return any.
	Return(ctx context.Context, actorID uuid.UUID, actorRole user.Role, loanID uuid.UUID) (*Loan, error)

	ListByUser(ctx context.Context, userID uuid.UUID, filter LoanFilter) ([]Loan, error)

	// List and the entry operations are the librarian record-keeping
	// surface over the raw history table.
	List(ctx context.Context, filter LoanFilter) ([]Loan, error)
	Create(ctx context.Context, actorID uuid.UUID, req CreateLoanRequest) (*Loan, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req UpdateLoanRequest) (*Loan, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}
