package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the storage contract for circulation records. Borrow
// and Return are transactional: they move the book's status and the
// loan row together or not at all.
type Repository interface {
	// Borrow opens a loan for userID on bookID, flipping the book from
	// available to on_loan. Returns ErrBookNotFound if the book does not
	// exist and ErrBookUnavailable if it is in any other status.
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (*Loan, error)

	// Return closes the loan at returnedAt and puts the book back to
	// available. Returns ErrAlreadyReturned if the loan is already closed.
	Return(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (*Loan, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	List(ctx context.Context, sortClause string) ([]Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID, sortClause string) ([]Loan, error)

	// Create, Update and Delete are the manual record-keeping path used
	// by librarians. They keep book statuses in step with the rows they
	// touch: an open row holds its book on_loan, and closing, moving or
	// removing the open row releases it.
	Create(ctx context.Context, l *Loan) (*Loan, error)
	Update(ctx context.Context, l *Loan) (*Loan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
