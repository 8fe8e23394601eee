package loan

import (
	"time"

	"github.com/google/uuid"
)

// Loan is one circulation record: who took which book and when, plus
// the return date once the book comes back. A nil ReturnDate means the
// loan is still open; at most one open loan can exist per book.
type Loan struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	BookID     uuid.UUID  `db:"book_id" json:"book_id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	LoanDate   time.Time  `db:"loan_date" json:"loan_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

func (l *Loan) IsOpen() bool {
	return l.ReturnDate == nil
}
