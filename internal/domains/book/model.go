package book

import (
	"time"

	"github.com/google/uuid"
)

// Book is the catalog entity for a single physical copy.
type Book struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Edition         string    `db:"edition" json:"edition"`
	UniqueCode      string    `db:"unique_code" json:"unique_code"`
	Genre           string    `db:"genre" json:"genre"`
	PublicationYear int       `db:"publication_year" json:"publication_year"`
	Status          Status    `db:"status" json:"status"`
	AuthorID        uuid.UUID `db:"author_id" json:"author_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Status is the circulation state of a book. It is a closed enum so
// contradictory states like "on loan but available" cannot be stored.
type Status string

const (
	StatusAvailable Status = "available"
	StatusOnLoan    Status = "on_loan"
	StatusRetired   Status = "retired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOnLoan, StatusRetired:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo declares the circulation state machine:
// available -> on_loan via borrow, on_loan -> available via return, and
// available <-> retired for administrative withdrawal. Everything else
// is an override that must go through the audited update path.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusAvailable:
		return next == StatusOnLoan || next == StatusRetired
	case StatusOnLoan:
		return next == StatusAvailable
	case StatusRetired:
		return next == StatusAvailable
	}
	return false
}
