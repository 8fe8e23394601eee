package author

import (
	"time"

	"github.com/google/uuid"
)

// Author is the catalog entity for a book author.
type Author struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth time.Time  `db:"date_of_birth" json:"date_of_birth"`
	DateOfDeath *time.Time `db:"date_of_death" json:"date_of_death,omitempty"`
	Biography   string     `db:"biography" json:"biography"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName is the display name used in listings.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}
