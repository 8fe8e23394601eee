package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity mapped 1:1 to the users table.
type User struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`

	PasswordHash string `db:"password_hash" json:"-"` // never exposed

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`

	Role     Role `db:"role" json:"role"`
	IsActive bool `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Role is the access tier of a user.
type Role string

const (
	RoleReader    Role = "reader"    // may browse and borrow
	RoleLibrarian Role = "librarian" // manages the catalog and loan history
	RoleAdmin     Role = "admin"     // manages user accounts
)

func AllRoles() []Role {
	return []Role{RoleReader, RoleLibrarian, RoleAdmin}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleReader, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// HasPermission checks role access by hierarchy: admin > librarian > reader.
func (r Role) HasPermission(requiredRole Role) bool {
	hierarchy := map[Role]int{
		RoleReader:    1,
		RoleLibrarian: 2,
		RoleAdmin:     3,
	}
	return hierarchy[r] >= hierarchy[requiredRole] && hierarchy[requiredRole] > 0
}
