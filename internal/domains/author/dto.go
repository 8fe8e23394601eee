package author

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CreateAuthorRequest - POST /v1/authors. Dates travel as YYYY-MM-DD.
type CreateAuthorRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	DateOfBirth string  `json:"date_of_birth" binding:"required"`
	DateOfDeath *string `json:"date_of_death,omitempty"`
	Biography   string  `json:"biography,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DateOfBirth, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.DateOfDeath, validation.Date(dateLayout)),
		validation.Field(&r.Biography, validation.Length(0, 10000)),
	)
}

// ToEntity parses the request into an Author. Validate must have passed.
func (r CreateAuthorRequest) ToEntity() (*Author, error) {
	born, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return nil, err
	}

	a := &Author{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: born,
		Biography:   r.Biography,
	}

	if r.DateOfDeath != nil && *r.DateOfDeath != "" {
		died, err := time.Parse(dateLayout, *r.DateOfDeath)
		if err != nil {
			return nil, err
		}
		a.DateOfDeath = &died
	}

	return a, nil
}

// UpdateAuthorRequest - PUT /v1/authors/:id. All fields optional.
type UpdateAuthorRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	DateOfDeath *string `json:"date_of_death,omitempty"`
	Biography   *string `json:"biography,omitempty"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
		validation.Field(&r.DateOfDeath, validation.Date(dateLayout)),
		validation.Field(&r.Biography, validation.Length(0, 10000)),
	)
}

// AuthorFilter carries list query parameters.
type AuthorFilter struct {
	SortBy string `form:"sort_by"`
}

// AuthorResponse is the public view of an author.
type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	DateOfDeath *string   `json:"date_of_death,omitempty"`
	Biography   string    `json:"biography,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Author) ToResponse() *AuthorResponse {
	resp := &AuthorResponse{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: a.DateOfBirth.Format(dateLayout),
		Biography:   a.Biography,
		CreatedAt:   a.CreatedAt,
	}
	if a.DateOfDeath != nil {
		died := a.DateOfDeath.Format(dateLayout)
		resp.DateOfDeath = &died
	}
	return resp
}
