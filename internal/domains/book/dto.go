package book

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateBookRequest - POST /v1/books. New books start out available.
type CreateBookRequest struct {
	Title           string    `json:"title" binding:"required"`
	Edition         string    `json:"edition,omitempty"`
	UniqueCode      string    `json:"unique_code" binding:"required"`
	Genre           string    `json:"genre,omitempty"`
	PublicationYear int       `json:"publication_year" binding:"required"`
	AuthorID        uuid.UUID `json:"author_id" binding:"required"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Edition, validation.Length(0, 100)),
		validation.Field(&r.UniqueCode, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.PublicationYear, validation.Required, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.AuthorID, validation.Required, validation.By(nonNilUUID)),
	)
}

func (r CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:           r.Title,
		Edition:         r.Edition,
		UniqueCode:      r.UniqueCode,
		Genre:           r.Genre,
		PublicationYear: r.PublicationYear,
		Status:          StatusAvailable,
		AuthorID:        r.AuthorID,
	}
}

// UpdateBookRequest - PUT /v1/books/:id. All fields optional. Setting
// Status here bypasses the circulation state machine and is logged as
// an administrative override.
type UpdateBookRequest struct {
	Title           *string    `json:"title,omitempty"`
	Edition         *string    `json:"edition,omitempty"`
	UniqueCode      *string    `json:"unique_code,omitempty"`
	Genre           *string    `json:"genre,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Status          *string    `json:"status,omitempty"`
	AuthorID        *uuid.UUID `json:"author_id,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Edition, validation.Length(0, 100)),
		validation.Field(&r.UniqueCode, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.PublicationYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.Status, validation.By(validStatusPtr)),
	)
}

func validStatusPtr(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if !Status(*s).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func nonNilUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// BookFilter carries list query parameters. Filter "available" narrows
// the list to borrowable books; SortBy is matched against the
// allow-list in the service.
type BookFilter struct {
	Filter string `form:"filter"`
	SortBy string `form:"sort"`
}

// BookResponse is the public view of a book.
type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Edition         string    `json:"edition,omitempty"`
	UniqueCode      string    `json:"unique_code"`
	Genre           string    `json:"genre,omitempty"`
	PublicationYear int       `json:"publication_year"`
	Status          Status    `json:"status"`
	AuthorID        uuid.UUID `json:"author_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Edition:         b.Edition,
		UniqueCode:      b.UniqueCode,
		Genre:           b.Genre,
		PublicationYear: b.PublicationYear,
		Status:          b.Status,
		AuthorID:        b.AuthorID,
		CreatedAt:       b.CreatedAt,
	}
}
