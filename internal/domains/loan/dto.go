package loan

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CreateLoanRequest - POST /v1/history. Manual entry by librarians,
// used for back-filling records that never went through borrow.
type CreateLoanRequest struct {
	BookID     string  `json:"book_id" binding:"required"`
	UserID     string  `json:"user_id" binding:"required"`
	LoanDate   string  `json:"loan_date" binding:"required"`
	ReturnDate *string `json:"return_date,omitempty"`
}

func (r CreateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, is.UUID),
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(&r.LoanDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.ReturnDate, validation.Date(dateLayout)),
	)
}

// ToEntity parses the request into a Loan. Validate must have passed.
func (r CreateLoanRequest) ToEntity() (*Loan, error) {
	bookID, err := uuid.Parse(r.BookID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, err
	}
	loaned, err := time.Parse(dateLayout, r.LoanDate)
	if err != nil {
		return nil, err
	}

	l := &Loan{
		BookID:   bookID,
		UserID:   userID,
		LoanDate: loaned,
	}

	if r.ReturnDate != nil && *r.ReturnDate != "" {
		returned, err := time.Parse(dateLayout, *r.ReturnDate)
		if err != nil {
			return nil, err
		}
		l.ReturnDate = &returned
	}

	return l, nil
}

// UpdateLoanRequest - PUT /v1/history/:id. All fields optional; an
// explicit empty return_date reopens the loan.
type UpdateLoanRequest struct {
	BookID     *string `json:"book_id,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
	LoanDate   *string `json:"loan_date,omitempty"`
	ReturnDate *string `json:"return_date,omitempty"`
}

func (r UpdateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.UserID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.LoanDate, validation.Date(dateLayout)),
	)
}

// LoanFilter carries list query parameters.
type LoanFilter struct {
	SortBy string `form:"sort_by"`
}

// LoanResponse is the public view of a loan record.
type LoanResponse struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	UserID     uuid.UUID `json:"user_id"`
	LoanDate   string    `json:"loan_date"`
	ReturnDate *string   `json:"return_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:        l.ID,
		BookID:    l.BookID,
		UserID:    l.UserID,
		LoanDate:  l.LoanDate.Format(dateLayout),
		CreatedAt: l.CreatedAt,
	}
	if l.ReturnDate != nil {
		returned := l.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &returned
	}
	return resp
}
