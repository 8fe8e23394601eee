package loan

import (
	"errors"
	"net/http"
)

var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookUnavailable = errors.New("book is not available for borrowing")
	ErrAlreadyReturned = errors.New("loan has already been returned")
	ErrNotLoanOwner    = errors.New("loan belongs to another user")
	ErrInvalidDates    = errors.New("return date cannot be before loan date")
	ErrDatabaseQuery   = errors.New("database query failed")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrLoanNotFound), errors.Is(err, ErrBookNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBookUnavailable), errors.Is(err, ErrAlreadyReturned):
		return http.StatusConflict
	case errors.Is(err, ErrNotLoanOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidDates):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrLoanNotFound):
		return "LOAN_NOT_FOUND"
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrBookUnavailable):
		return "BOOK_UNAVAILABLE"
	case errors.Is(err, ErrAlreadyReturned):
		return "ALREADY_RETURNED"
	case errors.Is(err, ErrNotLoanOwner):
		return "NOT_LOAN_OWNER"
	case errors.Is(err, ErrInvalidDates):
		return "INVALID_DATES"
	default:
		return "INTERNAL_ERROR"
	}
}
