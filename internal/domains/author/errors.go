package author

import (
	"errors"
	"net/http"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrInvalidDates   = errors.New("date of death cannot precede date of birth")
	ErrDatabaseQuery  = errors.New("database query error")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidDates):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidDates):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
