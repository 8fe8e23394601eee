package book

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrDuplicateCode  = errors.New("book with this unique code already exists")
	ErrInvalidStatus  = errors.New("invalid book status")
	ErrInvalidYear    = errors.New("invalid publication year")
	ErrDatabaseQuery  = errors.New("database query error")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrAuthorNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateCode):
		return "DUPLICATE_CODE"
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidYear):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidYear):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
