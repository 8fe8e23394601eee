package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/author"
)

// allowedSortColumns maps query sort keys to storage columns. Anything
// outside this map falls back to insertion order rather than erroring.
var allowedSortColumns = map[string]string{
	"first_name":    "first_name",
	"last_name":     "last_name",
	"date_of_birth": "date_of_birth",
	"date_of_death": "date_of_death",
}

// authorService implements author.Service.
type authorService struct {
	repo author.Repository
}

func NewAuthorService(repo author.Repository) author.Service {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req author.CreateAuthorRequest) (*author.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := req.ToEntity()
	if err != nil {
		return nil, err
	}

	if err := checkDates(a.DateOfBirth, a.DateOfDeath); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, a)
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	if id == uuid.Nil {
		return nil, author.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context, filter author.AuthorFilter) ([]author.Author, error) {
	return s.repo.List(ctx, allowedSortColumns[filter.SortBy])
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req author.UpdateAuthorRequest) (*author.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		born, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		a.DateOfBirth = born
	}
	if req.DateOfDeath != nil {
		if *req.DateOfDeath == "" {
			a.DateOfDeath = nil
		} else {
			died, err := time.Parse("2006-01-02", *req.DateOfDeath)
			if err != nil {
				return nil, err
			}
			a.DateOfDeath = &died
		}
	}
	if req.Biography != nil {
		a.Biography = *req.Biography
	}

	if err := checkDates(a.DateOfBirth, a.DateOfDeath); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, a)
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return author.ErrAuthorNotFound
	}
	return s.repo.Delete(ctx, id)
}

func checkDates(born time.Time, died *time.Time) error {
	if died != nil && died.Before(born) {
		return author.ErrInvalidDates
	}
	return nil
}
