package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book"
)

// allowedSortColumns maps query sort keys to storage columns. Unknown
// keys are not an error; the list simply comes back in insertion order.
var allowedSortColumns = map[string]string{
	"title":            "title",
	"edition":          "edition",
	"unique_code":      "unique_code",
	"genre":            "genre",
	"publication_year": "publication_year",
}

// bookService implements book.Service.
type bookService struct {
	repo book.Repository
}

func NewBookService(repo book.Repository) book.Service {
	return &bookService{repo: repo}
}

func (s *bookService) Create(ctx context.Context, actorID uuid.UUID, req book.CreateBookRequest) (*book.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("book_id", created.ID.String()).
		Str("unique_code", created.UniqueCode).
		Msg("book created")

	return created, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	if id == uuid.Nil {
		return nil, book.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) List(ctx context.Context, filter book.BookFilter) ([]book.Book, error) {
	var status book.Status
	if filter.Filter == "available" {
		status = book.StatusAvailable
	}

	return s.repo.List(ctx, status, allowedSortColumns[filter.SortBy])
}

func (s *bookService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req book.UpdateBookRequest) (*book.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Edition != nil {
		b.Edition = *req.Edition
	}
	if req.UniqueCode != nil {
		b.UniqueCode = *req.UniqueCode
	}
	if req.Genre != nil {
		b.Genre = *req.Genre
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}
	if req.AuthorID != nil {
		b.AuthorID = *req.AuthorID
	}

	if req.Status != nil && book.Status(*req.Status) != b.Status {
		next := book.Status(*req.Status)
		// Status edits here sidestep borrow/return. They are allowed for
		// librarians (lost books, manual corrections) but always leave a
		// trace with the acting user.
		log.Warn().
			Str("actor_id", actorID.String()).
			Str("book_id", b.ID.String()).
			Str("from", b.Status.String()).
			Str("to", next.String()).
			Bool("declared_transition", b.Status.CanTransitionTo(next)).
			Msg("book status changed outside circulation")
		b.Status = next
	}

	return s.repo.Update(ctx, b)
}

func (s *bookService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if id == uuid.Nil {
		return book.ErrBookNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("book_id", id.String()).
		Msg("book deleted")

	return nil
}
