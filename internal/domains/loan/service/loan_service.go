package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
)

// allowedSortClauses maps query sort keys to ORDER BY clauses. Loans
// sort newest first; unknown keys fall back to insertion order.
var allowedSortClauses = map[string]string{
	"loan_date":   "loan_date DESC",
	"return_date": "return_date DESC NULLS LAST",
}

// loanService implements loan.Service.
type loanService struct {
	repo loan.Repository
}

func NewLoanService(repo loan.Repository) loan.Service {
	return &loanService{repo: repo}
}

func (s *loanService) Borrow(ctx context.Context, actorID, bookID uuid.UUID) (*loan.Loan, error) {
	if bookID == uuid.Nil {
		return nil, loan.ErrBookNotFound
	}

	created, err := s.repo.Borrow(ctx, actorID, bookID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", created.ID.String()).
		Str("book_id", bookID.String()).
		Str("user_id", actorID.String()).
		Msg("book borrowed")

	return created, nil
}

func (s *loanService) Return(ctx context.Context, actorID uuid.UUID, actorRole user.Role, loanID uuid.UUID) (*loan.Loan, error) {
	l, err := s.repo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if l.UserID != actorID && !actorRole.HasPermission(user.RoleLibrarian) {
		return nil, loan.ErrNotLoanOwner
	}
	if !l.IsOpen() {
		return nil, loan.ErrAlreadyReturned
	}

	closed, err := s.repo.Return(ctx, loanID, time.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", closed.ID.String()).
		Str("book_id", closed.BookID.String()).
		Str("actor_id", actorID.String()).
		Msg("book returned")

	return closed, nil
}

func (s *loanService) ListByUser(ctx context.Context, userID uuid.UUID, filter loan.LoanFilter) ([]loan.Loan, error) {
	return s.repo.ListByUser(ctx, userID, allowedSortClauses[filter.SortBy])
}

func (s *loanService) List(ctx context.Context, filter loan.LoanFilter) ([]loan.Loan, error) {
	return s.repo.List(ctx, allowedSortClauses[filter.SortBy])
}

func (s *loanService) Create(ctx context.Context, actorID uuid.UUID, req loan.CreateLoanRequest) (*loan.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l, err := req.ToEntity()
	if err != nil {
		return nil, err
	}
	if err := checkDates(l); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", created.ID.String()).
		Str("actor_id", actorID.String()).
		Msg("loan entry created")

	return created, nil
}

func (s *loanService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req loan.UpdateLoanRequest) (*loan.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BookID != nil {
		bookID, err := uuid.Parse(*req.BookID)
		if err != nil {
			return nil, err
		}
		l.BookID = bookID
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, err
		}
		l.UserID = userID
	}
	if req.LoanDate != nil {
		loaned, err := time.Parse("2006-01-02", *req.LoanDate)
		if err != nil {
			return nil, err
		}
		l.LoanDate = loaned
	}
	if req.ReturnDate != nil {
		if *req.ReturnDate == "" {
			l.ReturnDate = nil
		} else {
			returned, err := time.Parse("2006-01-02", *req.ReturnDate)
			if err != nil {
				return nil, err
			}
			l.ReturnDate = &returned
		}
	}

	if err := checkDates(l); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, l)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", updated.ID.String()).
		Str("actor_id", actorID.String()).
		Msg("loan entry updated")

	return updated, nil
}

func (s *loanService) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().
		Str("loan_id", id.String()).
		Str("actor_id", actorID.String()).
		Msg("loan entry deleted")

	return nil
}

func checkDates(l *loan.Loan) error {
	if l.ReturnDate != nil && l.ReturnDate.Before(l.LoanDate) {
		return loan.ErrInvalidDates
	}
	return nil
}
