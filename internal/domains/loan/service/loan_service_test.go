package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
)

// fakeLoanRepo mirrors the storage semantics: Borrow only succeeds on a
// compare-and-swap of the book status, Return only closes open loans.
type fakeLoanRepo struct {
	mu         sync.Mutex
	bookStatus map[uuid.UUID]string
	loans      []loan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{bookStatus: make(map[uuid.UUID]string)}
}

func (r *fakeLoanRepo) addBook(status string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.bookStatus[id] = status
	return id
}

func (r *fakeLoanRepo) Borrow(_ context.Context, userID, bookID uuid.UUID) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.bookStatus[bookID]
	if !ok {
		return nil, loan.ErrBookNotFound
	}
	if status != "available" {
		return nil, loan.ErrBookUnavailable
	}

	r.bookStatus[bookID] = "on_loan"
	l := loan.Loan{
		ID:       uuid.New(),
		BookID:   bookID,
		UserID:   userID,
		LoanDate: time.Now(),
	}
	r.loans = append(r.loans, l)
	clone := l
	return &clone, nil
}

func (r *fakeLoanRepo) Return(_ context.Context, loanID uuid.UUID, returnedAt time.Time) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.loans {
		if r.loans[i].ID != loanID {
			continue
		}
		if r.loans[i].ReturnDate != nil {
			return nil, loan.ErrAlreadyReturned
		}
		returned := returnedAt
		r.loans[i].ReturnDate = &returned
		if r.bookStatus[r.loans[i].BookID] == "on_loan" {
			r.bookStatus[r.loans[i].BookID] = "available"
		}
		clone := r.loans[i]
		return &clone, nil
	}
	return nil, loan.ErrLoanNotFound
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uuid.UUID) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.loans {
		if l.ID == id {
			clone := l
			return &clone, nil
		}
	}
	return nil, loan.ErrLoanNotFound
}

func (r *fakeLoanRepo) List(_ context.Context, sortClause string) ([]loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]loan.Loan(nil), r.loans...)
	applySort(out, sortClause)
	return out, nil
}

func (r *fakeLoanRepo) ListByUser(_ context.Context, userID uuid.UUID, sortClause string) ([]loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []loan.Loan
	for _, l := range r.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	applySort(out, sortClause)
	return out, nil
}

func applySort(loans []loan.Loan, sortClause string) {
	switch sortClause {
	case "loan_date DESC":
		sort.SliceStable(loans, func(i, j int) bool { return loans[i].LoanDate.After(loans[j].LoanDate) })
	case "return_date DESC NULLS LAST":
		sort.SliceStable(loans, func(i, j int) bool {
			if loans[i].ReturnDate == nil {
				return false
			}
			if loans[j].ReturnDate == nil {
				return true
			}
			return loans[i].ReturnDate.After(*loans[j].ReturnDate)
		})
	}
}

func (r *fakeLoanRepo) Create(_ context.Context, l *loan.Loan) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.bookStatus[l.BookID]
	if !ok {
		return nil, loan.ErrBookNotFound
	}
	if l.ReturnDate == nil {
		if status != "available" {
			return nil, loan.ErrBookUnavailable
		}
		r.bookStatus[l.BookID] = "on_loan"
	}

	clone := *l
	clone.ID = uuid.New()
	r.loans = append(r.loans, clone)
	result := clone
	return &result, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, l *loan.Loan) (*loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.loans {
		if r.loans[i].ID != l.ID {
			continue
		}

		wasOpen := r.loans[i].ReturnDate == nil
		isOpen := l.ReturnDate == nil
		oldBook := r.loans[i].BookID

		if isOpen && (!wasOpen || oldBook != l.BookID) {
			status, ok := r.bookStatus[l.BookID]
			if !ok {
				return nil, loan.ErrBookNotFound
			}
			if status != "available" {
				return nil, loan.ErrBookUnavailable
			}
		}

		if wasOpen && (!isOpen || oldBook != l.BookID) {
			if r.bookStatus[oldBook] == "on_loan" {
				r.bookStatus[oldBook] = "available"
			}
		}
		if isOpen && (!wasOpen || oldBook != l.BookID) {
			r.bookStatus[l.BookID] = "on_loan"
		}

		r.loans[i] = *l
		clone := *l
		return &clone, nil
	}
	return nil, loan.ErrLoanNotFound
}

func (r *fakeLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.loans {
		if r.loans[i].ID == id {
			if r.loans[i].ReturnDate == nil && r.bookStatus[r.loans[i].BookID] == "on_loan" {
				r.bookStatus[r.loans[i].BookID] = "available"
			}
			r.loans = append(r.loans[:i], r.loans[i+1:]...)
			return nil
		}
	}
	return loan.ErrLoanNotFound
}

func TestBorrow(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	reader := uuid.New()

	t.Run("opens a loan and flips the book status", func(t *testing.T) {
		bookID := repo.addBook("available")

		l, err := svc.Borrow(context.Background(), reader, bookID)
		require.NoError(t, err)
		assert.Equal(t, bookID, l.BookID)
		assert.Equal(t, reader, l.UserID)
		assert.True(t, l.IsOpen())
		assert.Equal(t, "on_loan", repo.bookStatus[bookID])
	})

	t.Run("rejects a book already on loan", func(t *testing.T) {
		bookID := repo.addBook("on_loan")
		before := len(repo.loans)

		_, err := svc.Borrow(context.Background(), reader, bookID)
		assert.ErrorIs(t, err, loan.ErrBookUnavailable)
		assert.Len(t, repo.loans, before)
	})

	t.Run("rejects a retired book", func(t *testing.T) {
		bookID := repo.addBook("retired")

		_, err := svc.Borrow(context.Background(), reader, bookID)
		assert.ErrorIs(t, err, loan.ErrBookUnavailable)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := svc.Borrow(context.Background(), reader, uuid.New())
		assert.ErrorIs(t, err, loan.ErrBookNotFound)
	})
}

func TestBorrowConcurrent(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	bookID := repo.addBook("available")

	const borrowers = 8
	errs := make(chan error, borrowers)

	var wg sync.WaitGroup
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Borrow(context.Background(), uuid.New(), bookID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, loan.ErrBookUnavailable)
			lost++
		}
	}

	assert.Equal(t, 1, won, "exactly one borrower wins the book")
	assert.Equal(t, borrowers-1, lost)
	assert.Len(t, repo.loans, 1)
}

func TestReturn(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	reader := uuid.New()

	borrow := func(t *testing.T) *loan.Loan {
		t.Helper()
		bookID := repo.addBook("available")
		l, err := svc.Borrow(context.Background(), reader, bookID)
		require.NoError(t, err)
		return l
	}

	t.Run("owner closes the loan and frees the book", func(t *testing.T) {
		l := borrow(t)

		closed, err := svc.Return(context.Background(), reader, user.RoleReader, l.ID)
		require.NoError(t, err)
		assert.False(t, closed.IsOpen())
		assert.Equal(t, "available", repo.bookStatus[l.BookID])
	})

	t.Run("double return", func(t *testing.T) {
		l := borrow(t)

		closed, err := svc.Return(context.Background(), reader, user.RoleReader, l.ID)
		require.NoError(t, err)
		firstDate := *closed.ReturnDate

		_, err = svc.Return(context.Background(), reader, user.RoleReader, l.ID)
		assert.ErrorIs(t, err, loan.ErrAlreadyReturned)

		stored, err := repo.GetByID(context.Background(), l.ID)
		require.NoError(t, err)
		assert.True(t, stored.ReturnDate.Equal(firstDate))
	})

	t.Run("another reader may not return it", func(t *testing.T) {
		l := borrow(t)

		_, err := svc.Return(context.Background(), uuid.New(), user.RoleReader, l.ID)
		assert.ErrorIs(t, err, loan.ErrNotLoanOwner)

		stored, err := repo.GetByID(context.Background(), l.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsOpen())
	})

	t.Run("librarian may return on behalf of the reader", func(t *testing.T) {
		l := borrow(t)

		closed, err := svc.Return(context.Background(), uuid.New(), user.RoleLibrarian, l.ID)
		require.NoError(t, err)
		assert.False(t, closed.IsOpen())
	})

	t.Run("unknown loan", func(t *testing.T) {
		_, err := svc.Return(context.Background(), reader, user.RoleReader, uuid.New())
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
	})
}

func TestBorrowAfterReturn(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	first := uuid.New()
	second := uuid.New()
	bookID := repo.addBook("available")

	l1, err := svc.Borrow(context.Background(), first, bookID)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), second, bookID)
	require.ErrorIs(t, err, loan.ErrBookUnavailable)

	_, err = svc.Return(context.Background(), first, user.RoleReader, l1.ID)
	require.NoError(t, err)

	l2, err := svc.Borrow(context.Background(), second, bookID)
	require.NoError(t, err)
	assert.Equal(t, second, l2.UserID)

	history, err := svc.List(context.Background(), loan.LoanFilter{})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestListOwnLoansSorting(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	reader := uuid.New()

	now := time.Now()
	for i := 0; i < 3; i++ {
		repo.loans = append(repo.loans, loan.Loan{
			ID:       uuid.New(),
			BookID:   uuid.New(),
			UserID:   reader,
			LoanDate: now.Add(time.Duration(i) * time.Hour),
		})
	}
	repo.loans = append(repo.loans, loan.Loan{
		ID:       uuid.New(),
		BookID:   uuid.New(),
		UserID:   uuid.New(),
		LoanDate: now,
	})

	t.Run("only own loans", func(t *testing.T) {
		loans, err := svc.ListByUser(context.Background(), reader, loan.LoanFilter{})
		require.NoError(t, err)
		require.Len(t, loans, 3)
		for _, l := range loans {
			assert.Equal(t, reader, l.UserID)
		}
	})

	t.Run("newest first by loan date", func(t *testing.T) {
		loans, err := svc.ListByUser(context.Background(), reader, loan.LoanFilter{SortBy: "loan_date"})
		require.NoError(t, err)
		require.Len(t, loans, 3)
		for i := 1; i < len(loans); i++ {
			assert.False(t, loans[i].LoanDate.After(loans[i-1].LoanDate))
		}
	})

	t.Run("unknown sort key keeps insertion order", func(t *testing.T) {
		loans, err := svc.ListByUser(context.Background(), reader, loan.LoanFilter{SortBy: "; DROP TABLE loan_history"})
		require.NoError(t, err)
		require.Len(t, loans, 3)
		for i := 1; i < len(loans); i++ {
			assert.True(t, loans[i].LoanDate.After(loans[i-1].LoanDate))
		}
	})
}

func TestManualEntries(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	librarian := uuid.New()
	bookID := repo.addBook("available")
	readerID := uuid.New()

	t.Run("create closed entry", func(t *testing.T) {
		returned := "2026-02-01"
		created, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:     bookID.String(),
			UserID:     readerID.String(),
			LoanDate:   "2026-01-15",
			ReturnDate: &returned,
		})
		require.NoError(t, err)
		assert.False(t, created.IsOpen())
	})

	t.Run("return before loan date is rejected", func(t *testing.T) {
		returned := "2026-01-01"
		_, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:     bookID.String(),
			UserID:     readerID.String(),
			LoanDate:   "2026-01-15",
			ReturnDate: &returned,
		})
		assert.ErrorIs(t, err, loan.ErrInvalidDates)
	})

	t.Run("second open entry for one book is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:   bookID.String(),
			UserID:   readerID.String(),
			LoanDate: "2026-03-01",
		})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:   bookID.String(),
			UserID:   readerID.String(),
			LoanDate: "2026-03-02",
		})
		assert.ErrorIs(t, err, loan.ErrBookUnavailable)
	})

	t.Run("entry for an unknown book is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:   uuid.NewString(),
			UserID:   readerID.String(),
			LoanDate: "2026-03-10",
		})
		assert.ErrorIs(t, err, loan.ErrBookNotFound)
	})

	t.Run("update reopens a loan with empty return date", func(t *testing.T) {
		reopenBook := repo.addBook("available")
		returned := "2026-04-10"
		created, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:     reopenBook.String(),
			UserID:     readerID.String(),
			LoanDate:   "2026-04-01",
			ReturnDate: &returned,
		})
		require.NoError(t, err)

		empty := ""
		updated, err := svc.Update(context.Background(), librarian, created.ID, loan.UpdateLoanRequest{ReturnDate: &empty})
		require.NoError(t, err)
		assert.True(t, updated.IsOpen())
		assert.Equal(t, "on_loan", repo.bookStatus[reopenBook])
	})

	t.Run("delete", func(t *testing.T) {
		deleteBook := repo.addBook("available")
		created, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:   deleteBook.String(),
			UserID:   readerID.String(),
			LoanDate: "2026-05-01",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), librarian, created.ID))
		_, err = repo.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
	})
}

// Manual history edits must leave book statuses consistent with the
// open loans that remain, or books end up stranded.
func TestManualEntriesKeepBookStatusInSync(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := NewLoanService(repo)
	librarian := uuid.New()
	readerID := uuid.New()

	t.Run("deleting the open loan releases the book", func(t *testing.T) {
		bookID := repo.addBook("available")

		l, err := svc.Borrow(context.Background(), readerID, bookID)
		require.NoError(t, err)
		require.Equal(t, "on_loan", repo.bookStatus[bookID])

		require.NoError(t, svc.Delete(context.Background(), librarian, l.ID))
		assert.Equal(t, "available", repo.bookStatus[bookID])

		_, err = svc.Borrow(context.Background(), uuid.New(), bookID)
		assert.NoError(t, err, "book must be borrowable again once its open loan is gone")
	})

	t.Run("creating an open entry takes the book out of circulation", func(t *testing.T) {
		bookID := repo.addBook("available")

		created, err := svc.Create(context.Background(), librarian, loan.CreateLoanRequest{
			BookID:   bookID.String(),
			UserID:   readerID.String(),
			LoanDate: "2026-06-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "on_loan", repo.bookStatus[bookID])

		_, err = svc.Borrow(context.Background(), uuid.New(), bookID)
		assert.ErrorIs(t, err, loan.ErrBookUnavailable)

		returned := "2026-06-15"
		_, err = svc.Update(context.Background(), librarian, created.ID, loan.UpdateLoanRequest{ReturnDate: &returned})
		require.NoError(t, err)
		assert.Equal(t, "available", repo.bookStatus[bookID])
	})

	t.Run("moving the open loan to another book swaps statuses", func(t *testing.T) {
		first := repo.addBook("available")
		second := repo.addBook("available")

		l, err := svc.Borrow(context.Background(), readerID, first)
		require.NoError(t, err)

		newBook := second.String()
		_, err = svc.Update(context.Background(), librarian, l.ID, loan.UpdateLoanRequest{BookID: &newBook})
		require.NoError(t, err)

		assert.Equal(t, "available", repo.bookStatus[first])
		assert.Equal(t, "on_loan", repo.bookStatus[second])
	})
}
