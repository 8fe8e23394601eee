package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book"
)

// fakeBookRepo keeps books in insertion order and applies the status
// filter and sort column the way the SQL would.
type fakeBookRepo struct {
	mu    sync.Mutex
	books []book.Book
}

func (r *fakeBookRepo) Create(_ context.Context, b *book.Book) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.books {
		if existing.UniqueCode == b.UniqueCode {
			return nil, book.ErrDuplicateCode
		}
	}
	clone := *b
	clone.ID = uuid.New()
	r.books = append(r.books, clone)
	result := clone
	return &result, nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			clone := b
			return &clone, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) List(_ context.Context, status book.Status, sortColumn string) ([]book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []book.Book
	for _, b := range r.books {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}

	switch sortColumn {
	case "title":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case "publication_year":
		sort.SliceStable(out, func(i, j int) bool { return out[i].PublicationYear < out[j].PublicationYear })
	}
	return out, nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *book.Book) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].ID == b.ID {
			r.books[i] = *b
			clone := *b
			return &clone, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return book.ErrBookNotFound
}

func seedBooks(t *testing.T, svc book.Service, repo *fakeBookRepo) {
	t.Helper()
	librarian := uuid.New()
	authorID := uuid.New()

	for _, req := range []book.CreateBookRequest{
		{Title: "Solaris", UniqueCode: "SOL-1", PublicationYear: 1961, AuthorID: authorID},
		{Title: "A Wizard of Earthsea", UniqueCode: "EAR-1", PublicationYear: 1968, AuthorID: authorID},
		{Title: "The Colour of Magic", UniqueCode: "COL-1", PublicationYear: 1983, AuthorID: authorID},
	} {
		_, err := svc.Create(context.Background(), librarian, req)
		require.NoError(t, err)
	}

	// Mark the middle book as loaned out directly in the store.
	repo.mu.Lock()
	repo.books[1].Status = book.StatusOnLoan
	repo.mu.Unlock()
}

func TestCreateStartsAvailable(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(repo)

	created, err := svc.Create(context.Background(), uuid.New(), book.CreateBookRequest{
		Title:           "Solaris",
		UniqueCode:      "SOL-1",
		PublicationYear: 1961,
		AuthorID:        uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, book.StatusAvailable, created.Status)
}

func TestCreateDuplicateCode(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(repo)
	authorID := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), book.CreateBookRequest{
		Title: "Solaris", UniqueCode: "SOL-1", PublicationYear: 1961, AuthorID: authorID,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), book.CreateBookRequest{
		Title: "Solaris (2nd)", UniqueCode: "SOL-1", PublicationYear: 1970, AuthorID: authorID,
	})
	assert.ErrorIs(t, err, book.ErrDuplicateCode)
}

func TestListFilterAndSort(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(repo)
	seedBooks(t, svc, repo)

	t.Run("filter available", func(t *testing.T) {
		books, err := svc.List(context.Background(), book.BookFilter{Filter: "available"})
		require.NoError(t, err)
		require.Len(t, books, 2)
		for _, b := range books {
			assert.Equal(t, book.StatusAvailable, b.Status)
		}
	})

	t.Run("sort by publication year is non-decreasing", func(t *testing.T) {
		books, err := svc.List(context.Background(), book.BookFilter{SortBy: "publication_year"})
		require.NoError(t, err)
		require.Len(t, books, 3)
		for i := 1; i < len(books); i++ {
			assert.LessOrEqual(t, books[i-1].PublicationYear, books[i].PublicationYear)
		}
	})

	t.Run("unknown sort key keeps insertion order", func(t *testing.T) {
		books, err := svc.List(context.Background(), book.BookFilter{SortBy: "password_hash"})
		require.NoError(t, err)
		titles := make([]string, len(books))
		for i, b := range books {
			titles[i] = b.Title
		}
		assert.Equal(t, []string{"Solaris", "A Wizard of Earthsea", "The Colour of Magic"}, titles)
	})
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(repo)
	librarian := uuid.New()

	created, err := svc.Create(context.Background(), librarian, book.CreateBookRequest{
		Title: "Solaris", UniqueCode: "SOL-1", PublicationYear: 1961, AuthorID: uuid.New(),
	})
	require.NoError(t, err)

	badStatus := "misplaced"
	_, err = svc.Update(context.Background(), librarian, created.ID, book.UpdateBookRequest{Status: &badStatus})
	assert.Error(t, err)
}

func TestUpdateAllowsAuditedStatusOverride(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(repo)
	librarian := uuid.New()

	created, err := svc.Create(context.Background(), librarian, book.CreateBookRequest{
		Title: "Solaris", UniqueCode: "SOL-1", PublicationYear: 1961, AuthorID: uuid.New(),
	})
	require.NoError(t, err)

	retired := string(book.StatusRetired)
	updated, err := svc.Update(context.Background(), librarian, created.ID, book.UpdateBookRequest{Status: &retired})
	require.NoError(t, err)
	assert.Equal(t, book.StatusRetired, updated.Status)
}
