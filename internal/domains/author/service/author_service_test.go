package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
)

// fakeAuthorRepo keeps authors in insertion order and sorts by the
// column it is handed, mimicking the SQL ORDER BY.
type fakeAuthorRepo struct {
	mu      sync.Mutex
	authors []author.Author
}

func (r *fakeAuthorRepo) Create(_ context.Context, a *author.Author) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	clone.ID = uuid.New()
	r.authors = append(r.authors, clone)
	result := clone
	return &result, nil
}

func (r *fakeAuthorRepo) GetByID(_ context.Context, id uuid.UUID) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.authors {
		if a.ID == id {
			clone := a
			return &clone, nil
		}
	}
	return nil, author.ErrAuthorNotFound
}

func (r *fakeAuthorRepo) List(_ context.Context, sortColumn string) ([]author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]author.Author, len(r.authors))
	copy(out, r.authors)

	switch sortColumn {
	case "first_name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	case "last_name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	case "date_of_birth":
		sort.SliceStable(out, func(i, j int) bool { return out[i].DateOfBirth.Before(out[j].DateOfBirth) })
	}
	return out, nil
}

func (r *fakeAuthorRepo) Update(_ context.Context, a *author.Author) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.authors {
		if r.authors[i].ID == a.ID {
			r.authors[i] = *a
			clone := *a
			return &clone, nil
		}
	}
	return nil, author.ErrAuthorNotFound
}

func (r *fakeAuthorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.authors {
		if r.authors[i].ID == id {
			r.authors = append(r.authors[:i], r.authors[i+1:]...)
			return nil
		}
	}
	return author.ErrAuthorNotFound
}

func seedAuthors(t *testing.T, svc author.Service) {
	t.Helper()
	for _, req := range []author.CreateAuthorRequest{
		{FirstName: "Terry", LastName: "Pratchett", DateOfBirth: "1948-04-28"},
		{FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: "1929-10-21"},
		{FirstName: "Stanislaw", LastName: "Lem", DateOfBirth: "1921-09-12"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}
}

func TestCreateParsesDates(t *testing.T) {
	svc := NewAuthorService(&fakeAuthorRepo{})

	died := "2015-03-12"
	created, err := svc.Create(context.Background(), author.CreateAuthorRequest{
		FirstName:   "Terry",
		LastName:    "Pratchett",
		DateOfBirth: "1948-04-28",
		DateOfDeath: &died,
		Biography:   "Discworld.",
	})
	require.NoError(t, err)

	assert.Equal(t, 1948, created.DateOfBirth.Year())
	require.NotNil(t, created.DateOfDeath)
	assert.Equal(t, 2015, created.DateOfDeath.Year())
}

func TestCreateRejectsDeathBeforeBirth(t *testing.T) {
	svc := NewAuthorService(&fakeAuthorRepo{})

	died := "1900-01-01"
	_, err := svc.Create(context.Background(), author.CreateAuthorRequest{
		FirstName:   "Terry",
		LastName:    "Pratchett",
		DateOfBirth: "1948-04-28",
		DateOfDeath: &died,
	})
	assert.ErrorIs(t, err, author.ErrInvalidDates)
}

func TestListSorting(t *testing.T) {
	svc := NewAuthorService(&fakeAuthorRepo{})
	seedAuthors(t, svc)

	t.Run("by last name", func(t *testing.T) {
		authors, err := svc.List(context.Background(), author.AuthorFilter{SortBy: "last_name"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Le Guin", "Lem", "Pratchett"}, lastNames(authors))
	})

	t.Run("by date of birth", func(t *testing.T) {
		authors, err := svc.List(context.Background(), author.AuthorFilter{SortBy: "date_of_birth"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Lem", "Le Guin", "Pratchett"}, lastNames(authors))
	})

	t.Run("unknown key keeps insertion order", func(t *testing.T) {
		authors, err := svc.List(context.Background(), author.AuthorFilter{SortBy: "biography; DROP TABLE authors"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pratchett", "Le Guin", "Lem"}, lastNames(authors))
	})
}

func lastNames(authors []author.Author) []string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.LastName
	}
	return names
}
