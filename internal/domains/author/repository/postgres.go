package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author"
)

// postgresRepository implements author.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) author.Repository {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, first_name, last_name, date_of_birth, date_of_death, biography, created_at, updated_at`

func scanAuthor(row pgx.Row) (*author.Author, error) {
	var a author.Author
	err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.DateOfBirth,
		&a.DateOfDeath,
		&a.Biography,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death, biography)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(
		ctx,
		query,
		a.FirstName,
		a.LastName,
		a.DateOfBirth,
		a.DateOfDeath,
		a.Biography,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

// List returns all authors. sortColumn is trusted here: the service has
// already mapped it through the allow-list, so interpolation is safe.
func (r *postgresRepository) List(ctx context.Context, sortColumn string) ([]author.Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM authors ORDER BY %s`, authorColumns, orderBy(sortColumn))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []author.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		authors = append(authors, *a)
	}

	return authors, rows.Err()
}

// orderBy falls back to created_at so the unsorted list comes back in
// insertion order. Ids are random uuids and would shuffle it.
func orderBy(sortColumn string) string {
	if sortColumn == "" {
		return "created_at"
	}
	return sortColumn
}

func (r *postgresRepository) Update(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        UPDATE authors
        SET first_name = $2, last_name = $3, date_of_birth = $4,
            date_of_death = $5, biography = $6, updated_at = now()
        WHERE id = $1
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(
		ctx,
		query,
		a.ID,
		a.FirstName,
		a.LastName,
		a.DateOfBirth,
		a.DateOfDeath,
		a.Biography,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Dependent books (and their loan history) go with the author via
	// ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}
