package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book"
)

// postgresRepository implements book.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, edition, unique_code, genre, publication_year, status, author_id, created_at, updated_at`

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Edition,
		&b.UniqueCode,
		&b.Genre,
		&b.PublicationYear,
		&b.Status,
		&b.AuthorID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation on unique_code
			return book.ErrDuplicateCode
		case "23503": // foreign_key_violation on author_id
			return book.ErrAuthorNotFound
		}
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        INSERT INTO books (title, edition, unique_code, genre, publication_year, status, author_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + bookColumns

	created, err := scanBook(r.pool.QueryRow(
		ctx,
		query,
		b.Title,
		b.Edition,
		b.UniqueCode,
		b.Genre,
		b.PublicationYear,
		b.Status,
		b.AuthorID,
	))
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

// List returns books, optionally restricted to one status. sortColumn
// was resolved through the allow-list, so interpolating it is safe.
func (r *postgresRepository) List(ctx context.Context, status book.Status, sortColumn string) ([]book.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books`, bookColumns)
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY %s`, orderBy(sortColumn))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *b)
	}

	return books, rows.Err()
}

// orderBy falls back to created_at so the unsorted list comes back in
// insertion order. Ids are random uuids and would shuffle it.
func orderBy(sortColumn string) string {
	if sortColumn == "" {
		return "created_at"
	}
	return sortColumn
}

func (r *postgresRepository) Update(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        UPDATE books
        SET title = $2, edition = $3, unique_code = $4, genre = $5,
            publication_year = $6, status = $7, author_id = $8, updated_at = now()
        WHERE id = $1
        RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(
		ctx,
		query,
		b.ID,
		b.Title,
		b.Edition,
		b.UniqueCode,
		b.Genre,
		b.PublicationYear,
		b.Status,
		b.AuthorID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Loan history rows cascade with the book.
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}
	return nil
}
