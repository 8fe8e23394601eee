package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/loan"
	"library-backend/pkg/database"
)

// postgresRepository implements loan.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) loan.Repository {
	return &postgresRepository{pool: pool}
}

const loanColumns = `id, book_id, user_id, loan_date, return_date, created_at, updated_at`

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID,
		&l.BookID,
		&l.UserID,
		&l.LoanDate,
		&l.ReturnDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // partial unique index: one open loan per book
			return loan.ErrBookUnavailable
		case "23503": // foreign_key_violation on book_id or user_id
			if pgErr.ConstraintName == "loan_history_user_id_fkey" {
				return loan.ErrUserNotFound
			}
			return loan.ErrBookNotFound
		}
	}
	return nil
}

// acquireBook flips a book from available to on_loan. The conditional
// update is the race guard: of two concurrent acquirers only one sees a
// row change, the other gets ErrBookUnavailable.
func acquireBook(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) error {
	tag, err := tx.Exec(
		ctx,
		`UPDATE books SET status = 'on_loan', updated_at = now()
         WHERE id = $1 AND status = 'available'`,
		bookID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark book on loan: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM books WHERE id = $1`, bookID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check book status: %w", err)
		}
		return loan.ErrBookUnavailable
	}

	return nil
}

// releaseBook puts a book back into circulation. Conditional on on_loan
// so a manual retirement done while the book was out is not silently
// undone.
func releaseBook(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) error {
	_, err := tx.Exec(
		ctx,
		`UPDATE books SET status = 'available', updated_at = now()
         WHERE id = $1 AND status = 'on_loan'`,
		bookID,
	)
	if err != nil {
		return fmt.Errorf("failed to release book: %w", err)
	}
	return nil
}

// Borrow flips the book to on_loan and opens the loan in one
// transaction.
func (r *postgresRepository) Borrow(ctx context.Context, userID, bookID uuid.UUID) (*loan.Loan, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*loan.Loan, error) {
		if err := acquireBook(ctx, tx, bookID); err != nil {
			return nil, err
		}

		query := `
            INSERT INTO loan_history (book_id, user_id, loan_date)
            VALUES ($1, $2, now())
            RETURNING ` + loanColumns

		created, err := scanLoan(tx.QueryRow(ctx, query, bookID, userID))
		if err != nil {
			if mapped := mapConstraintError(err); mapped != nil {
				return nil, mapped
			}
			return nil, fmt.Errorf("failed to create loan: %w", err)
		}

		return created, nil
	})
}

// Return closes the loan and puts the book back into circulation.
func (r *postgresRepository) Return(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) (*loan.Loan, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*loan.Loan, error) {
		query := `
            UPDATE loan_history
            SET return_date = $2, updated_at = now()
            WHERE id = $1 AND return_date IS NULL
            RETURNING ` + loanColumns

		closed, err := scanLoan(tx.QueryRow(ctx, query, loanID, returnedAt))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to close loan: %w", err)
			}

			var exists bool
			checkErr := tx.QueryRow(
				ctx,
				`SELECT EXISTS (SELECT 1 FROM loan_history WHERE id = $1)`,
				loanID,
			).Scan(&exists)
			if checkErr != nil {
				return nil, fmt.Errorf("failed to check loan: %w", checkErr)
			}
			if !exists {
				return nil, loan.ErrLoanNotFound
			}
			return nil, loan.ErrAlreadyReturned
		}

		if err := releaseBook(ctx, tx, closed.BookID); err != nil {
			return nil, err
		}

		return closed, nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_history WHERE id = $1`

	l, err := scanLoan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan by id: %w", err)
	}
	return l, nil
}

// List returns all circulation records. sortClause was resolved through
// the allow-list, so interpolating it is safe.
func (r *postgresRepository) List(ctx context.Context, sortClause string) ([]loan.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_history ORDER BY %s`, loanColumns, orderBy(sortClause))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, sortClause string) ([]loan.Loan, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM loan_history WHERE user_id = $1 ORDER BY %s`,
		loanColumns, orderBy(sortClause),
	)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for user: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// orderBy falls back to created_at so the unsorted list comes back in
// insertion order. Ids are random uuids and would shuffle it.
func orderBy(sortClause string) string {
	if sortClause == "" {
		return "created_at"
	}
	return sortClause
}

func collectLoans(rows pgx.Rows) ([]loan.Loan, error) {
	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

// Create inserts a manual history row. An open row also takes the book
// out of circulation, exactly as Borrow would.
func (r *postgresRepository) Create(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*loan.Loan, error) {
		if l.ReturnDate == nil {
			if err := acquireBook(ctx, tx, l.BookID); err != nil {
				return nil, err
			}
		}

		query := `
            INSERT INTO loan_history (book_id, user_id, loan_date, return_date)
            VALUES ($1, $2, $3, $4)
            RETURNING ` + loanColumns

		created, err := scanLoan(tx.QueryRow(ctx, query, l.BookID, l.UserID, l.LoanDate, l.ReturnDate))
		if err != nil {
			if mapped := mapConstraintError(err); mapped != nil {
				return nil, mapped
			}
			return nil, fmt.Errorf("failed to create loan entry: %w", err)
		}

		return created, nil
	})
}

// Update rewrites a history row and keeps book statuses in step with
// it: closing or moving an open row releases its book, reopening or
// moving onto a book acquires it.
func (r *postgresRepository) Update(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*loan.Loan, error) {
		current, err := scanLoan(tx.QueryRow(
			ctx,
			`SELECT `+loanColumns+` FROM loan_history WHERE id = $1 FOR UPDATE`,
			l.ID,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, loan.ErrLoanNotFound
			}
			return nil, fmt.Errorf("failed to lock loan entry: %w", err)
		}

		wasOpen := current.ReturnDate == nil
		isOpen := l.ReturnDate == nil

		if wasOpen && (!isOpen || current.BookID != l.BookID) {
			if err := releaseBook(ctx, tx, current.BookID); err != nil {
				return nil, err
			}
		}
		if isOpen && (!wasOpen || current.BookID != l.BookID) {
			if err := acquireBook(ctx, tx, l.BookID); err != nil {
				return nil, err
			}
		}

		query := `
            UPDATE loan_history
            SET book_id = $2, user_id = $3, loan_date = $4, return_date = $5, updated_at = now()
            WHERE id = $1
            RETURNING ` + loanColumns

		updated, err := scanLoan(tx.QueryRow(ctx, query, l.ID, l.BookID, l.UserID, l.LoanDate, l.ReturnDate))
		if err != nil {
			if mapped := mapConstraintError(err); mapped != nil {
				return nil, mapped
			}
			return nil, fmt.Errorf("failed to update loan entry: %w", err)
		}

		return updated, nil
	})
}

// Delete removes a history row. Deleting the open row releases its
// book, otherwise the book would be stranded on_loan with no loan left
// to return.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanLoan(tx.QueryRow(
			ctx,
			`SELECT `+loanColumns+` FROM loan_history WHERE id = $1 FOR UPDATE`,
			id,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return loan.ErrLoanNotFound
			}
			return fmt.Errorf("failed to lock loan entry: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM loan_history WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete loan entry: %w", err)
		}

		if current.ReturnDate == nil {
			return releaseBook(ctx, tx, current.BookID)
		}
		return nil
	})
}
