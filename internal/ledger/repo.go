package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("transaction not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const txColumns = `id, user_id, name, amount, type, category, date, created_at, updated_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Amount, &t.Type, &t.Category,
		&t.Date, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

type CreateParams struct {
	Name     string
	Amount   int64
	Type     string
	Category string
	Date     time.Time
}

func (r *Repo) Create(ctx context.Context, userID uuid.UUID, p CreateParams) (*Transaction, error) {
	const q = `
INSERT INTO transactions (user_id, name, amount, type, category, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING ` + txColumns
	return scanTransaction(r.pg.QueryRow(ctx, q, userID, p.Name, p.Amount, p.Type, p.Category, p.Date))
}

// ListByUser returns the user's transactions, newest date first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]Transaction, error) {
	const q = `
SELECT ` + txColumns + `
FROM transactions
WHERE user_id = $1
ORDER BY date DESC
OFFSET $2 LIMIT $3`
	rows, err := r.pg.Query(ctx, q, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	const q = `SELECT ` + txColumns + ` FROM transactions WHERE id = $1 AND user_id = $2 LIMIT 1`
	return scanTransaction(r.pg.QueryRow(ctx, q, id, userID))
}

// DeleteAllByUser wipes the user's transactions; used by the seed endpoint.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pg.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	return err
}

func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	tag, err := r.pg.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
