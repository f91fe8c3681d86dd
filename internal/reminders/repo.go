package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("reminder not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const reminderColumns = `id, user_id, name, active, next_date, category, amount, frequency, description, created_at, updated_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var m Reminder
	err := row.Scan(
		&m.ID, &m.UserID, &m.Name, &m.Active, &m.NextDate, &m.Category,
		&m.Amount, &m.Frequency, &m.Description, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

type CreateParams struct {
	Name        string
	Active      bool
	NextDate    time.Time
	Category    string
	Amount      int64
	Frequency   int
	Description *string
}

func (r *Repo) Create(ctx context.Context, userID uuid.UUID, p CreateParams) (*Reminder, error) {
	const q = `
INSERT INTO reminders (user_id, name, active, next_date, category, amount, frequency, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
RETURNING ` + reminderColumns
	return scanReminder(r.pg.QueryRow(ctx, q,
		userID, p.Name, p.Active, p.NextDate, p.Category, p.Amount, p.Frequency, p.Description))
}

func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]Reminder, error) {
	const q = `
SELECT ` + reminderColumns + `
FROM reminders
WHERE user_id = $1
ORDER BY next_date ASC
OFFSET $2 LIMIT $3`
	rows, err := r.pg.Query(ctx, q, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reminder, 0, limit)
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repo) FindByID(ctx context.Context, userID, id uuid.UUID) (*Reminder, error) {
	const q = `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1 AND user_id = $2 LIMIT 1`
	return scanReminder(r.pg.QueryRow(ctx, q, id, userID))
}

// UpdateFields carries a partial reminder update; nil fields keep their
// current values.
type UpdateFields struct {
	Name        *string
	Active      *bool
	NextDate    *time.Time
	Category    *string
	Amount      *int64
	Frequency   *int
	Description *string
}

func (r *Repo) Update(ctx context.Context, userID, id uuid.UUID, u UpdateFields) (*Reminder, error) {
	const q = `
UPDATE reminders
SET name = COALESCE($3, name),
    active = COALESCE($4, active),
    next_date = COALESCE($5, next_date),
    category = COALESCE($6, category),
    amount = COALESCE($7, amount),
    frequency = COALESCE($8, frequency),
    description = COALESCE($9, description),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + reminderColumns
	return scanReminder(r.pg.QueryRow(ctx, q,
		id, userID, u.Name, u.Active, u.NextDate, u.Category, u.Amount, u.Frequency, u.Description))
}

// DeleteAllByUser wipes the user's reminders; used by the seed endpoint.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pg.Exec(ctx, `DELETE FROM reminders WHERE user_id = $1`, userID)
	return err
}

// Delete removes the reminder and returns the deleted row.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) (*Reminder, error) {
	const q = `DELETE FROM reminders WHERE id = $1 AND user_id = $2 RETURNING ` + reminderColumns
	return scanReminder(r.pg.QueryRow(ctx, q, id, userID))
}
