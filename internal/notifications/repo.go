package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("notification not found")
	ErrNoReminder = errors.New("no reminder associated with this notification")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const notifColumns = `id, user_id, reminder_id, name, date, created_at, updated_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.ReminderID, &n.Name, &n.Date, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *Repo) Create(ctx context.Context, userID, reminderID uuid.UUID, name string, date time.Time) (*Notification, error) {
	const q = `
INSERT INTO notifications (user_id, reminder_id, name, date, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING ` + notifColumns
	return scanNotification(r.pg.QueryRow(ctx, q, userID, reminderID, name, date))
}

// ListByUser returns the user's notifications, newest created first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	const q = `SELECT ` + notifColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pg.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// DeleteAllByUser wipes the user's notifications; used by the seed endpoint.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pg.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}

// Accept books an outcome transaction for the reminder's amount, advances
// the reminder by its frequency and removes the notification, all in one
// database transaction. The removed notification is returned.
func (r *Repo) Accept(ctx context.Context, userID, id uuid.UUID) (*Notification, error) {
	var out *Notification
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		n, amount, err := lockNotification(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		const insertTx = `
INSERT INTO transactions (user_id, name, amount, type, category, date, created_at)
VALUES ($1, $2, $3, 'outcome', 'Reminder Payment', now(), now())`
		if _, err := tx.Exec(ctx, insertTx, userID, "Payment for "+n.Name, amount); err != nil {
			return err
		}
		if err := advanceReminder(ctx, tx, n.ReminderID); err != nil {
			return err
		}
		if err := deleteNotification(ctx, tx, id); err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Refuse advances the reminder and removes the notification without booking
// a transaction. The removed notification is returned.
func (r *Repo) Refuse(ctx context.Context, userID, id uuid.UUID) (*Notification, error) {
	var out *Notification
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		n, _, err := lockNotification(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if err := advanceReminder(ctx, tx, n.ReminderID); err != nil {
			return err
		}
		if err := deleteNotification(ctx, tx, id); err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Extend pushes the notification date forward one day and keeps it.
func (r *Repo) Extend(ctx context.Context, userID, id uuid.UUID) (*Notification, error) {
	const q = `
UPDATE notifications
SET date = date + INTERVAL '1 day', updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + notifColumns
	return scanNotification(r.pg.QueryRow(ctx, q, id, userID))
}

func (r *Repo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockNotification loads the notification together with its reminder's
// amount, locking both rows for the rest of the transaction.
func lockNotification(ctx context.Context, tx pgx.Tx, userID, id uuid.UUID) (*Notification, int64, error) {
	const q = `
SELECT n.id, n.user_id, n.reminder_id, n.name, n.date, n.created_at, n.updated_at, r.amount
FROM notifications n
LEFT JOIN reminders r ON r.id = n.reminder_id
WHERE n.id = $1 AND n.user_id = $2
FOR UPDATE OF n`
	var n Notification
	var amount *int64
	err := tx.QueryRow(ctx, q, id, userID).Scan(
		&n.ID, &n.UserID, &n.ReminderID, &n.Name, &n.Date, &n.CreatedAt, &n.UpdatedAt, &amount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if amount == nil {
		return nil, 0, ErrNoReminder
	}
	return &n, *amount, nil
}

func advanceReminder(ctx context.Context, tx pgx.Tx, reminderID uuid.UUID) error {
	const q = `
UPDATE reminders
SET next_date = next_date + frequency * INTERVAL '1 day', updated_at = now()
WHERE id = $1`
	tag, err := tx.Exec(ctx, q, reminderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advance reminder %s: %w", reminderID, ErrNoReminder)
	}
	return nil
}

func deleteNotification(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}
