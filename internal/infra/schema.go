package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema makes the backend self-bootstrapping: every table is created
// if absent (non-destructive, safe to run on every start). The SQL mirrors
// migrations/0001_init.up.sql; cmd/migrate is the managed alternative.
func EnsureSchema(ctx context.Context, pg *pgxpool.Pool) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

		`CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name VARCHAR NOT NULL,
  email VARCHAR NOT NULL,
  phone VARCHAR NOT NULL,
  hashed_password VARCHAR NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NULL,
  CONSTRAINT users_email_key UNIQUE (email),
  CONSTRAINT users_phone_key UNIQUE (phone)
);`,

		`CREATE TABLE IF NOT EXISTS transactions (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name VARCHAR NOT NULL,
  amount BIGINT NOT NULL,
  type VARCHAR NOT NULL,
  category VARCHAR NOT NULL,
  date TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NULL
);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, date DESC);`,

		`CREATE TABLE IF NOT EXISTS reminders (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name VARCHAR(100) NOT NULL,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  next_date TIMESTAMPTZ NOT NULL,
  category VARCHAR(50) NOT NULL,
  amount BIGINT NOT NULL,
  frequency INTEGER NOT NULL,
  description TEXT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NULL
);`,
		`CREATE INDEX IF NOT EXISTS reminders_user_idx ON reminders (user_id);`,

		`CREATE TABLE IF NOT EXISTS notifications (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  reminder_id UUID NOT NULL REFERENCES reminders(id) ON DELETE CASCADE,
  name VARCHAR NOT NULL,
  date TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NULL
);`,
		`CREATE INDEX IF NOT EXISTS notifications_user_created_idx ON notifications (user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pg.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
