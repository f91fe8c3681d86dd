package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone already registered")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const userColumns = `id, name, email, phone, hashed_password, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.HashedPassword,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, id))
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, email))
}

func (r *Repo) FindByPhone(ctx context.Context, phone string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE phone = $1 LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, phone))
}

func (r *Repo) Create(ctx context.Context, name, email, phone, hashedPassword string) (*User, error) {
	const q = `
INSERT INTO users (name, email, phone, hashed_password, is_active, created_at)
VALUES ($1, $2, $3, $4, TRUE, now())
RETURNING ` + userColumns
	u, err := scanUser(r.pg.QueryRow(ctx, q, name, email, phone, hashedPassword))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return u, nil
}

// UpdateFields carries a partial profile update; nil fields keep their
// current values.
type UpdateFields struct {
	Name           *string
	Email          *string
	Phone          *string
	HashedPassword *string
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, u UpdateFields) (*User, error) {
	const q = `
UPDATE users
SET name = COALESCE($2, name),
    email = COALESCE($3, email),
    phone = COALESCE($4, phone),
    hashed_password = COALESCE($5, hashed_password),
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	out, err := scanUser(r.pg.QueryRow(ctx, q, id, u.Name, u.Email, u.Phone, u.HashedPassword))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return out, nil
}

// mapUniqueViolation translates server-side unique violations into the
// repo's sentinel errors. pgx returns *pgconn.PgError for those.
func mapUniqueViolation(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) && e.SQLState() == "23505" {
		if strings.Contains(e.ConstraintName, "phone") {
			return ErrPhoneTaken
		}
		return ErrEmailTaken
	}
	return err
}
