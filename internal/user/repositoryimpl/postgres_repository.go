package repositoryimpl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/BhanuIITMandi/SprintSync/internal/user"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

// uniqueViolation is the postgres error code raised by the users_email_key
// constraint.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, hashed_password, is_admin, skills, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.HashedPassword, u.IsAdmin, u.Skills, u.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return cerr.NewError(cerr.AlreadyExists, "email already registered", err)
		}
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to insert user: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password, is_admin, skills, created_at
         FROM users WHERE id = $1`, id,
	))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password, is_admin, skills, created_at
         FROM users WHERE email = $1`, email,
	))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsAdmin, &u.Skills, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cerr.NewError(cerr.NotFound, "user not found", err)
	}
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to scan user: %w", err))
	}
	return &u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, hashed_password, is_admin, skills, created_at
         FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to query users: %w", err))
	}
	defer rows.Close()

	var all []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsAdmin, &u.Skills, &u.CreatedAt); err != nil {
			return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to scan user: %w", err))
		}
		all = append(all, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to iterate users: %w", err))
	}
	return all, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to count users: %w", err))
	}
	return n, nil
}
