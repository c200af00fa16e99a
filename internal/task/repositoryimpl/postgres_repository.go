package repositoryimpl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/BhanuIITMandi/SprintSync/internal/task"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

const taskColumns = `id, title, description, status, total_minutes, owner_id, assignee_id, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Description, string(t.Status), t.TotalMinutes,
		t.OwnerID, t.AssigneeID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to insert task: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
	)
	var t task.Task
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.TotalMinutes,
		&t.OwnerID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cerr.NewError(cerr.NotFound, "task not found", err)
	}
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to scan task: %w", err))
	}
	t.Status = task.Status(status)
	return &t, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*task.Task, error) {
	// ULIDs are lexicographically ordered by creation time.
	return r.query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY id`, ownerID,
	)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*task.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to query tasks: %w", err))
	}
	defer rows.Close()

	var all []*task.Task
	for rows.Next() {
		var t task.Task
		var status string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &t.TotalMinutes,
			&t.OwnerID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to scan task: %w", err))
		}
		t.Status = task.Status(status)
		all = append(all, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to iterate tasks: %w", err))
	}
	return all, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *task.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks
         SET title = $2, description = $3, status = $4, total_minutes = $5,
             assignee_id = $6, updated_at = $7
         WHERE id = $1`,
		t.ID, t.Title, t.Description, string(t.Status), t.TotalMinutes,
		t.AssigneeID, t.UpdatedAt,
	)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to update task: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to read update result: %w", err))
	}
	if affected == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to delete task: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to read delete result: %w", err))
	}
	if affected == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to count tasks: %w", err))
	}
	defer rows.Close()

	counts := make(map[task.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to scan count: %w", err))
		}
		counts[task.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to iterate counts: %w", err))
	}
	return counts, nil
}
