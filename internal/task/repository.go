package task

import "context"

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	// ListByOwner returns the user's tasks in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]*Task, error)
	// ListAll returns every task in creation order.
	ListAll(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
