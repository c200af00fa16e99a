package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/BhanuIITMandi/SprintSync/internal/user"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
	"github.com/BhanuIITMandi/SprintSync/pkg/storage"
)

const usersPrefix = "users"

type YAMLRepository struct {
	storage storage.Storage

	// createMu serializes Create so the email uniqueness check and the write
	// behind it act as one step. The storage layer only locks per operation.
	createMu sync.Mutex
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", usersPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, u *user.User) error {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	// Email uniqueness is checked against the full listing; the storage layer
	// has no secondary index.
	existing, err := r.GetByEmail(ctx, u.Email)
	if err != nil && !cerr.IsCode(err, cerr.NotFound) {
		return err
	}
	if existing != nil {
		return cerr.NewError(cerr.AlreadyExists, "email already registered", nil)
	}
	data, err := yaml.Marshal(u)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal user: %w", err))
	}
	if err := r.storage.Write(ctx, path(u.ID), data); err != nil {
		return cerr.WrapStorageWriteError("user", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*user.User, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("user", err)
	}
	var u user.User
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal user: %w", err))
	}
	return &u, nil
}

func (r *YAMLRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, cerr.NewError(cerr.NotFound, "user not found", nil)
}

func (r *YAMLRepository) List(ctx context.Context) ([]*user.User, error) {
	paths, err := r.storage.List(ctx, usersPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("users", err)
	}

	// ULID file names sort in creation order.
	sort.Strings(paths)

	var all []*user.User
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var u user.User
		if err := yaml.Unmarshal(data, &u); err != nil {
			continue
		}
		all = append(all, &u)
	}
	return all, nil
}

func (r *YAMLRepository) Count(ctx context.Context) (int, error) {
	paths, err := r.storage.List(ctx, usersPrefix)
	if err != nil {
		return 0, cerr.WrapStorageReadError("users", err)
	}
	return len(paths), nil
}
