package memory

import (
	"context"
	"errors"
	"sync"

	group_repository "yatube/internal/domain/ports/output/group"
	post_repository "yatube/internal/domain/ports/output/post"
	user_repository "yatube/internal/domain/ports/output/user"
	"yatube/internal/infrastructure/outbound/repository/postgres"
)

var ErrTxClosed = errors.New("tx is closed")

// UnitOfWork serializes transactions over the in-memory repositories.
// Writes are applied immediately, so Rollback does not undo them.
type UnitOfWork struct {
	mu     sync.Mutex
	posts  post_repository.Repository
	groups group_repository.Repository
	users  user_repository.Repository
}

func NewUnitOfWork(posts post_repository.Repository, groups group_repository.Repository, users user_repository.Repository) *UnitOfWork {
	return &UnitOfWork{posts: posts, groups: groups, users: users}
}

func (u *UnitOfWork) Begin(ctx context.Context) (postgres.Transaction, error) {
	u.mu.Lock()
	return &Transaction{uow: u}, nil
}

type Transaction struct {
	uow    *UnitOfWork
	closed bool
}

func (t *Transaction) PostRepository() post_repository.Repository {
	return t.uow.posts
}

func (t *Transaction) GroupRepository() group_repository.Repository {
	return t.uow.groups
}

func (t *Transaction) UserRepository() user_repository.Repository {
	return t.uow.users
}

func (t *Transaction) end() error {
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	t.uow.mu.Unlock()
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	return t.end()
}

func (t *Transaction) Rollback(ctx context.Context) error {
	return t.end()
}
