package repository

import (
	"context"
	"errors"

	"github.com/yogapermana/accountd/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert collides with an existing
	// record on a unique column.
	ErrDuplicate = errors.New("duplicate record")
)

// UserAccountRepository is the durable-store boundary for accounts. Every
// mutating method runs inside its own transaction; a returned error means
// the transaction did not commit and the store is unchanged.
type UserAccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.UserAccount, error)
	// GetByPendingActivationKey matches only accounts that still await
	// activation, so a consumed key resolves to nothing.
	GetByPendingActivationKey(ctx context.Context, key string) (*entity.UserAccount, error)
	Create(ctx context.Context, u *entity.UserAccount) error
	Update(ctx context.Context, u *entity.UserAccount) error
}
