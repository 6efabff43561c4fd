package repository

import (
	"context"
	"time"

	"github.com/yogapermana/accountd/internal/domain/entity"
)

// PersistentLoginRepository is the durable-store boundary for remember-me
// logins. Records are keyed by series alone and queryable by username.
type PersistentLoginRepository interface {
	Create(ctx context.Context, l *entity.PersistentLogin) error
	GetBySeries(ctx context.Context, series string) (*entity.PersistentLogin, error)
	FindByUsername(ctx context.Context, username string) ([]*entity.PersistentLogin, error)
	// UpdateToken replaces token and last-used for the series in one
	// transaction. Returns ErrNotFound if the series does not exist.
	UpdateToken(ctx context.Context, series, token string, lastUsed time.Time) error
	// DeleteByUsername removes every login owned by the username. Deleting
	// zero rows is not an error.
	DeleteByUsername(ctx context.Context, username string) error
}
