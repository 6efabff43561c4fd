package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/internal/domain/repository"
)

// ErrLoginNotFound signals that no remember-me login exists for a series.
// Callers treat it as "not remembered", not as a hard failure.
var ErrLoginNotFound = errors.New("persistent login not found")

// RememberMe owns the persistent-login records. Tokens are deliberately
// never cached: the series lookup always hits the durable store.
type RememberMe struct {
	Logins repository.PersistentLoginRepository
	Logger *logrus.Logger
}

func NewRememberMe(logins repository.PersistentLoginRepository, logger *logrus.Logger) *RememberMe {
	return &RememberMe{Logins: logins, Logger: logger}
}

// CreateToken persists a new login for the series. A failed store commit
// is swallowed: the login simply does not exist afterwards and the next
// remember-me check falls back to interactive authentication.
func (s *RememberMe) CreateToken(ctx context.Context, username, series, token string, issuedAt time.Time) {
	l := &entity.PersistentLogin{
		Series:   series,
		Username: username,
		Token:    token,
		LastUsed: issuedAt,
	}
	if err := s.Logins.Create(ctx, l); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"username": username,
			"series":   series,
		}).Warn("remember-me token not persisted")
	}
}

// RotateToken replaces the secret for a series after a successful use.
// An unknown series is a no-op: the caller already treats the login as
// invalid, and repeating the rotation must stay harmless.
func (s *RememberMe) RotateToken(ctx context.Context, series, newToken string, usedAt time.Time) {
	err := s.Logins.UpdateToken(ctx, series, newToken, usedAt)
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("series", series).Warn("remember-me token not rotated")
	}
}

// LookupBySeries resolves the current login for a series.
func (s *RememberMe) LookupBySeries(ctx context.Context, series string) (*entity.PersistentLogin, error) {
	l, err := s.Logins.GetBySeries(ctx, series)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoginNotFound
		}
		return nil, err
	}
	return l, nil
}

// RevokeAll removes every login owned by the username (logout-everywhere,
// password change). Revoking a user with no logins is a no-op.
func (s *RememberMe) RevokeAll(ctx context.Context, username string) error {
	return s.Logins.DeleteByUsername(ctx, username)
}

// LoginsForUser lists the active remember-me sessions of a user.
func (s *RememberMe) LoginsForUser(ctx context.Context, username string) ([]*entity.PersistentLogin, error) {
	return s.Logins.FindByUsername(ctx, username)
}
