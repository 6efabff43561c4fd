package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/internal/domain/repository"
)

const accountColumns = `username, email, display_name, password_hash, password_salt, role,
		enabled, account_non_expired, credentials_non_expired, account_non_locked,
		activation_key, activation_email_sent, created_at, updated_at`

type UserAccountRepository struct {
	pool *pgxpool.Pool
}

func NewUserAccountRepository(pool *pgxpool.Pool) *UserAccountRepository {
	return &UserAccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.UserAccount, error) {
	u := &entity.UserAccount{}
	err := row.Scan(&u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.PasswordSalt,
		&u.Role, &u.Enabled, &u.AccountNonExpired, &u.CredentialsNonExpired,
		&u.AccountNonLocked, &u.ActivationKey, &u.ActivationEmailSent,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserAccountRepository) GetByUsername(ctx context.Context, username string) (*entity.UserAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM user_accounts
		WHERE username = $1
	`, username)
	return scanAccount(row)
}

func (r *UserAccountRepository) GetByPendingActivationKey(ctx context.Context, key string) (*entity.UserAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM user_accounts
		WHERE activation_key = $1 AND NOT enabled
	`, key)
	return scanAccount(row)
}

func (r *UserAccountRepository) Create(ctx context.Context, u *entity.UserAccount) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO user_accounts (username, email, display_name, password_hash, password_salt,
			role, enabled, account_non_expired, credentials_non_expired, account_non_locked,
			activation_key, activation_email_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, u.Username, u.Email, u.DisplayName, u.PasswordHash, u.PasswordSalt,
		u.Role, u.Enabled, u.AccountNonExpired, u.CredentialsNonExpired, u.AccountNonLocked,
		u.ActivationKey, u.ActivationEmailSent)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserAccountRepository) Update(ctx context.Context, u *entity.UserAccount) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u.UpdatedAt = time.Now().UTC()
	res, err := tx.Exec(ctx, `
		UPDATE user_accounts
		SET email = $1, display_name = $2, password_hash = $3, password_salt = $4, role = $5,
			enabled = $6, account_non_expired = $7, credentials_non_expired = $8,
			account_non_locked = $9, activation_key = $10, activation_email_sent = $11,
			updated_at = $12
		WHERE username = $13
	`, u.Email, u.DisplayName, u.PasswordHash, u.PasswordSalt, u.Role,
		u.Enabled, u.AccountNonExpired, u.CredentialsNonExpired,
		u.AccountNonLocked, u.ActivationKey, u.ActivationEmailSent,
		u.UpdatedAt, u.Username)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

var _ repository.UserAccountRepository = (*UserAccountRepository)(nil)
