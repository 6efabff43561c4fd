package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/internal/domain/repository"
)

type PersistentLoginRepository struct {
	pool *pgxpool.Pool
}

func NewPersistentLoginRepository(pool *pgxpool.Pool) *PersistentLoginRepository {
	return &PersistentLoginRepository{pool: pool}
}

func (r *PersistentLoginRepository) Create(ctx context.Context, l *entity.PersistentLogin) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO persistent_logins (series, username, token, last_used)
		VALUES ($1, $2, $3, $4)
	`, l.Series, l.Username, l.Token, l.LastUsed); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PersistentLoginRepository) GetBySeries(ctx context.Context, series string) (*entity.PersistentLogin, error) {
	l := &entity.PersistentLogin{}
	row := r.pool.QueryRow(ctx, `
		SELECT series, username, token, last_used
		FROM persistent_logins
		WHERE series = $1
	`, series)
	if err := row.Scan(&l.Series, &l.Username, &l.Token, &l.LastUsed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *PersistentLoginRepository) FindByUsername(ctx context.Context, username string) ([]*entity.PersistentLogin, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT series, username, token, last_used
		FROM persistent_logins
		WHERE username = $1
		ORDER BY last_used DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []*entity.PersistentLogin
	for rows.Next() {
		l := &entity.PersistentLogin{}
		if err := rows.Scan(&l.Series, &l.Username, &l.Token, &l.LastUsed); err != nil {
			return nil, err
		}
		logins = append(logins, l)
	}
	return logins, rows.Err()
}

func (r *PersistentLoginRepository) UpdateToken(ctx context.Context, series, token string, lastUsed time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE persistent_logins
		SET token = $1, last_used = $2
		WHERE series = $3
	`, token, lastUsed, series)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PersistentLoginRepository) DeleteByUsername(ctx context.Context, username string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM persistent_logins
		WHERE username = $1
	`, username); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.PersistentLoginRepository = (*PersistentLoginRepository)(nil)
