package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

type SettingRepo struct {
	pool *pgxpool.Pool
}

func NewSettingRepo(pool *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{pool: pool}
}

func (r *SettingRepo) Get(ctx context.Context, tx repository.Tx, key string) (string, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return "", err
	}
	var value string
	err = exec.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SettingRepo) Set(ctx context.Context, tx repository.Tx, key, value string) error {
	if key == "" {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = exec.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
