package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) Add(ctx context.Context, tx repository.Tx, tgID int64) error {
	if tgID <= 0 {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := exec.Exec(ctx,
		`INSERT INTO admins (telegram_id) VALUES ($1) ON CONFLICT (telegram_id) DO NOTHING`, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *AdminRepo) Remove(ctx context.Context, tx repository.Tx, tgID int64) error {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := exec.Exec(ctx, `DELETE FROM admins WHERE telegram_id = $1`, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AdminRepo) Exists(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = exec.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = $1)`, tgID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AdminRepo) List(ctx context.Context, tx repository.Tx) ([]int64, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, `SELECT telegram_id FROM admins ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
