package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Save upserts by telegram_id. Display fields, the premium flag and
// last_active_at are refreshed on conflict; language_code and is_banned are
// written only on first insert so user choices and moderation survive
// profile refreshes.
func (r *UserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if u.IsZero() {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO users (telegram_id, username, first_name, last_name, language_code, is_premium, is_banned, registered_at, last_active_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (telegram_id) DO UPDATE SET
  username       = EXCLUDED.username,
  first_name     = EXCLUDED.first_name,
  last_name      = EXCLUDED.last_name,
  is_premium     = EXCLUDED.is_premium,
  last_active_at = EXCLUDED.last_active_at`
	_, err = exec.Exec(ctx, query,
		u.TelegramID, u.Username, u.FirstName, u.LastName,
		u.LanguageCode, u.IsPremium, u.IsBanned, u.RegisteredAt, u.LastActiveAt)
	return err
}

func (r *UserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const query = `
SELECT telegram_id, username, first_name, last_name, language_code, is_premium, is_banned, registered_at, last_active_at
FROM users WHERE telegram_id = $1`
	var u model.User
	err = exec.QueryRow(ctx, query, tgID).Scan(
		&u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
		&u.LanguageCode, &u.IsPremium, &u.IsBanned, &u.RegisteredAt, &u.LastActiveAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ListIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, `SELECT telegram_id FROM users ORDER BY telegram_id`)
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

func (r *UserRepo) ListFiltered(ctx context.Context, tx repository.Tx, f repository.UserFilter) ([]*model.User, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	query := `
SELECT telegram_id, username, first_name, last_name, language_code, is_premium, is_banned, registered_at, last_active_at
FROM users`
	var (
		conds []string
		args  []interface{}
	)
	if f.BannedOnly {
		conds = append(conds, "is_banned = TRUE")
	}
	if f.Language != "" {
		args = append(args, f.Language)
		conds = append(conds, "language_code = $1")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY registered_at"

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
			&u.LanguageCode, &u.IsPremium, &u.IsBanned, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepo) SetBanned(ctx context.Context, tx repository.Tx, tgID int64, banned bool) error {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := exec.Exec(ctx, `UPDATE users SET is_banned = $2 WHERE telegram_id = $1`, tgID, banned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetLanguage(ctx context.Context, tx repository.Tx, tgID int64, lang string) error {
	if lang == "" {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := exec.Exec(ctx, `UPDATE users SET language_code = $2 WHERE telegram_id = $1`, tgID, lang)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
