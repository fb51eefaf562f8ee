package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

func (r *GroupRepo) Create(ctx context.Context, tx repository.Tx, g *model.Group) error {
	if g == nil || g.Name == "" {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = exec.Exec(ctx,
		`INSERT INTO groups (name, created_at) VALUES ($1, $2)`, g.Name, g.CreatedAt)
	if pgErrCode(err) == codeUniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

// Delete removes the group; membership rows go with it via ON DELETE CASCADE.
func (r *GroupRepo) Delete(ctx context.Context, tx repository.Tx, name string) error {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := exec.Exec(ctx, `DELETE FROM groups WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GroupRepo) Exists(ctx context.Context, tx repository.Tx, name string) (bool, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = exec.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM groups WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *GroupRepo) ListNames(ctx context.Context, tx repository.Tx) ([]string, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, `SELECT name FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *GroupRepo) AddMember(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	if m == nil || m.TelegramID <= 0 || m.GroupName == "" {
		return domain.ErrInvalidArgument
	}
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = exec.Exec(ctx,
		`INSERT INTO group_members (telegram_id, group_name, added_at) VALUES ($1, $2, $3)`,
		m.TelegramID, m.GroupName, m.AddedAt)
	switch pgErrCode(err) {
	case codeUniqueViolation:
		return domain.ErrAlreadyExists
	case codeForeignKeyViolation:
		return domain.ErrGroupNotFound
	}
	return err
}

func (r *GroupRepo) MemberIDs(ctx context.Context, tx repository.Tx, name string) ([]int64, error) {
	exec, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx,
		`SELECT telegram_id FROM group_members WHERE group_name = $1 ORDER BY telegram_id`, name)
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
