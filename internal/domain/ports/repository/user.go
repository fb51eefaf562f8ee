package repository

import (
	"context"

	"telegram-broadcast-bot/internal/domain/model"
)

// UserFilter narrows ListFiltered. The zero value matches everyone.
type UserFilter struct {
	BannedOnly bool
	Language   string
}

type UserRepository interface {
	// Save upserts by telegram_id. Display fields, premium flag and
	// last_active_at are refreshed on conflict; language and ban state are
	// only written on first insert.
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	ListIDs(ctx context.Context, tx Tx) ([]int64, error)
	ListFiltered(ctx context.Context, tx Tx, f UserFilter) ([]*model.User, error)
	SetBanned(ctx context.Context, tx Tx, tgID int64, banned bool) error
	SetLanguage(ctx context.Context, tx Tx, tgID int64, lang string) error
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
