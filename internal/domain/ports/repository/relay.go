package repository

import (
	"context"

	"telegram-broadcast-bot/internal/domain/model"
)

// RelaySessionRepository stores the active relay session per admin.
// Sessions have no TTL; they persist until explicitly cleared.
type RelaySessionRepository interface {
	Set(ctx context.Context, session *model.RelaySession) error
	// Get returns (nil, nil) when the admin has no active session.
	Get(ctx context.Context, adminID int64) (*model.RelaySession, error)
	Clear(ctx context.Context, adminID int64) error
}
