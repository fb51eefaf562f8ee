package repository

import "context"

// SettingBotDisabled is the global kill-switch key; "true" blocks non-admins.
const SettingBotDisabled = "bot_disabled"

// SettingRepository is a flat string key/value store with upsert semantics.
type SettingRepository interface {
	// Get returns domain.ErrNotFound when the key was never set.
	Get(ctx context.Context, tx Tx, key string) (string, error)
	Set(ctx context.Context, tx Tx, key, value string) error
}
