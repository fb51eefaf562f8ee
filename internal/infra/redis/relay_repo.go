package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.RelaySessionRepository = (*RelaySessionRepo)(nil)

// RelaySessionRepo stores active relay sessions. No TTL: a relay runs
// until the admin explicitly stops it.
type RelaySessionRepo struct {
	client RedisClient
}

func NewRelaySessionRepo(client RedisClient) *RelaySessionRepo {
	return &RelaySessionRepo{client: client}
}

func (r *RelaySessionRepo) sessionKey(adminID int64) string {
	return fmt.Sprintf("relay_session:%d", adminID)
}

func (r *RelaySessionRepo) Set(ctx context.Context, session *model.RelaySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.sessionKey(session.AdminID), data, 0)
}

func (r *RelaySessionRepo) Get(ctx context.Context, adminID int64) (*model.RelaySession, error) {
	data, err := r.client.Get(ctx, r.sessionKey(adminID))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session model.RelaySession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RelaySessionRepo) Clear(ctx context.Context, adminID int64) error {
	return r.client.Del(ctx, r.sessionKey(adminID))
}
