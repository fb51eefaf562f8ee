package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.WizardStateRepository = (*WizardStateRepo)(nil)

// WizardStateRepo keeps per-conversation wizard sessions in Redis.
// Every write refreshes the TTL, so the window is measured from the
// last interaction; an abandoned session simply expires.
type WizardStateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewWizardStateRepo(client RedisClient, ttl time.Duration) *WizardStateRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &WizardStateRepo{client: client, ttl: ttl}
}

func (s *WizardStateRepo) stateKey(chatID int64) string {
	return fmt.Sprintf("wizard_state:%d", chatID)
}

func (s *WizardStateRepo) SetState(ctx context.Context, chatID int64, state *repository.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(chatID), data, s.ttl)
}

func (s *WizardStateRepo) GetState(ctx context.Context, chatID int64) (*repository.WizardState, error) {
	data, err := s.client.Get(ctx, s.stateKey(chatID))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, nil
		}
		return nil, err
	}
	var state repository.WizardState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *WizardStateRepo) ClearState(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.stateKey(chatID))
}
