package repository

import "context"

// WizardState holds an admin's progress through the broadcast wizard.
// The captured payload is kept by reference (chat id + message id) so the
// original message can be replayed later without copying its content.
type WizardState struct {
	Step            string `json:"step"`
	Target          string `json:"target,omitempty"` // "all" or a group name
	FromChatID      int64  `json:"from_chat_id,omitempty"`
	MessageID       int    `json:"message_id,omitempty"`
	Caption         string `json:"caption,omitempty"`
	OverrideCaption bool   `json:"override_caption,omitempty"`
}

// WizardStateRepository manages per-conversation wizard sessions.
// Implementations apply an inactivity TTL; an abandoned session simply
// expires and the next entry starts fresh.
type WizardStateRepository interface {
	SetState(ctx context.Context, chatID int64, state *WizardState) error
	// GetState returns (nil, nil) when no session exists.
	GetState(ctx context.Context, chatID int64) (*WizardState, error)
	ClearState(ctx context.Context, chatID int64) error
}
