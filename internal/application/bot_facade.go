package application

import (
	"context"

	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/usecase"
)

// BotFacade composes the usecases behind a single handle the Telegram
// adapter talks to. Routes reach the usecases through it instead of each
// holding six dependencies.
type BotFacade struct {
	Access    usecase.AccessUseCase
	User      usecase.UserUseCase
	Group     usecase.GroupUseCase
	Broadcast usecase.BroadcastUseCase
	Wizard    usecase.WizardUseCase
	Relay     usecase.RelayUseCase
}

func NewBotFacade(
	access usecase.AccessUseCase,
	user usecase.UserUseCase,
	group usecase.GroupUseCase,
	broadcast usecase.BroadcastUseCase,
	wizard usecase.WizardUseCase,
	relay usecase.RelayUseCase,
) *BotFacade {
	return &BotFacade{
		Access:    access,
		User:      user,
		Group:     group,
		Broadcast: broadcast,
		Wizard:    wizard,
		Relay:     relay,
	}
}

// Start upserts the sender and reports whether this was a first contact so
// the adapter can pick the right greeting.
func (b *BotFacade) Start(ctx context.Context, p usecase.UserProfile) (*model.User, bool, error) {
	return b.User.RegisterOrRefresh(ctx, p)
}
