package usecase

import (
	"context"

	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"
	"telegram-broadcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RelayUseCase = (*relayUC)(nil)

// RelayUseCase manages standing per-admin relays. While active, every
// non-command message the admin sends is mirrored to the target cohort.
type RelayUseCase interface {
	Activate(ctx context.Context, adminID int64, target model.BroadcastTarget) error
	// Deactivate reports whether a relay was actually active.
	Deactivate(ctx context.Context, adminID int64) (bool, error)
	// Mirror replays one message to the relay target, excluding the sender.
	// consumed=false means no active relay (or sender no longer admin): the
	// caller should fall through to normal message handling. Mirroring is
	// silent; the admin gets no acknowledgement.
	Mirror(ctx context.Context, adminID int64, ref adapter.MessageRef) (consumed bool, err error)
}

type relayUC struct {
	sessions  repository.RelaySessionRepository
	access    AccessUseCase
	broadcast BroadcastUseCase
	gateway   adapter.MessageGateway
	log       *zerolog.Logger
}

func NewRelayUseCase(
	sessions repository.RelaySessionRepository,
	access AccessUseCase,
	broadcast BroadcastUseCase,
	gateway adapter.MessageGateway,
	logger *zerolog.Logger,
) *relayUC {
	return &relayUC{
		sessions:  sessions,
		access:    access,
		broadcast: broadcast,
		gateway:   gateway,
		log:       logger,
	}
}

func (r *relayUC) Activate(ctx context.Context, adminID int64, target model.BroadcastTarget) error {
	defer logging.TraceDuration(r.log, "RelayUC.Activate")()
	session, err := model.NewRelaySession(adminID, target)
	if err != nil {
		return err
	}
	if err := r.sessions.Set(ctx, session); err != nil {
		return err
	}
	r.log.Info().Int64("admin_id", adminID).Str("target", target.Key()).Msg("relay activated")
	return nil
}

func (r *relayUC) Deactivate(ctx context.Context, adminID int64) (bool, error) {
	defer logging.TraceDuration(r.log, "RelayUC.Deactivate")()
	session, err := r.sessions.Get(ctx, adminID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	if err := r.sessions.Clear(ctx, adminID); err != nil {
		return false, err
	}
	r.log.Info().Int64("admin_id", adminID).Msg("relay stopped")
	return true, nil
}

func (r *relayUC) Mirror(ctx context.Context, adminID int64, ref adapter.MessageRef) (bool, error) {
	defer logging.TraceDuration(r.log, "RelayUC.Mirror")()
	session, err := r.sessions.Get(ctx, adminID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	// The session may outlive a demotion; re-check before mirroring.
	isAdmin, err := r.access.IsAdmin(ctx, adminID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		return false, nil
	}

	recipients, err := r.broadcast.ResolveRecipients(ctx, session.Target)
	if err != nil {
		return false, err
	}
	for _, chatID := range recipients {
		if chatID == adminID {
			continue
		}
		if err := r.gateway.CopyMessage(ctx, chatID, ref, "", false); err != nil {
			metrics.IncDelivery("relay", "failed")
			r.log.Warn().Err(err).
				Int64("admin_id", adminID).
				Int64("recipient", chatID).
				Msg("relay delivery failed")
			continue
		}
		metrics.IncDelivery("relay", "ok")
	}
	return true, nil
}
