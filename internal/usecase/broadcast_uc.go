package usecase

import (
	"context"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"
	"telegram-broadcast-bot/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastUseCase performs fan-out deliveries. Deliveries run sequentially
// and a per-recipient failure never aborts the batch; only aggregate counts
// reach the caller.
type BroadcastUseCase interface {
	// ResolveRecipients expands a target to user ids. An unknown group
	// resolves to an empty set, not an error.
	ResolveRecipients(ctx context.Context, target model.BroadcastTarget) ([]int64, error)
	// SendText delivers text to every recipient except exclude (0 = none).
	SendText(ctx context.Context, target model.BroadcastTarget, text string, exclude int64) (model.DeliveryReport, error)
	// CopyTo replays a captured message to every recipient except exclude.
	CopyTo(ctx context.Context, target model.BroadcastTarget, ref adapter.MessageRef, caption string, overrideCaption bool, exclude int64) (model.DeliveryReport, error)
}

type broadcastUC struct {
	users   repository.UserRepository
	groups  repository.GroupRepository
	gateway adapter.MessageGateway
	log     *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	groups repository.GroupRepository,
	gateway adapter.MessageGateway,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		users:   users,
		groups:  groups,
		gateway: gateway,
		log:     logger,
	}
}

func (b *broadcastUC) ResolveRecipients(ctx context.Context, target model.BroadcastTarget) ([]int64, error) {
	if target.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if target.AllUsers {
		return b.users.ListIDs(ctx, repository.NoTX)
	}
	return b.groups.MemberIDs(ctx, repository.NoTX, target.Group)
}

func (b *broadcastUC) SendText(ctx context.Context, target model.BroadcastTarget, text string, exclude int64) (model.DeliveryReport, error) {
	defer logging.TraceDuration(b.log, "BroadcastUC.SendText")()
	return b.fanOut(ctx, target, "oneshot", exclude, func(ctx context.Context, chatID int64) error {
		return b.gateway.SendMessage(ctx, chatID, text)
	})
}

func (b *broadcastUC) CopyTo(ctx context.Context, target model.BroadcastTarget, ref adapter.MessageRef, caption string, overrideCaption bool, exclude int64) (model.DeliveryReport, error) {
	defer logging.TraceDuration(b.log, "BroadcastUC.CopyTo")()
	return b.fanOut(ctx, target, "broadcast", exclude, func(ctx context.Context, chatID int64) error {
		return b.gateway.CopyMessage(ctx, chatID, ref, caption, overrideCaption)
	})
}

// fanOut walks the recipient list one at a time. Errors are counted and
// logged, never returned.
func (b *broadcastUC) fanOut(
	ctx context.Context,
	target model.BroadcastTarget,
	kind string,
	exclude int64,
	deliver func(ctx context.Context, chatID int64) error,
) (model.DeliveryReport, error) {
	recipients, err := b.ResolveRecipients(ctx, target)
	if err != nil {
		return model.DeliveryReport{}, err
	}

	report := model.DeliveryReport{
		RunID:  ulid.Make().String(),
		Target: target,
	}
	for _, chatID := range recipients {
		if exclude != 0 && chatID == exclude {
			continue
		}
		if err := deliver(ctx, chatID); err != nil {
			report.Failed++
			metrics.IncDelivery(kind, "failed")
			b.log.Warn().Err(err).
				Str("run_id", report.RunID).
				Int64("recipient", chatID).
				Str("kind", kind).
				Msg("delivery failed")
			continue
		}
		report.Succeeded++
		metrics.IncDelivery(kind, "ok")
	}

	b.log.Info().
		Str("run_id", report.RunID).
		Str("target", target.Key()).
		Str("kind", kind).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("fan-out finished")
	return report, nil
}
