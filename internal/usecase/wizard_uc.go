package usecase

import (
	"context"
	"fmt"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Wizard steps, stored verbatim in the state record.
const (
	StepSelectTarget = "select_target"
	StepSelectFile   = "select_file"
	StepGetCaption   = "get_caption"
	StepConfirmSend  = "confirm_send"
)

// Compile-time check
var _ WizardUseCase = (*wizardUC)(nil)

// WizardUseCase drives the multi-step broadcast flow. One session per chat;
// abandoned sessions expire via the state store TTL.
type WizardUseCase interface {
	// Start opens a fresh session and returns the group names to offer as
	// targets alongside the "all users" choice.
	Start(ctx context.Context, chatID int64) ([]string, error)
	SelectTarget(ctx context.Context, chatID int64, target string) error
	// CaptureMessage records the message to replay, by reference.
	CaptureMessage(ctx context.Context, chatID int64, ref adapter.MessageRef) error
	// SetCaption stores the caption text; with skip the original message's
	// own caption is kept instead.
	SetCaption(ctx context.Context, chatID int64, caption string, skip bool) error
	// ConfirmSend runs the fan-out and ends the session.
	ConfirmSend(ctx context.Context, chatID int64) (model.DeliveryReport, error)
	// Cancel ends the session; reports whether one was active.
	Cancel(ctx context.Context, chatID int64) (bool, error)
	Current(ctx context.Context, chatID int64) (*repository.WizardState, error)
}

type wizardUC struct {
	states    repository.WizardStateRepository
	groups    repository.GroupRepository
	broadcast BroadcastUseCase
	log       *zerolog.Logger
}

func NewWizardUseCase(
	states repository.WizardStateRepository,
	groups repository.GroupRepository,
	broadcast BroadcastUseCase,
	logger *zerolog.Logger,
) *wizardUC {
	return &wizardUC{
		states:    states,
		groups:    groups,
		broadcast: broadcast,
		log:       logger,
	}
}

func (w *wizardUC) Start(ctx context.Context, chatID int64) ([]string, error) {
	defer logging.TraceDuration(w.log, "WizardUC.Start")()
	names, err := w.groups.ListNames(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	// Starting over replaces any session left from an earlier attempt.
	if err := w.states.SetState(ctx, chatID, &repository.WizardState{Step: StepSelectTarget}); err != nil {
		return nil, err
	}
	return names, nil
}

func (w *wizardUC) SelectTarget(ctx context.Context, chatID int64, target string) error {
	defer logging.TraceDuration(w.log, "WizardUC.SelectTarget")()
	state, err := w.require(ctx, chatID, StepSelectTarget)
	if err != nil {
		return err
	}
	if target == "" {
		return domain.ErrInvalidArgument
	}
	if target != model.TargetAllKey {
		exists, err := w.groups.Exists(ctx, repository.NoTX, target)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrGroupNotFound
		}
	}
	state.Target = target
	state.Step = StepSelectFile
	return w.states.SetState(ctx, chatID, state)
}

func (w *wizardUC) CaptureMessage(ctx context.Context, chatID int64, ref adapter.MessageRef) error {
	defer logging.TraceDuration(w.log, "WizardUC.CaptureMessage")()
	state, err := w.require(ctx, chatID, StepSelectFile)
	if err != nil {
		return err
	}
	state.FromChatID = ref.ChatID
	state.MessageID = ref.MessageID
	state.Step = StepGetCaption
	return w.states.SetState(ctx, chatID, state)
}

func (w *wizardUC) SetCaption(ctx context.Context, chatID int64, caption string, skip bool) error {
	defer logging.TraceDuration(w.log, "WizardUC.SetCaption")()
	state, err := w.require(ctx, chatID, StepGetCaption)
	if err != nil {
		return err
	}
	if !skip {
		state.Caption = caption
		state.OverrideCaption = true
	}
	state.Step = StepConfirmSend
	return w.states.SetState(ctx, chatID, state)
}

func (w *wizardUC) ConfirmSend(ctx context.Context, chatID int64) (model.DeliveryReport, error) {
	defer logging.TraceDuration(w.log, "WizardUC.ConfirmSend")()
	state, err := w.require(ctx, chatID, StepConfirmSend)
	if err != nil {
		return model.DeliveryReport{}, err
	}

	ref := adapter.MessageRef{ChatID: state.FromChatID, MessageID: state.MessageID}
	report, err := w.broadcast.CopyTo(ctx, model.ParseTarget(state.Target), ref, state.Caption, state.OverrideCaption, 0)
	if err != nil {
		return model.DeliveryReport{}, err
	}
	if err := w.states.ClearState(ctx, chatID); err != nil {
		w.log.Warn().Err(err).Int64("chat_id", chatID).Msg("clearing wizard state failed")
	}
	return report, nil
}

func (w *wizardUC) Cancel(ctx context.Context, chatID int64) (bool, error) {
	defer logging.TraceDuration(w.log, "WizardUC.Cancel")()
	state, err := w.states.GetState(ctx, chatID)
	if err != nil {
		return false, err
	}
	if state == nil {
		return false, nil
	}
	return true, w.states.ClearState(ctx, chatID)
}

func (w *wizardUC) Current(ctx context.Context, chatID int64) (*repository.WizardState, error) {
	return w.states.GetState(ctx, chatID)
}

// require loads the session and checks it is at the expected step.
func (w *wizardUC) require(ctx context.Context, chatID int64, step string) (*repository.WizardState, error) {
	state, err := w.states.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrNotFound
	}
	if state.Step != step {
		return nil, fmt.Errorf("%w: wizard at step %s, want %s", domain.ErrInvalidArgument, state.Step, step)
	}
	return state, nil
}
