package usecase

import (
	"context"
	"errors"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

// AccessUseCase is the authorization gate. Every user-facing handler asks
// IsBotUsable first; admin-only handlers ask IsAdmin first.
type AccessUseCase interface {
	IsAdmin(ctx context.Context, tgID int64) (bool, error)
	IsBotUsable(ctx context.Context, tgID int64) (bool, error)
	// DisableBot flips the global kill-switch; only admins pass the gate after.
	DisableBot(ctx context.Context) error
	// PromoteAdmin returns domain.ErrAlreadyExists when already an admin.
	PromoteAdmin(ctx context.Context, tgID int64) error
	// DemoteAdmin returns domain.ErrNotFound when not an admin. The root
	// admin cannot be demoted.
	DemoteAdmin(ctx context.Context, tgID int64) error
	ListAdmins(ctx context.Context) ([]int64, error)
}

type accessUC struct {
	rootAdminID int64
	admins      repository.AdminRepository
	users       repository.UserRepository
	settings    repository.SettingRepository
	log         *zerolog.Logger
}

func NewAccessUseCase(
	rootAdminID int64,
	admins repository.AdminRepository,
	users repository.UserRepository,
	settings repository.SettingRepository,
	logger *zerolog.Logger,
) *accessUC {
	return &accessUC{
		rootAdminID: rootAdminID,
		admins:      admins,
		users:       users,
		settings:    settings,
		log:         logger,
	}
}

func (a *accessUC) IsAdmin(ctx context.Context, tgID int64) (bool, error) {
	if a.rootAdminID != 0 && tgID == a.rootAdminID {
		return true, nil
	}
	return a.admins.Exists(ctx, repository.NoTX, tgID)
}

// IsBotUsable is false for banned users, and for non-admins while the
// kill-switch is on. Users we have never seen are treated as not banned.
func (a *accessUC) IsBotUsable(ctx context.Context, tgID int64) (bool, error) {
	user, err := a.users.FindByTelegramID(ctx, repository.NoTX, tgID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if user != nil && user.IsBanned {
		return false, nil
	}

	disabled, err := a.settings.Get(ctx, repository.NoTX, repository.SettingBotDisabled)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	if disabled != "true" {
		return true, nil
	}
	return a.IsAdmin(ctx, tgID)
}

func (a *accessUC) DisableBot(ctx context.Context) error {
	defer logging.TraceDuration(a.log, "AccessUC.DisableBot")()
	if err := a.settings.Set(ctx, repository.NoTX, repository.SettingBotDisabled, "true"); err != nil {
		return err
	}
	a.log.Warn().Msg("global kill-switch enabled")
	return nil
}

func (a *accessUC) PromoteAdmin(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(a.log, "AccessUC.PromoteAdmin")()
	if tgID <= 0 {
		return domain.ErrInvalidArgument
	}
	if err := a.admins.Add(ctx, repository.NoTX, tgID); err != nil {
		return err
	}
	a.log.Info().Int64("admin_id", tgID).Msg("admin promoted")
	return nil
}

func (a *accessUC) DemoteAdmin(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(a.log, "AccessUC.DemoteAdmin")()
	if a.rootAdminID != 0 && tgID == a.rootAdminID {
		return domain.ErrAccessDenied
	}
	if err := a.admins.Remove(ctx, repository.NoTX, tgID); err != nil {
		return err
	}
	a.log.Info().Int64("admin_id", tgID).Msg("admin demoted")
	return nil
}

func (a *accessUC) ListAdmins(ctx context.Context) ([]int64, error) {
	return a.admins.List(ctx, repository.NoTX)
}
