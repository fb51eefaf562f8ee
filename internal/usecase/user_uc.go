package usecase

import (
	"context"
	"errors"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserProfile carries the identity fields Telegram reports on every update.
type UserProfile struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsPremium    bool
}

// UserUseCase exposes user registration and account operations.
type UserUseCase interface {
	// RegisterOrRefresh upserts the user and reports whether it was a first
	// registration. Display fields are refreshed; language, ban and a stored
	// premium flag survive (the Bot API version in use never reports premium,
	// so a refresh can switch it on but never off).
	RegisterOrRefresh(ctx context.Context, p UserProfile) (*model.User, bool, error)
	Get(ctx context.Context, tgID int64) (*model.User, error)
	SetLanguage(ctx context.Context, tgID int64, lang string) error
	SetBanned(ctx context.Context, tgID int64, banned bool) error
	List(ctx context.Context, f repository.UserFilter) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{
		users: users,
		tm:    tm,
		log:   logger,
	}
}

func (u *userUC) RegisterOrRefresh(ctx context.Context, p UserProfile) (*model.User, bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.RegisterOrRefresh")()

	var (
		user    *model.User
		created bool
	)
	// Find and save run as one atomic unit so two concurrent first messages
	// from the same user cannot both count as a registration.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.users.FindByTelegramID(ctx, tx, p.TelegramID)
		switch {
		case err == nil:
			existing.Username = p.Username
			existing.FirstName = p.FirstName
			existing.LastName = p.LastName
			if p.IsPremium {
				existing.IsPremium = true
			}
			existing.Touch()
			if err := u.users.Save(ctx, tx, existing); err != nil {
				return err
			}
			user = existing
			return nil
		case errors.Is(err, domain.ErrNotFound):
			nu, err := model.NewUser(p.TelegramID, p.Username, p.FirstName, p.LastName, p.LanguageCode, p.IsPremium)
			if err != nil {
				return err
			}
			if err := u.users.Save(ctx, tx, nu); err != nil {
				return err
			}
			user = nu
			created = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		u.log.Info().Int64("tg_id", user.TelegramID).Msg("new user registered")
	}
	return user, created, nil
}

func (u *userUC) Get(ctx context.Context, tgID int64) (*model.User, error) {
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (u *userUC) SetLanguage(ctx context.Context, tgID int64, lang string) error {
	defer logging.TraceDuration(u.log, "UserUC.SetLanguage")()
	return u.users.SetLanguage(ctx, repository.NoTX, tgID, lang)
}

func (u *userUC) SetBanned(ctx context.Context, tgID int64, banned bool) error {
	defer logging.TraceDuration(u.log, "UserUC.SetBanned")()
	if err := u.users.SetBanned(ctx, repository.NoTX, tgID, banned); err != nil {
		return err
	}
	u.log.Info().Int64("tg_id", tgID).Bool("banned", banned).Msg("ban flag updated")
	return nil
}

func (u *userUC) List(ctx context.Context, f repository.UserFilter) ([]*model.User, error) {
	return u.users.ListFiltered(ctx, repository.NoTX, f)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, repository.NoTX)
}
