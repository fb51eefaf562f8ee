package usecase

import (
	"context"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ GroupUseCase = (*groupUC)(nil)

// GroupUseCase manages broadcast cohorts and their memberships.
type GroupUseCase interface {
	// Create returns domain.ErrAlreadyExists on a duplicate name.
	Create(ctx context.Context, name string) error
	// Delete returns domain.ErrNotFound when the group does not exist.
	// Membership rows are removed with the group.
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	ListNames(ctx context.Context) ([]string, error)
	// AddMember returns domain.ErrGroupNotFound for an unknown group and
	// domain.ErrAlreadyExists for a duplicate membership.
	AddMember(ctx context.Context, tgID int64, group string) error
	MemberIDs(ctx context.Context, name string) ([]int64, error)
}

type groupUC struct {
	groups repository.GroupRepository
	log    *zerolog.Logger
}

func NewGroupUseCase(groups repository.GroupRepository, logger *zerolog.Logger) *groupUC {
	return &groupUC{groups: groups, log: logger}
}

func (g *groupUC) Create(ctx context.Context, name string) error {
	defer logging.TraceDuration(g.log, "GroupUC.Create")()
	grp, err := model.NewGroup(name)
	if err != nil {
		return err
	}
	if err := g.groups.Create(ctx, repository.NoTX, grp); err != nil {
		return err
	}
	g.log.Info().Str("group", name).Msg("group created")
	return nil
}

func (g *groupUC) Delete(ctx context.Context, name string) error {
	defer logging.TraceDuration(g.log, "GroupUC.Delete")()
	if name == "" {
		return domain.ErrInvalidArgument
	}
	if err := g.groups.Delete(ctx, repository.NoTX, name); err != nil {
		return err
	}
	g.log.Info().Str("group", name).Msg("group deleted")
	return nil
}

func (g *groupUC) Exists(ctx context.Context, name string) (bool, error) {
	return g.groups.Exists(ctx, repository.NoTX, name)
}

func (g *groupUC) ListNames(ctx context.Context) ([]string, error) {
	return g.groups.ListNames(ctx, repository.NoTX)
}

func (g *groupUC) AddMember(ctx context.Context, tgID int64, group string) error {
	defer logging.TraceDuration(g.log, "GroupUC.AddMember")()
	m, err := model.NewMembership(tgID, group)
	if err != nil {
		return err
	}
	return g.groups.AddMember(ctx, repository.NoTX, m)
}

func (g *groupUC) MemberIDs(ctx context.Context, name string) ([]int64, error) {
	return g.groups.MemberIDs(ctx, repository.NoTX, name)
}
