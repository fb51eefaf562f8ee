package repository

import (
	"context"

	"telegram-broadcast-bot/internal/domain/model"
)

type GroupRepository interface {
	// Create returns domain.ErrAlreadyExists on a duplicate name.
	Create(ctx context.Context, tx Tx, g *model.Group) error
	// Delete cascades membership rows. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, tx Tx, name string) error
	Exists(ctx context.Context, tx Tx, name string) (bool, error)
	ListNames(ctx context.Context, tx Tx) ([]string, error)
	// AddMember returns domain.ErrGroupNotFound when the group does not exist
	// and domain.ErrAlreadyExists on a duplicate membership.
	AddMember(ctx context.Context, tx Tx, m *model.Membership) error
	MemberIDs(ctx context.Context, tx Tx, name string) ([]int64, error)
}
