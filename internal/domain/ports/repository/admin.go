package repository

import "context"

// AdminRepository is the dynamic admin role set. The statically configured
// root admin lives outside this set and is resolved by the access use case.
type AdminRepository interface {
	// Add returns domain.ErrAlreadyExists when the id is already an admin.
	Add(ctx context.Context, tx Tx, tgID int64) error
	// Remove returns domain.ErrNotFound when the id is not an admin.
	Remove(ctx context.Context, tx Tx, tgID int64) error
	Exists(ctx context.Context, tx Tx, tgID int64) (bool, error)
	List(ctx context.Context, tx Tx) ([]int64, error)
}
