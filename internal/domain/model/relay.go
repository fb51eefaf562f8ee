package model

import (
	"time"

	"telegram-broadcast-bot/internal/domain"
)

// RelaySession is a standing per-admin subscription: while it exists,
// every non-command message the admin sends is mirrored to the target
// cohort. It persists until explicitly stopped.
type RelaySession struct {
	AdminID     int64           `json:"admin_id"`
	Target      BroadcastTarget `json:"target"`
	ActivatedAt time.Time       `json:"activated_at"`
}

func NewRelaySession(adminID int64, target BroadcastTarget) (*RelaySession, error) {
	if adminID <= 0 || target.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	return &RelaySession{AdminID: adminID, Target: target, ActivatedAt: time.Now()}, nil
}
