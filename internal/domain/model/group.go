package model

import (
	"strings"
	"time"

	"telegram-broadcast-bot/internal/domain"
)

// Group is an admin-defined named cohort of users. The name is the key.
type Group struct {
	Name      string
	CreatedAt time.Time
}

func NewGroup(name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Group{Name: name, CreatedAt: time.Now()}, nil
}

// Membership links a user to a group. Unique per (user, group) pair.
type Membership struct {
	TelegramID int64
	GroupName  string
	AddedAt    time.Time
}

func NewMembership(tgID int64, groupName string) (*Membership, error) {
	groupName = strings.TrimSpace(groupName)
	if tgID <= 0 || groupName == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Membership{TelegramID: tgID, GroupName: groupName, AddedAt: time.Now()}, nil
}
