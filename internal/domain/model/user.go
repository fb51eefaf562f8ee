package model

import (
	"strings"
	"time"

	"telegram-broadcast-bot/internal/domain"
)

// DefaultLanguage is assumed whenever Telegram does not report one.
const DefaultLanguage = "en"

// User is a domain entity representing a Telegram user in our system.
// TelegramID is the only stable identity; display fields are refreshed
// from the platform on every interaction and never trusted to be stable.
type User struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsPremium    bool
	IsBanned     bool
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(tgID int64, username, firstName, lastName, languageCode string, premium bool) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if languageCode == "" {
		languageCode = DefaultLanguage
	}
	now := time.Now()
	return &User{
		TelegramID:   tgID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		IsPremium:    premium,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.TelegramID == 0 }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

// FullName joins first and last name the way Telegram displays them.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
