//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/usecase"
)

func TestUserUC_RegisterOrRefresh(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserRepo()
	uc := usecase.NewUserUseCase(users, &MockTxManager{}, testLogger())

	profile := usecase.UserProfile{
		TelegramID:   10,
		Username:     "alice",
		FirstName:    "Alice",
		LanguageCode: "es",
	}

	t.Run("should create on first contact", func(t *testing.T) {
		u, created, err := uc.RegisterOrRefresh(ctx, profile)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if !created {
			t.Fatal("want created=true on first contact")
		}
		if u.LanguageCode != "es" {
			t.Fatalf("want language es, got %s", u.LanguageCode)
		}
	})

	t.Run("should refresh display fields but keep language", func(t *testing.T) {
		if err := uc.SetLanguage(ctx, 10, "ta"); err != nil {
			t.Fatalf("set language: %v", err)
		}

		refreshed := profile
		refreshed.Username = "alice_new"
		refreshed.LanguageCode = "en" // Telegram client language changed

		u, created, err := uc.RegisterOrRefresh(ctx, refreshed)
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if created {
			t.Fatal("want created=false on repeat contact")
		}
		if u.Username != "alice_new" {
			t.Fatalf("want refreshed username, got %s", u.Username)
		}
		if u.LanguageCode != "ta" {
			t.Fatalf("explicit language choice must survive refresh, got %s", u.LanguageCode)
		}
	})

	t.Run("should keep a stored premium flag across refreshes", func(t *testing.T) {
		users.Users[10].IsPremium = true

		u, _, err := uc.RegisterOrRefresh(ctx, profile)
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if !u.IsPremium {
			t.Fatal("premium flag must not be cleared by a refresh")
		}
	})
}

func TestUserUC_BanAndFilter(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserRepo()
	uc := usecase.NewUserUseCase(users, &MockTxManager{}, testLogger())

	seedUser(users, 1, "en")
	seedUser(users, 2, "es")
	seedUser(users, 3, "es")

	t.Run("should reject banning unknown users", func(t *testing.T) {
		if err := uc.SetBanned(ctx, 404, true); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("should filter by language and ban flag", func(t *testing.T) {
		if err := uc.SetBanned(ctx, 2, true); err != nil {
			t.Fatalf("ban: %v", err)
		}

		es, err := uc.List(ctx, repository.UserFilter{Language: "es"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(es) != 2 {
			t.Fatalf("want 2 spanish users, got %d", len(es))
		}

		banned, err := uc.List(ctx, repository.UserFilter{BannedOnly: true})
		if err != nil {
			t.Fatalf("list banned: %v", err)
		}
		if len(banned) != 1 || banned[0].TelegramID != 2 {
			t.Fatalf("want exactly user 2 banned, got %v", banned)
		}
	})

	t.Run("should count all users", func(t *testing.T) {
		n, err := uc.Count(ctx)
		if err != nil || n != 3 {
			t.Fatalf("want 3 users, got %d err=%v", n, err)
		}
	})
}
