//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/usecase"
)

const rootID = int64(1000)

func newAccess(admins *MockAdminRepo, users *MockUserRepo, settings *MockSettingRepo) usecase.AccessUseCase {
	return usecase.NewAccessUseCase(rootID, admins, users, settings, testLogger())
}

func TestAccessUC_IsAdmin(t *testing.T) {
	ctx := context.Background()
	admins := NewMockAdminRepo()
	uc := newAccess(admins, NewMockUserRepo(), NewMockSettingRepo())

	t.Run("should always recognize the root admin", func(t *testing.T) {
		ok, err := uc.IsAdmin(ctx, rootID)
		if err != nil || !ok {
			t.Fatalf("want root admin true, got %v err=%v", ok, err)
		}
	})

	t.Run("should deny unknown ids until promoted", func(t *testing.T) {
		ok, _ := uc.IsAdmin(ctx, 42)
		if ok {
			t.Fatal("user 42 must not be admin yet")
		}
		if err := uc.PromoteAdmin(ctx, 42); err != nil {
			t.Fatalf("promote: %v", err)
		}
		if ok, _ := uc.IsAdmin(ctx, 42); !ok {
			t.Fatal("user 42 must be admin after promote")
		}
		if err := uc.DemoteAdmin(ctx, 42); err != nil {
			t.Fatalf("demote: %v", err)
		}
		if ok, _ := uc.IsAdmin(ctx, 42); ok {
			t.Fatal("user 42 must not be admin after demote")
		}
	})

	t.Run("should report duplicate promote as conflict", func(t *testing.T) {
		if err := uc.PromoteAdmin(ctx, 7); err != nil {
			t.Fatalf("promote: %v", err)
		}
		if err := uc.PromoteAdmin(ctx, 7); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("want ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("should refuse to demote the root admin", func(t *testing.T) {
		if err := uc.DemoteAdmin(ctx, rootID); !errors.Is(err, domain.ErrAccessDenied) {
			t.Fatalf("want ErrAccessDenied, got %v", err)
		}
		if ok, _ := uc.IsAdmin(ctx, rootID); !ok {
			t.Fatal("root admin must remain admin")
		}
	})
}

func TestAccessUC_IsBotUsable(t *testing.T) {
	ctx := context.Background()
	admins := NewMockAdminRepo(2000)
	users := NewMockUserRepo()
	settings := NewMockSettingRepo()
	uc := newAccess(admins, users, settings)

	seedUser(users, 50, "en")

	t.Run("should allow everyone while the kill-switch is off", func(t *testing.T) {
		for _, id := range []int64{50, 2000, rootID, 999} {
			ok, err := uc.IsBotUsable(ctx, id)
			if err != nil || !ok {
				t.Fatalf("id %d: want usable, got %v err=%v", id, ok, err)
			}
		}
	})

	t.Run("should block only non-admins after the kill-switch", func(t *testing.T) {
		if err := uc.DisableBot(ctx); err != nil {
			t.Fatalf("disable: %v", err)
		}
		if ok, _ := uc.IsBotUsable(ctx, 50); ok {
			t.Fatal("plain user must be blocked")
		}
		if ok, _ := uc.IsBotUsable(ctx, 2000); !ok {
			t.Fatal("directory admin must pass")
		}
		if ok, _ := uc.IsBotUsable(ctx, rootID); !ok {
			t.Fatal("root admin must pass")
		}
	})

	t.Run("should block banned users regardless of kill-switch", func(t *testing.T) {
		settings.Values = map[string]string{}
		banned := seedUser(users, 60, "en")
		if err := users.SetBanned(ctx, nil, banned.TelegramID, true); err != nil {
			t.Fatalf("ban: %v", err)
		}
		if ok, _ := uc.IsBotUsable(ctx, 60); ok {
			t.Fatal("banned user must be blocked")
		}
		if err := users.SetBanned(ctx, nil, banned.TelegramID, false); err != nil {
			t.Fatalf("unban: %v", err)
		}
		if ok, _ := uc.IsBotUsable(ctx, 60); !ok {
			t.Fatal("unbanned user must be usable again")
		}
	})
}
