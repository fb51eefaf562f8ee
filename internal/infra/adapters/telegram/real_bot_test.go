//go:build !integration

package telegram

import (
	"testing"

	"telegram-broadcast-bot/internal/domain/ports/adapter"
)

func TestCopyConfig(t *testing.T) {
	ref := adapter.MessageRef{ChatID: 42, MessageID: 7}

	t.Run("should address the copy from the captured message", func(t *testing.T) {
		cfg := copyConfig(99, ref, "ignored", false)
		if cfg.ChatID != 99 || cfg.FromChatID != 42 || cfg.MessageID != 7 {
			t.Fatalf("bad addressing: %+v", cfg)
		}
	})

	t.Run("should keep the original caption by default", func(t *testing.T) {
		cfg := copyConfig(99, ref, "ignored", false)
		if cfg.Caption != "" {
			t.Fatalf("caption must stay empty, got %q", cfg.Caption)
		}
	})

	t.Run("should set the caption when overriding", func(t *testing.T) {
		cfg := copyConfig(99, ref, "fresh caption", true)
		if cfg.Caption != "fresh caption" {
			t.Fatalf("got %q", cfg.Caption)
		}
	})
}
