package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/usecase"
)

// Admin-facing texts are intentionally not localized; the admin surface is
// English only, like the help listing.
const (
	textSelectTarget  = "📣 Select the broadcast target:"
	textSendContent   = "Now send the message you want to broadcast. Any type works: text, photo, document, video."
	textAskCaption    = "Send a caption for the message, or /skip to keep the original one."
	textCaptionAsText = "Please send the caption as plain text, or /skip to keep the original one."
	textUseButtons    = "Please use the buttons above, or /cancel to abort."
	textConfirmSend   = "Ready to send. Proceed?"
	textCancelled     = "❌ Broadcast cancelled."
	textNothingCancel = "Nothing to cancel."
	textNothingSkip   = "Nothing to skip."
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *model.User, created bool) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	lang := user.LanguageCode

	switch msg.Command() {
	case "start":
		key := "welcome_back"
		if created {
			key = "welcome_new"
		}
		return b.SendMessage(ctx, chatID, b.bundle.T(lang, key, user.FullName()))

	case "help":
		return b.SendMessage(ctx, chatID, b.bundle.T(lang, "help"))

	case "language":
		return b.SendButtons(ctx, chatID, b.bundle.T(lang, "language_select"), b.languageRows(lang, false))

	case "remote":
		ok, err := b.requireAdmin(ctx, chatID, userID, lang)
		if err != nil || !ok {
			return err
		}
		return b.SendButtons(ctx, chatID, b.bundle.T(lang, "panel_title"), b.panelRows(lang))

	case "broadcast":
		ok, err := b.requireAdmin(ctx, chatID, userID, lang)
		if err != nil || !ok {
			return err
		}
		groups, err := b.facade.Wizard.Start(ctx, chatID)
		if err != nil {
			return err
		}
		return b.SendButtons(ctx, chatID, textSelectTarget, targetRows(groups))

	case "cancel":
		ok, err := b.facade.Access.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return b.SendMessage(ctx, chatID, b.bundle.T(lang, "unknown_command"))
		}
		active, err := b.facade.Wizard.Cancel(ctx, chatID)
		if err != nil {
			return err
		}
		if !active {
			return b.SendMessage(ctx, chatID, textNothingCancel)
		}
		return b.SendMessage(ctx, chatID, textCancelled)

	case "skip":
		ok, err := b.facade.Access.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return b.SendMessage(ctx, chatID, b.bundle.T(lang, "unknown_command"))
		}
		err = b.facade.Wizard.SetCaption(ctx, chatID, "", true)
		switch {
		case err == nil:
			return b.SendButtons(ctx, chatID, textConfirmSend, confirmRows())
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidArgument):
			return b.SendMessage(ctx, chatID, textNothingSkip)
		default:
			return err
		}

	case "sudo":
		return b.handleSudo(ctx, msg, lang)

	default:
		return b.SendMessage(ctx, chatID, b.bundle.T(lang, "unknown_command"))
	}
}

// handleWizardMessage advances an in-flight wizard session with a free-form
// message from the admin.
func (b *Bot) handleWizardMessage(ctx context.Context, msg *tgbotapi.Message, state *repository.WizardState) error {
	chatID := msg.Chat.ID

	switch state.Step {
	case usecase.StepSelectFile:
		ref := adapter.MessageRef{ChatID: chatID, MessageID: msg.MessageID}
		if err := b.facade.Wizard.CaptureMessage(ctx, chatID, ref); err != nil {
			return err
		}
		return b.SendMessage(ctx, chatID, textAskCaption)

	case usecase.StepGetCaption:
		if msg.Text == "" {
			return b.SendMessage(ctx, chatID, textCaptionAsText)
		}
		if err := b.facade.Wizard.SetCaption(ctx, chatID, msg.Text, false); err != nil {
			return err
		}
		return b.SendButtons(ctx, chatID, textConfirmSend, confirmRows())

	default:
		// select_target and confirm_send advance via inline buttons only
		return b.SendMessage(ctx, chatID, textUseButtons)
	}
}

// requireAdmin short-circuits non-admins with the localized denial notice.
func (b *Bot) requireAdmin(ctx context.Context, chatID, userID int64, lang string) (bool, error) {
	ok, err := b.facade.Access.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, b.SendMessage(ctx, chatID, b.bundle.T(lang, "access_denied"))
	}
	return true, nil
}

func (b *Bot) panelRows(lang string) [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: b.bundle.T(lang, "panel_profile"), Data: "rc_profile"}},
		{{Text: b.bundle.T(lang, "panel_language"), Data: "rc_lang"}},
		{{Text: b.bundle.T(lang, "panel_status"), Data: "rc_status"}},
		{{Text: b.bundle.T(lang, "panel_close"), Data: "rc_close"}},
	}
}

// languageRows renders one button per loaded locale. withBack adds the
// panel back button for the control-panel variant.
func (b *Bot) languageRows(lang string, withBack bool) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(b.bundle.Languages())+1)
	for _, code := range b.bundle.Languages() {
		rows = append(rows, []adapter.InlineButton{{Text: langName(code), Data: "lang_" + code}})
	}
	if withBack {
		rows = append(rows, []adapter.InlineButton{{Text: b.bundle.T(lang, "panel_back"), Data: "rc_main"}})
	}
	return rows
}

func targetRows(groups []string) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(groups)+2)
	rows = append(rows, []adapter.InlineButton{{Text: "👥 All users", Data: "target:all"}})
	for _, name := range groups {
		rows = append(rows, []adapter.InlineButton{{Text: "📁 " + name, Data: "target:grp:" + name}})
	}
	rows = append(rows, []adapter.InlineButton{{Text: "❌ Cancel", Data: "bcast:cancel"}})
	return rows
}

func confirmRows() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: "✅ Send now", Data: "bcast:send"}},
		{{Text: "❌ Cancel", Data: "bcast:cancel"}},
	}
}

// langName maps locale codes to their native display names.
func langName(code string) string {
	switch code {
	case "en":
		return "English"
	case "es":
		return "Español"
	case "ta":
		return "தமிழ்"
	default:
		return code
	}
}

func reportText(succeeded, failed int) string {
	return fmt.Sprintf("✅ Broadcast complete.\nSent: %d\nFailed: %d", succeeded, failed)
}
