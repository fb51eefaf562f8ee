package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/infra/logging"
	red "telegram-broadcast-bot/internal/infra/redis"
)

const (
	textSessionExpired = "Session expired. Start again with /broadcast."
	textGroupGone      = "That group no longer exists. Start again with /broadcast."
	textNoPendingSend  = "No broadcast pending."
)

// callbackAction is the closed set of inline button actions. Decoding up
// front keeps the dispatch switch exhaustive and the wire strings in one
// place.
type callbackAction interface{ isCallbackAction() }

type actMainMenu struct{}
type actProfile struct{}
type actLangMenu struct{}
type actStatus struct{}
type actClose struct{}
type actSetLang struct{ Code string }
type actWizardTarget struct{ Target string }
type actWizardSend struct{}
type actWizardCancel struct{}

func (actMainMenu) isCallbackAction()     {}
func (actProfile) isCallbackAction()      {}
func (actLangMenu) isCallbackAction()     {}
func (actStatus) isCallbackAction()       {}
func (actClose) isCallbackAction()        {}
func (actSetLang) isCallbackAction()      {}
func (actWizardTarget) isCallbackAction() {}
func (actWizardSend) isCallbackAction()   {}
func (actWizardCancel) isCallbackAction() {}

func decodeCallback(data string) (callbackAction, bool) {
	switch data {
	case "rc_main":
		return actMainMenu{}, true
	case "rc_profile":
		return actProfile{}, true
	case "rc_lang":
		return actLangMenu{}, true
	case "rc_status":
		return actStatus{}, true
	case "rc_close":
		return actClose{}, true
	case "target:all":
		return actWizardTarget{Target: model.TargetAllKey}, true
	case "bcast:send":
		return actWizardSend{}, true
	case "bcast:cancel":
		return actWizardCancel{}, true
	}
	switch {
	case strings.HasPrefix(data, "lang_"):
		code := strings.TrimPrefix(data, "lang_")
		if code == "" {
			return nil, false
		}
		return actSetLang{Code: code}, true
	case strings.HasPrefix(data, "target:grp:"):
		name := strings.TrimPrefix(data, "target:grp:")
		if name == "" {
			return nil, false
		}
		return actWizardTarget{Target: name}, true
	}
	return nil, false
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q.From == nil {
		return nil
	}
	// stop the Telegram client spinner whatever happens
	defer func() { _, _ = b.api.Request(tgbotapi.NewCallback(q.ID, "")) }()

	if q.Message == nil {
		return nil
	}
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID
	ctx = logging.WithTgID(ctx, userID)

	action, ok := decodeCallback(strings.TrimSpace(q.Data))
	if !ok {
		// unmatched identifiers are ignored on purpose
		return nil
	}

	if b.limiter != nil {
		if allowed, err := b.limiter.Allow(ctx, red.UserCommandKey(userID, "callback"), 30, time.Minute); err == nil && !allowed {
			return nil
		}
	}

	lang := model.DefaultLanguage
	user, err := b.facade.User.Get(ctx, userID)
	switch {
	case err == nil:
		lang = user.LanguageCode
	case errors.Is(err, domain.ErrNotFound):
		user = nil
	default:
		return err
	}

	usable, err := b.facade.Access.IsBotUsable(ctx, userID)
	if err != nil {
		return err
	}
	if !usable {
		return b.SendMessage(ctx, chatID, b.bundle.T(lang, "bot_disabled"))
	}

	switch a := action.(type) {
	case actMainMenu:
		return b.EditMessage(ctx, chatID, messageID, b.bundle.T(lang, "panel_title"), b.panelRows(lang))

	case actProfile:
		if user == nil {
			return b.EditMessage(ctx, chatID, messageID, b.bundle.T(lang, "profile_not_found"), b.backRows(lang))
		}
		premium := b.bundle.T(lang, "premium_no")
		if user.IsPremium {
			premium = b.bundle.T(lang, "premium_yes")
		}
		text := b.bundle.T(lang, "profile_text", user.FullName(), user.Username, user.TelegramID, langName(user.LanguageCode), premium)
		return b.EditMessage(ctx, chatID, messageID, text, b.backRows(lang))

	case actLangMenu:
		return b.EditMessage(ctx, chatID, messageID, b.bundle.T(lang, "language_select"), b.languageRows(lang, true))

	case actStatus:
		return b.EditMessage(ctx, chatID, messageID, b.bundle.T(lang, "status_text"), b.backRows(lang))

	case actClose:
		return b.DeleteMessage(ctx, chatID, messageID)

	case actSetLang:
		if !b.bundle.Has(a.Code) {
			return nil
		}
		if err := b.facade.User.SetLanguage(ctx, userID, a.Code); err != nil {
			return err
		}
		return b.EditMessage(ctx, chatID, messageID, b.bundle.T(a.Code, "language_changed", langName(a.Code)), b.backRows(a.Code))

	case actWizardTarget:
		return b.onWizardTarget(ctx, chatID, messageID, userID, lang, a.Target)

	case actWizardSend:
		return b.onWizardSend(ctx, chatID, messageID, userID, lang)

	case actWizardCancel:
		ok, err := b.requireAdmin(ctx, chatID, userID, lang)
		if err != nil || !ok {
			return err
		}
		if _, err := b.facade.Wizard.Cancel(ctx, chatID); err != nil {
			return err
		}
		return b.EditMessage(ctx, chatID, messageID, textCancelled, nil)
	}
	return nil
}

func (b *Bot) onWizardTarget(ctx context.Context, chatID int64, messageID int, userID int64, lang, target string) error {
	ok, err := b.requireAdmin(ctx, chatID, userID, lang)
	if err != nil || !ok {
		return err
	}
	err = b.facade.Wizard.SelectTarget(ctx, chatID, target)
	switch {
	case err == nil:
		return b.EditMessage(ctx, chatID, messageID, textSendContent, nil)
	case errors.Is(err, domain.ErrGroupNotFound):
		return b.EditMessage(ctx, chatID, messageID, textGroupGone, nil)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidArgument):
		return b.EditMessage(ctx, chatID, messageID, textSessionExpired, nil)
	default:
		return err
	}
}

func (b *Bot) onWizardSend(ctx context.Context, chatID int64, messageID int, userID int64, lang string) error {
	ok, err := b.requireAdmin(ctx, chatID, userID, lang)
	if err != nil || !ok {
		return err
	}
	report, err := b.facade.Wizard.ConfirmSend(ctx, chatID)
	switch {
	case err == nil:
		return b.EditMessage(ctx, chatID, messageID, reportText(report.Succeeded, report.Failed), nil)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidArgument):
		return b.EditMessage(ctx, chatID, messageID, textNoPendingSend, nil)
	default:
		return err
	}
}

func (b *Bot) backRows(lang string) [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: b.bundle.T(lang, "panel_back"), Data: "rc_main"}},
	}
}
