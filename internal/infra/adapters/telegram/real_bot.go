package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-broadcast-bot/internal/application"
	"telegram-broadcast-bot/internal/config"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/adapter"
	"telegram-broadcast-bot/internal/infra/i18n"
	"telegram-broadcast-bot/internal/infra/logging"
	"telegram-broadcast-bot/internal/infra/metrics"
	red "telegram-broadcast-bot/internal/infra/redis"
	"telegram-broadcast-bot/internal/infra/worker"
	"telegram-broadcast-bot/internal/usecase"
)

// Compile-time check
var _ adapter.MessageGateway = (*Bot)(nil)

// Bot polls Telegram updates and dispatches them through the facade. It also
// implements the MessageGateway port, so the usecases deliver through the
// same client that receives.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.BotConfig
	bundle  *i18n.Bundle
	limiter *red.RateLimiter
	pool    *worker.Pool
	log     *zerolog.Logger

	// facade is injected via Bind after construction: the usecases need the
	// gateway (this bot) before the bot can hold the facade.
	facade *application.BotFacade

	cancelPolling context.CancelFunc
}

func NewBot(cfg *config.BotConfig, bundle *i18n.Bundle, limiter *red.RateLimiter, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if bundle == nil {
		return nil, errors.New("i18n bundle is nil")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:     api,
		cfg:     cfg,
		bundle:  bundle,
		limiter: limiter,
		pool:    worker.NewPool(cfg.Workers, logger),
		log:     logger,
	}, nil
}

// Bind attaches the composed facade. Must be called before StartPolling.
func (b *Bot) Bind(facade *application.BotFacade) { b.facade = facade }

func (b *Bot) StartPolling(ctx context.Context) error {
	if b.facade == nil {
		return errors.New("facade not bound")
	}
	if err := b.registerCommands(); err != nil {
		b.log.Warn().Err(err).Msg("registering bot commands failed")
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	b.pool.Start(ctx)
	defer b.pool.Stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info().Str("username", b.api.Self.UserName).Msg("polling started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up := <-updates:
			task := func(ctx context.Context) error { return b.handleUpdate(ctx, up) }
			if err := b.pool.Submit(task); err != nil {
				// queue saturated: handle inline rather than drop the update
				if err := task(ctx); err != nil {
					b.log.Error().Err(err).Msg("update handling failed")
				}
			}
		}
	}
}

func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *Bot) registerCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show available commands"},
		tgbotapi.BotCommand{Command: "language", Description: "Change display language"},
		tgbotapi.BotCommand{Command: "remote", Description: "Open the control panel"},
	)
	_, err := b.api.Request(cmds)
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, uuid.NewString())

	if up.CallbackQuery != nil {
		metrics.IncUpdate("callback")
		return b.handleCallback(ctx, up.CallbackQuery)
	}

	msg := up.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return nil
	}
	userID := msg.From.ID
	ctx = logging.WithTgID(ctx, userID)

	command := "message"
	if msg.IsCommand() {
		command = "/" + msg.Command()
	}
	if b.limiter != nil {
		allowed, err := b.limiter.Allow(ctx, red.UserCommandKey(userID, command), 20, time.Minute)
		if err != nil {
			logging.With(ctx, b.log).Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			return b.SendMessage(ctx, msg.Chat.ID, "Rate limit exceeded. Please try again later.")
		}
	}

	user, created, err := b.facade.Start(ctx, profileOf(msg.From))
	if err != nil {
		return err
	}
	lang := user.LanguageCode

	usable, err := b.facade.Access.IsBotUsable(ctx, userID)
	if err != nil {
		return err
	}
	if !usable {
		return b.SendMessage(ctx, msg.Chat.ID, b.bundle.T(lang, "bot_disabled"))
	}

	if msg.IsCommand() {
		metrics.IncUpdate("command")
		return b.handleCommand(ctx, msg, user, created)
	}
	metrics.IncUpdate("message")
	return b.handleMessage(ctx, msg, user)
}

// handleMessage routes a non-command message: an in-flight wizard session
// captures it first, then an active relay mirrors it; only leftover plain
// text triggers the unknown-input fallback.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	ref := adapter.MessageRef{ChatID: chatID, MessageID: msg.MessageID}

	state, err := b.facade.Wizard.Current(ctx, chatID)
	if err != nil {
		return err
	}
	if state != nil {
		return b.handleWizardMessage(ctx, msg, state)
	}

	consumed, err := b.facade.Relay.Mirror(ctx, userID, ref)
	if err != nil {
		return err
	}
	if consumed {
		// relays are silent by design
		return nil
	}

	if msg.Text != "" {
		return b.SendMessage(ctx, chatID, b.bundle.T(user.LanguageCode, "unknown_command"))
	}
	return nil
}

// profileOf maps the Telegram sender to the usecase input.
func profileOf(from *tgbotapi.User) usecase.UserProfile {
	return usecase.UserProfile{
		TelegramID:   from.ID,
		Username:     from.UserName,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		LanguageCode: from.LanguageCode,
	}
}

// ----- MessageGateway -----

func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = buildMarkup(rows)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) CopyMessage(ctx context.Context, chatID int64, ref adapter.MessageRef, caption string, overrideCaption bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := b.api.CopyMessage(copyConfig(chatID, ref, caption, overrideCaption))
	return err
}

func copyConfig(chatID int64, ref adapter.MessageRef, caption string, overrideCaption bool) tgbotapi.CopyMessageConfig {
	cfg := tgbotapi.NewCopyMessage(chatID, ref.ChatID, ref.MessageID)
	if overrideCaption {
		// an empty caption field keeps the original; only set when overriding
		cfg.Caption = caption
	}
	return cfg
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if len(rows) == 0 {
		_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
		return err
	}
	_, err := b.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, buildMarkup(rows)))
	return err
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func buildMarkup(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
