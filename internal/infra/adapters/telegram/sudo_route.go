package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-broadcast-bot/internal/domain"
	"telegram-broadcast-bot/internal/domain/model"
	"telegram-broadcast-bot/internal/domain/ports/repository"
	"telegram-broadcast-bot/internal/infra/metrics"
	"telegram-broadcast-bot/internal/sudo"
)

const sudoHelp = `🛠 Admin commands:
/sudo break -a|--all - disable the bot for non-admin users
/sudo add --admin <id> - promote a user to admin
/sudo remove --admin <id> - demote an admin
/sudo getusers [-a] [-b|--banned] [-l|--lang <code>] - list users
/sudo ban <id> - ban a user
/sudo unban <id> - unban a user
/sudo mkgrp -n|--name <name> - create a group
/sudo rmgrp -n|--name <name> - delete a group
/sudo setgrp <id> <group> - add a user to a group
/sudo send -g|--group <group|all> [-m|--message <text...>] - one-shot send or start a relay
/sudo send -s|--stop - stop your relay`

// maximum rows in a getusers listing; the rest is summarized
const userListCap = 50

func (b *Bot) handleSudo(ctx context.Context, msg *tgbotapi.Message, lang string) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	tokens := strings.Fields(msg.CommandArguments())
	sub := "help"
	if len(tokens) > 0 {
		sub = tokens[0]
	}

	isAdmin, err := b.facade.Access.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		metrics.IncSudoCommand(sub, "denied")
		return b.SendMessage(ctx, chatID, b.bundle.T(lang, "access_denied"))
	}

	if len(tokens) == 0 {
		metrics.IncSudoCommand(sub, "ok")
		return b.SendMessage(ctx, chatID, sudoHelp)
	}

	req, err := sudo.Parse(tokens)
	if err != nil {
		var usageErr *sudo.UsageError
		if errors.As(err, &usageErr) {
			metrics.IncSudoCommand(sub, "usage")
			return b.SendMessage(ctx, chatID, usageErr.Usage)
		}
		metrics.IncSudoCommand(sub, "usage")
		return b.SendMessage(ctx, chatID, "Unknown command. Send /sudo for the command list.")
	}

	reply, err := b.execSudo(ctx, userID, req)
	if err != nil {
		metrics.IncSudoCommand(sub, "error")
		return err
	}
	metrics.IncSudoCommand(sub, "ok")
	return b.SendMessage(ctx, chatID, reply)
}

// execSudo runs a parsed request and renders the admin-facing reply.
// Conflicts and lookups that merely didn't match are reported as
// informational text, not errors.
func (b *Bot) execSudo(ctx context.Context, adminID int64, req sudo.Request) (string, error) {
	switch r := req.(type) {
	case sudo.Break:
		if err := b.facade.Access.DisableBot(ctx); err != nil {
			return "", err
		}
		return "🛑 Bot disabled for non-admin users.", nil

	case sudo.AddAdmin:
		err := b.facade.Access.PromoteAdmin(ctx, r.AdminID)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ User %d promoted to admin.", r.AdminID), nil
		case errors.Is(err, domain.ErrAlreadyExists):
			return fmt.Sprintf("User %d is already an admin.", r.AdminID), nil
		default:
			return "", err
		}

	case sudo.RemoveAdmin:
		err := b.facade.Access.DemoteAdmin(ctx, r.AdminID)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ User %d demoted.", r.AdminID), nil
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Sprintf("User %d is not an admin.", r.AdminID), nil
		case errors.Is(err, domain.ErrAccessDenied):
			return "The root admin cannot be removed.", nil
		default:
			return "", err
		}

	case sudo.GetUsers:
		return b.listUsers(ctx, r)

	case sudo.Ban:
		err := b.facade.User.SetBanned(ctx, r.UserID, true)
		switch {
		case err == nil:
			return fmt.Sprintf("🚫 User %d banned.", r.UserID), nil
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Sprintf("Failed: user %d not found.", r.UserID), nil
		default:
			return "", err
		}

	case sudo.Unban:
		err := b.facade.User.SetBanned(ctx, r.UserID, false)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ User %d unbanned.", r.UserID), nil
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Sprintf("Failed: user %d not found.", r.UserID), nil
		default:
			return "", err
		}

	case sudo.MakeGroup:
		err := b.facade.Group.Create(ctx, r.Name)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ Group %q created.", r.Name), nil
		case errors.Is(err, domain.ErrAlreadyExists):
			return fmt.Sprintf("Group %q already exists.", r.Name), nil
		default:
			return "", err
		}

	case sudo.RemoveGroup:
		err := b.facade.Group.Delete(ctx, r.Name)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ Group %q removed.", r.Name), nil
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Sprintf("Group %q does not exist.", r.Name), nil
		default:
			return "", err
		}

	case sudo.SetGroup:
		err := b.facade.Group.AddMember(ctx, r.UserID, r.Group)
		switch {
		case err == nil:
			return fmt.Sprintf("✅ User %d added to %q.", r.UserID, r.Group), nil
		case errors.Is(err, domain.ErrGroupNotFound):
			return fmt.Sprintf("Failed: group %q does not exist.", r.Group), nil
		case errors.Is(err, domain.ErrAlreadyExists):
			return fmt.Sprintf("User %d is already in %q.", r.UserID, r.Group), nil
		default:
			return "", err
		}

	case sudo.Send:
		return b.execSend(ctx, adminID, r)

	default:
		return "Unknown command. Send /sudo for the command list.", nil
	}
}

func (b *Bot) listUsers(ctx context.Context, r sudo.GetUsers) (string, error) {
	users, err := b.facade.User.List(ctx, repository.UserFilter{
		BannedOnly: r.BannedOnly,
		Language:   r.Lang,
	})
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "No users matched.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 %d user(s):\n", len(users))
	for i, u := range users {
		if i == userListCap {
			fmt.Fprintf(&sb, "…and %d more.", len(users)-userListCap)
			break
		}
		name := u.FullName()
		if name == "" {
			name = "-"
		}
		username := u.Username
		if username == "" {
			username = "-"
		}
		fmt.Fprintf(&sb, "%d | %s | @%s\n", u.TelegramID, name, username)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (b *Bot) execSend(ctx context.Context, adminID int64, r sudo.Send) (string, error) {
	if r.Stop {
		active, err := b.facade.Relay.Deactivate(ctx, adminID)
		if err != nil {
			return "", err
		}
		if !active {
			return "No active relay.", nil
		}
		return "✅ Relay stopped.", nil
	}

	target := model.ParseTarget(r.Group)
	if !target.AllUsers {
		exists, err := b.facade.Group.Exists(ctx, target.Group)
		if err != nil {
			return "", err
		}
		if !exists {
			return fmt.Sprintf("Failed: group %q does not exist.", target.Group), nil
		}
	}

	if r.Message != "" {
		report, err := b.facade.Broadcast.SendText(ctx, target, r.Message, 0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("📨 Sent to %d recipient(s), %d failed.", report.Succeeded, report.Failed), nil
	}

	if err := b.facade.Relay.Activate(ctx, adminID, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("📡 Relay active: your next messages will be forwarded to %s. Stop with /sudo send -s.", target.Key()), nil
}
