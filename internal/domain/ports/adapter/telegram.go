package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// MessageRef points at an existing Telegram message so its content can be
// replayed (copied) later without storing the payload ourselves.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// MessageGateway is the port to the chat transport. Every call may fail for
// one recipient (blocked bot, deleted chat, network); fan-out callers must
// swallow such errors per recipient.
type MessageGateway interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	// CopyMessage replays ref's content to chatID, preserving the media type.
	// With overrideCaption the copy carries caption instead of the original.
	CopyMessage(ctx context.Context, chatID int64, ref MessageRef, caption string, overrideCaption bool) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]InlineButton) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
