package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler answers a bot command such as "scan" with its arguments.
// An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command, args string) string

// ListenForCommands polls for Telegram updates and dispatches bot commands
// from the configured chat. It returns immediately; polling stops when ctx is
// cancelled.
func (t *TelegramNotifier) ListenForCommands(ctx context.Context, handler CommandHandler) {
	if t.bot == nil {
		t.logger.Warn().Msg("no bot api configured, command polling disabled")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		t.logger.Info().Msg("telegram polling started")
		for {
			select {
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				t.logger.Info().Msg("telegram polling stopped")
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				t.handleMessage(ctx, update.Message, handler)
			}
		}
	}()
}

// handleMessage runs handler for a command message and replies in the same chat.
// Messages from other chats are ignored.
func (t *TelegramNotifier) handleMessage(ctx context.Context, msg *tgbotapi.Message, handler CommandHandler) {
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	if msg.Chat.ID != t.chatID {
		t.logger.Warn().Int64("chat_id", msg.Chat.ID).Msg("ignoring command from unknown chat")
		return
	}

	command := strings.ToLower(msg.Command())
	args := strings.TrimSpace(msg.CommandArguments())
	t.logger.Info().Str("command", command).Str("args", args).Msg("received command")

	reply := handler(ctx, command, args)
	if reply == "" {
		return
	}
	if err := t.sendTo(ctx, msg.Chat.ID, reply); err != nil {
		t.logger.Error().Err(err).Str("command", command).Msg("send reply")
	}
}
