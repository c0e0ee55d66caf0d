package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"TrendSentinel/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier delivers scan results to the user.
type Notifier interface {
	Send(ctx context.Context, text string) error
	NotifyTransitions(ctx context.Context, report *model.Report) error
	NotifySummary(ctx context.Context, report *model.Report) error
}

// Sender is the subset of the bot API used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot            *tgbotapi.BotAPI
	sender         Sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	logger         zerolog.Logger
}

// Ensure the TelegramNotifier implements the Notifier interface.
var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier with optional proxy support.
// It contacts the Bot API to validate the token.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger zerolog.Logger) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 75 * time.Second, Transport: transport}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	n := NewTelegramNotifierWithSender(bot, id, logger)
	n.bot = bot
	return n, nil
}

// NewTelegramNotifierWithSender creates a notifier that delivers through sender.
// Without a bot API it cannot listen for commands.
func NewTelegramNotifierWithSender(sender Sender, chatID int64, logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:         sender,
		chatID:         chatID,
		maxRetries:     3,
		retryDelayBase: time.Second,
		logger:         logger.With().Str("component", "telegram").Logger(),
	}
}

// SetRetry overrides the retry policy.
func (t *TelegramNotifier) SetRetry(maxRetries int, delayBase time.Duration) {
	t.maxRetries = maxRetries
	t.retryDelayBase = delayBase
}

// Send sends an HTML message to the configured chat with exponential
// backoff retry.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.chatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	var lastErr error
	for i := 0; i <= t.maxRetries; i++ {
		_, err := t.sender.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == t.maxRetries {
			break
		}

		backoff := t.retryDelayBase * time.Duration(1<<uint(i))
		t.logger.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", t.maxRetries+1, lastErr)
}

// NotifyTransitions sends one alert listing the report's transitions.
// Reports without transitions send nothing.
func (t *TelegramNotifier) NotifyTransitions(ctx context.Context, report *model.Report) error {
	if len(report.Transitions) == 0 {
		return nil
	}
	return t.Send(ctx, FormatTransitions(report))
}

// NotifySummary sends the Buy/Sell/Hold counts of a report.
func (t *TelegramNotifier) NotifySummary(ctx context.Context, report *model.Report) error {
	return t.Send(ctx, FormatSummary(report))
}

// NoopNotifier discards every message. It is used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(_ context.Context, _ string) error                     { return nil }
func (NoopNotifier) NotifyTransitions(_ context.Context, _ *model.Report) error { return nil }
func (NoopNotifier) NotifySummary(_ context.Context, _ *model.Report) error     { return nil }
