package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"biotrial-analyzer/internal/config"
)

// TelegramChannel sends notifications through a Telegram bot.
type TelegramChannel struct {
	cfg config.TelegramConfig
	bot *tgbotapi.BotAPI
}

// NewTelegramChannel creates a new Telegram channel.
func NewTelegramChannel(cfg config.TelegramConfig) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramChannel{cfg: cfg, bot: bot}, nil
}

// Name returns the channel name.
func (t *TelegramChannel) Name() string { return "telegram" }

// IsEnabled reports whether the channel is configured.
func (t *TelegramChannel) IsEnabled() bool {
	return t.cfg.Enabled && t.cfg.BotToken != "" && t.cfg.ChatID != 0
}

// Send delivers the notification to the configured chat.
func (t *TelegramChannel) Send(ctx context.Context, title, message string) error {
	text := title
	if message != "" {
		text += "\n\n" + message
	}

	msg := tgbotapi.NewMessage(t.cfg.ChatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
