package deliver

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// messageSender is the slice of the Bot API client the deliverer needs.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramDeliverer sends the summary to one Telegram chat, typically the
// owner's private chat with the bot.
type TelegramDeliverer struct {
	api    messageSender
	chatID int64
}

func NewTelegram(api messageSender, chatID int64) *TelegramDeliverer {
	return &TelegramDeliverer{api: api, chatID: chatID}
}

func (d *TelegramDeliverer) Deliver(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(d.chatID, text)
	if _, err := d.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send summary to chat %d: %w", d.chatID, err)
	}
	return nil
}
