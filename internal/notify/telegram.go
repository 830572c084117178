// Package notify pushes completion messages to users so the dashboard does
// not have to poll for state changes.
package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers a message to a user-linked chat.
type Notifier interface {
	Notify(chatID int64, text string)
}

// Telegram sends notifications through a Telegram bot. A nil *Telegram is a
// valid no-op notifier for deployments without a bot token.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Notify(chatID int64, text string) {
	if t == nil || chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("Error sending notification to chat %d: %v", chatID, err)
	}
}
