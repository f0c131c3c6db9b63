package error_notificator

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramInfra sends alerts to admin chats through one bot.
type TelegramInfra struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

func NewTelegramInfra(token string, chatIDs []int64) (*TelegramInfra, error) {
	return NewTelegramInfraWithEndpoint(token, tgbotapi.APIEndpoint, chatIDs)
}

func NewTelegramInfraWithEndpoint(token, endpoint string, chatIDs []int64) (*TelegramInfra, error) {
	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("no alert chat ids configured")
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	return &TelegramInfra{bot: bot, chatIDs: chatIDs}, nil
}

func (i *TelegramInfra) Notify(ctx context.Context, source string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Saga TTS error (%s)\n\nError: %v\n\nDetails: %s",
		source,
		err,
		details,
	)

	for _, chatID := range i.chatIDs {
		if _, sendErr := i.bot.Send(tgbotapi.NewMessage(chatID, text)); sendErr != nil {
			return fmt.Errorf("send alert to %d: %w", chatID, sendErr)
		}
	}

	return nil
}

// LogInfra only writes the alert to the service log.
type LogInfra struct {
	log *logger.ZapLogger
}

func NewLogInfra(log *logger.ZapLogger) *LogInfra {
	return &LogInfra{log: log}
}

func (i *LogInfra) Notify(_ context.Context, source string, err error, details string) error {
	i.log.Log(logger.LogEntry{
		Level:   "error",
		Message: fmt.Sprintf("[%s] %s", source, details),
		Service: "saga_tts",
		Error:   err,
	})
	return nil
}
