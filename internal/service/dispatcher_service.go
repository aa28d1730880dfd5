package service

import (
	"context"

	"field-survey-bot/internal/mapper"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/pkg/survey"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender is the slice of the Bot API the dispatcher needs.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyMarkup interface{}) (*tgbotapi.Message, error)
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
	RemoveInlineKeyboard(ctx context.Context, chatID, messageID int64) error
}

type IDispatcherService interface {
	// Dispatch executes the actions in order. A failed action is logged and
	// the remaining ones still run.
	Dispatch(ctx context.Context, actions []survey.Action)
}

type dispatcherService struct {
	sender MessageSender
	mapper *mapper.TelegramMapper
	logger logger.ILogger
}

func NewDispatcherService(sender MessageSender, log logger.ILogger) IDispatcherService {
	return &dispatcherService{
		sender: sender,
		mapper: mapper.NewTelegramMapper(),
		logger: log,
	}
}

func (d *dispatcherService) Dispatch(ctx context.Context, actions []survey.Action) {
	for _, action := range actions {
		if err := d.execute(ctx, action); err != nil {
			metrics.RecordDispatchFailure(action.Name())
			d.logger.Error("Dispatcher", "Action failed", map[string]interface{}{
				"action": action.Name(),
				"error":  err,
			})
		}
	}
}

func (d *dispatcherService) execute(ctx context.Context, action survey.Action) error {
	switch a := action.(type) {
	case survey.SendText:
		_, err := d.sender.SendMessage(ctx, a.ChatID, a.Text, nil)
		return err
	case survey.SendPrompt:
		_, err := d.sender.SendMessage(ctx, a.ChatID, a.Text, d.mapper.KeyboardToMarkup(a.Keyboard))
		return err
	case survey.AcknowledgeButton:
		return d.sender.AnswerCallbackQuery(ctx, a.CallbackID, a.Text)
	case survey.DisableControl:
		return d.sender.RemoveInlineKeyboard(ctx, a.ChatID, a.MessageID)
	}
	d.logger.Warn("Dispatcher", "Unknown action skipped", map[string]interface{}{"action": action.Name()})
	return nil
}
