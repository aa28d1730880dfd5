package service

import (
	"context"
	"errors"

	"field-survey-bot/internal/mapper"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/internal/repository/contract"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrDuplicateUpdate = errors.New("update already processed")

// BotAPI is the operator-facing slice of the Bot API.
type BotAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyMarkup interface{}) (*tgbotapi.Message, error)
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
	GetWebhookInfo(ctx context.Context) (*tgbotapi.WebhookInfo, error)
}

type ITelegramService interface {
	// HandleUpdate ingests one webhook update. Replayed update ids return
	// ErrDuplicateUpdate and are not processed again.
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
	SendManual(ctx context.Context, chatID int64, text string) (*tgbotapi.Message, error)
	WebhookInfo(ctx context.Context) (*tgbotapi.WebhookInfo, error)
}

type telegramService struct {
	bot     BotAPI
	updates contract.UpdateRepository
	survey  ISurveyService
	mapper  *mapper.TelegramMapper
	logger  logger.ILogger
}

func NewTelegramService(bot BotAPI, updates contract.UpdateRepository, survey ISurveyService, log logger.ILogger) ITelegramService {
	return &telegramService{
		bot:     bot,
		updates: updates,
		survey:  survey,
		mapper:  mapper.NewTelegramMapper(),
		logger:  log,
	}
}

func (s *telegramService) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	fresh, err := s.updates.MarkProcessed(ctx, int64(update.UpdateID))
	if err != nil {
		// Fail open when the dedup store is unavailable.
		s.logger.Warn("TelegramService", "Update dedup failed", map[string]interface{}{
			"update_id": update.UpdateID,
			"error":     err.Error(),
		})
	} else if !fresh {
		metrics.RecordUpdate("duplicate")
		return ErrDuplicateUpdate
	}

	ev, ok := s.mapper.UpdateToEvent(update)
	if !ok {
		s.logger.Debug("TelegramService", "Update ignored", map[string]interface{}{"update_id": update.UpdateID})
		s.releaseButton(ctx, update.CallbackQuery)
		return nil
	}
	return s.survey.HandleEvent(ctx, ev)
}

// releaseButton answers a callback the survey cannot route so the client
// stops showing the spinner.
func (s *telegramService) releaseButton(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.ID == "" {
		return
	}
	if err := s.bot.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
		s.logger.Warn("TelegramService", "Failed to answer unroutable callback", map[string]interface{}{
			"callback_id": cq.ID,
			"error":       err.Error(),
		})
	}
}

func (s *telegramService) SendManual(ctx context.Context, chatID int64, text string) (*tgbotapi.Message, error) {
	msg, err := s.bot.SendMessage(ctx, chatID, text, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("TelegramService", "Manual message sent", map[string]interface{}{"chat_id": chatID})
	return msg, nil
}

func (s *telegramService) WebhookInfo(ctx context.Context) (*tgbotapi.WebhookInfo, error) {
	return s.bot.GetWebhookInfo(ctx)
}
