package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/repository/memory"
	"field-survey-bot/pkg/survey"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSurvey struct {
	events []survey.Event
}

func (r *recordingSurvey) HandleEvent(_ context.Context, ev survey.Event) error {
	r.events = append(r.events, ev)
	return nil
}

type brokenUpdates struct{}

func (brokenUpdates) MarkProcessed(context.Context, int64) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func textUpdate(id int, text string) *tgbotapi.Update {
	return &tgbotapi.Update{UpdateID: id, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 3}, Text: text}}
}

func TestHandleUpdateDedups(t *testing.T) {
	rec := &recordingSurvey{}
	svc := NewTelegramService(nil, memory.NewUpdateRepository(time.Hour), rec, logger.NewNopLogger())

	require.NoError(t, svc.HandleUpdate(context.Background(), textUpdate(1, "a")))
	err := svc.HandleUpdate(context.Background(), textUpdate(1, "a"))
	assert.ErrorIs(t, err, ErrDuplicateUpdate)
	require.NoError(t, svc.HandleUpdate(context.Background(), textUpdate(2, "b")))

	require.Len(t, rec.events, 2)
	assert.Equal(t, "b", rec.events[1].Text)
}

func TestHandleUpdateFailsOpen(t *testing.T) {
	rec := &recordingSurvey{}
	svc := NewTelegramService(nil, brokenUpdates{}, rec, logger.NewNopLogger())

	require.NoError(t, svc.HandleUpdate(context.Background(), textUpdate(1, "a")))
	require.NoError(t, svc.HandleUpdate(context.Background(), textUpdate(1, "a")))

	assert.Len(t, rec.events, 2)
}

func TestHandleUpdateIgnoresUnsupported(t *testing.T) {
	rec := &recordingSurvey{}
	bot := &fakeSender{}
	svc := NewTelegramService(bot, memory.NewUpdateRepository(time.Hour), rec, logger.NewNopLogger())

	require.NoError(t, svc.HandleUpdate(context.Background(), &tgbotapi.Update{UpdateID: 7}))
	assert.Empty(t, rec.events)
	assert.Empty(t, bot.calls)
}

func TestHandleUpdateAnswersCallbackWithoutMessage(t *testing.T) {
	rec := &recordingSurvey{}
	bot := &fakeSender{}
	svc := NewTelegramService(bot, memory.NewUpdateRepository(time.Hour), rec, logger.NewNopLogger())

	inline := &tgbotapi.Update{UpdateID: 8, CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb-inline", Data: survey.TokenLocationYes}}
	require.NoError(t, svc.HandleUpdate(context.Background(), inline))

	assert.Empty(t, rec.events)
	assert.Equal(t, []string{"ack:cb-inline"}, bot.calls)
}

func TestHandleUpdateIgnoresFailedCallbackAnswer(t *testing.T) {
	bot := &fakeSender{failOn: "ack:cb-inline"}
	svc := NewTelegramService(bot, memory.NewUpdateRepository(time.Hour), &recordingSurvey{}, logger.NewNopLogger())

	inline := &tgbotapi.Update{UpdateID: 9, CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb-inline"}}
	assert.NoError(t, svc.HandleUpdate(context.Background(), inline))
}
