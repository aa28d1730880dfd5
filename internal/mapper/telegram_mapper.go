package mapper

import (
	"field-survey-bot/pkg/survey"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramMapper struct{}

func NewTelegramMapper() *TelegramMapper {
	return &TelegramMapper{}
}

// UpdateToEvent extracts the chat and payload of an update. Updates the bot
// does not handle (edited messages, channel posts, inline-mode callbacks
// without a message) report false.
func (m *TelegramMapper) UpdateToEvent(u *tgbotapi.Update) (survey.Event, bool) {
	if u == nil {
		return survey.Event{}, false
	}

	if cq := u.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat == nil {
			return survey.Event{}, false
		}
		return survey.Event{
			ChatID: cq.Message.Chat.ID,
			Callback: &survey.Callback{
				ID:        cq.ID,
				Data:      cq.Data,
				MessageID: int64(cq.Message.MessageID),
			},
		}, true
	}

	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return survey.Event{}, false
	}

	ev := survey.Event{ChatID: msg.Chat.ID, Text: msg.Text}
	if msg.Location != nil {
		ev.Location = &survey.Location{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	}
	for _, p := range msg.Photo {
		ev.Photos = append(ev.Photos, survey.PhotoRef{FileID: p.FileID, UniqueID: p.FileUniqueID})
	}
	return ev, true
}

// KeyboardToMarkup renders an engine keyboard as Bot API reply_markup.
// An empty keyboard yields nil.
func (m *TelegramMapper) KeyboardToMarkup(kb survey.Keyboard) interface{} {
	switch {
	case kb.Remove:
		return tgbotapi.NewRemoveKeyboard(false)
	case kb.RequestLocation != "":
		return tgbotapi.NewOneTimeReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(kb.RequestLocation)),
		)
	case len(kb.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	return nil
}
