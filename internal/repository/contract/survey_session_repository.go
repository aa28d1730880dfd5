package contract

import (
	"context"

	"field-survey-bot/pkg/survey"
)

// SurveySessionRepository owns the live survey sessions, one per chat.
//
// Lock serializes work on one chat: callers hold it around
// read → transition → write → dispatch. Different chats never contend.
type SurveySessionRepository interface {
	Lock(ctx context.Context, chatID int64) (unlock func(), err error)
	GetOrCreate(chatID int64) *survey.Session
	Save(session *survey.Session)
	Delete(chatID int64)
	Exists(chatID int64) bool
	Count() int
}
