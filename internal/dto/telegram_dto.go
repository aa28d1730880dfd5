package dto

type SendMessageQuery struct {
	ChatID int64  `query:"chat_id" validate:"required"`
	Msg    string `query:"msg" validate:"required"`
}
