// FILE: internal/controller/telegram_controller.go
package controller

import (
	"crypto/subtle"
	"errors"

	"field-survey-bot/internal/dto"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/serverutils"
	"field-survey-bot/internal/service"

	"github.com/gofiber/fiber/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
	missingParamsMsg  = "Parametri mancanti: chat_id e msg obbligatori"
)

type ITelegramController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Webhook(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	WebhookInfo(ctx *fiber.Ctx) error
}

type telegramController struct {
	service       service.ITelegramService
	webhookSecret string
	logger        logger.ILogger
}

func NewTelegramController(service service.ITelegramService, webhookSecret string, log logger.ILogger) ITelegramController {
	return &telegramController{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        log,
	}
}

func (c *telegramController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/telegram/webhook", c.Webhook)

	h := r.Group("/api/telegram", auth)
	h.Get("/send", c.SendMessage)
	h.Get("/info", c.WebhookInfo)
}

// Webhook answers 200 for every decodable update so Telegram does not
// redeliver; processing errors are only logged.
func (c *telegramController) Webhook(ctx *fiber.Ctx) error {
	if c.webhookSecret != "" {
		got := ctx.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.webhookSecret)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid secret token"))
		}
	}

	var update tgbotapi.Update
	if err := ctx.BodyParser(&update); err != nil || update.UpdateID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid update"))
	}

	err := c.service.HandleUpdate(ctx.UserContext(), &update)
	switch {
	case errors.Is(err, service.ErrDuplicateUpdate):
		c.logger.Debug("TelegramController", "Duplicate update skipped", map[string]interface{}{"update_id": update.UpdateID})
	case err != nil:
		c.logger.Error("TelegramController", "Update processing failed", map[string]interface{}{
			"update_id": update.UpdateID,
			"error":     err,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("ok", nil))
}

func (c *telegramController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageQuery
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, missingParamsMsg))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, missingParamsMsg))
	}

	msg, err := c.service.SendManual(ctx.UserContext(), req.ChatID, req.Msg)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", msg))
}

func (c *telegramController) WebhookInfo(ctx *fiber.Ctx) error {
	info, err := c.service.WebhookInfo(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook info", info))
}
