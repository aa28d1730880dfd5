package contract

import (
	"context"

	"field-survey-bot/internal/model"

	"github.com/google/uuid"
)

type SurveyReportRepository interface {
	Create(ctx context.Context, report *model.SurveyReport) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, failure string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SurveyReport, error)
	FindByChat(ctx context.Context, chatID int64, limit int) ([]model.SurveyReport, error)
}
