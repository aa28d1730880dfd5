package implementation

import (
	"context"
	"errors"

	"field-survey-bot/internal/model"
	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SurveyReportRepositoryImpl struct {
	db *gorm.DB
}

func NewSurveyReportRepository(db *gorm.DB) contract.SurveyReportRepository {
	return &SurveyReportRepositoryImpl{db: db}
}

func (r *SurveyReportRepositoryImpl) Create(ctx context.Context, report *model.SurveyReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *SurveyReportRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string, failure string) error {
	result := r.db.WithContext(ctx).
		Model(&model.SurveyReport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  status,
			"failure": failure,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SurveyReportRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.SurveyReport, error) {
	var report model.SurveyReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *SurveyReportRepositoryImpl) FindByChat(ctx context.Context, chatID int64, limit int) ([]model.SurveyReport, error) {
	var reports []model.SurveyReport
	err := r.db.WithContext(ctx).
		Scopes(scope.ByChat(chatID), scope.OrderByCreatedDesc, scope.Limit(limit)).
		Find(&reports).Error
	return reports, err
}
