package service

import (
	"context"

	"field-survey-bot/internal/dto"
	"field-survey-bot/internal/mapper"
	"field-survey-bot/internal/repository/contract"

	"github.com/google/uuid"
)

const defaultReportPageSize = 20

type IReportService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SurveyReportResponse, error)
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*dto.SurveyReportResponse, error)
}

type reportService struct {
	reports contract.SurveyReportRepository
	mapper  *mapper.ReportMapper
}

func NewReportService(reports contract.SurveyReportRepository) IReportService {
	return &reportService{reports: reports, mapper: mapper.NewReportMapper()}
}

// GetByID returns nil when the report does not exist.
func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SurveyReportResponse, error) {
	r, err := s.reports.FindByID(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}
	return s.mapper.ModelToResponse(r), nil
}

func (s *reportService) ListByChat(ctx context.Context, chatID int64, limit int) ([]*dto.SurveyReportResponse, error) {
	if limit <= 0 {
		limit = defaultReportPageSize
	}
	rows, err := s.reports.FindByChat(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.SurveyReportResponse, 0, len(rows))
	for i := range rows {
		res = append(res, s.mapper.ModelToResponse(&rows[i]))
	}
	return res, nil
}
