package mapper

import (
	"field-survey-bot/internal/dto"
	"field-survey-bot/internal/model"
	"field-survey-bot/pkg/survey"

	"github.com/google/uuid"
)

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) SnapshotToMessage(reportID uuid.UUID, snap survey.Snapshot) dto.SurveyReportMessage {
	photos := make([]dto.ReportPhoto, 0, len(snap.PhotoRefs))
	for _, p := range snap.PhotoRefs {
		photos = append(photos, dto.ReportPhoto{FileID: p.FileID, UniqueID: p.UniqueID})
	}
	return dto.SurveyReportMessage{
		ReportID:      reportID.String(),
		ChatID:        snap.ChatID,
		OperationType: string(snap.OperationType),
		CompanyID:     snap.Company.ID,
		CompanyName:   snap.Company.Name,
		ClientName:    snap.ClientName,
		SignalValue:   snap.SignalValue,
		Outcome:       string(snap.Outcome),
		OutcomeLabel:  snap.Outcome.Label(),
		Notes:         snap.Notes,
		Latitude:      snap.Location.Latitude,
		Longitude:     snap.Location.Longitude,
		MapsURL:       snap.Location.MapsURL(),
		Photos:        photos,
		CompletedAt:   snap.CompletedAt,
	}
}

func (m *ReportMapper) MessageToModel(msg dto.SurveyReportMessage) (*model.SurveyReport, error) {
	id, err := uuid.Parse(msg.ReportID)
	if err != nil {
		return nil, err
	}
	fileIDs := make([]string, 0, len(msg.Photos))
	for _, p := range msg.Photos {
		fileIDs = append(fileIDs, p.FileID)
	}
	return &model.SurveyReport{
		ID:            id,
		ChatID:        msg.ChatID,
		OperationType: msg.OperationType,
		CompanyID:     msg.CompanyID,
		CompanyName:   msg.CompanyName,
		ClientName:    msg.ClientName,
		SignalValue:   msg.SignalValue,
		Outcome:       msg.Outcome,
		Notes:         msg.Notes,
		Latitude:      msg.Latitude,
		Longitude:     msg.Longitude,
		PhotoFileIDs:  fileIDs,
		Status:        model.SurveyReportStatusQueued,
		CompletedAt:   msg.CompletedAt,
	}, nil
}

func (m *ReportMapper) ModelToResponse(r *model.SurveyReport) *dto.SurveyReportResponse {
	return &dto.SurveyReportResponse{
		ID:            r.ID.String(),
		ChatID:        r.ChatID,
		OperationType: r.OperationType,
		CompanyName:   r.CompanyName,
		ClientName:    r.ClientName,
		SignalValue:   r.SignalValue,
		Outcome:       r.Outcome,
		Notes:         r.Notes,
		MapsURL:       survey.Location{Latitude: r.Latitude, Longitude: r.Longitude}.MapsURL(),
		PhotoCount:    len(r.PhotoFileIDs),
		Status:        r.Status,
		Failure:       r.Failure,
		CompletedAt:   r.CompletedAt,
	}
}
