// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"field-survey-bot/internal/dto"
	"field-survey-bot/internal/mapper"
	"field-survey-bot/internal/model"
	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/mailer"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/internal/pkg/telegram"
	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, fileID string) (*telegram.Photo, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	photos     PhotoFetcher
	mailer     mailer.IReportMailer
	reports    contract.SurveyReportRepository
	events     EventPublisher
	mapper     *mapper.ReportMapper
	logger     logger.ILogger
}

// NewConsumerService builds the report worker. reports and eventPublisher
// are optional.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	photos PhotoFetcher,
	reportMailer mailer.IReportMailer,
	reports contract.SurveyReportRepository,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		photos:     photos,
		mailer:     reportMailer,
		reports:    reports,
		events:     eventPublisher,
		mapper:     mapper.NewReportMapper(),
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: report delivery is attempted once.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var report dto.SurveyReportMessage
	if err := json.Unmarshal(msg.Payload, &report); err != nil {
		cs.logger.Error("ReportConsumer", "Failed to unmarshal report", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		return
	}

	cs.logger.Info("ReportConsumer", "Processing report", map[string]interface{}{
		"report_id": report.ReportID,
		"chat_id":   report.ChatID,
		"photos":    len(report.Photos),
	})

	id := cs.archive(ctx, report)
	attachments := cs.fetchPhotos(ctx, report)

	status, failure := model.SurveyReportStatusSent, ""
	if err := cs.mailer.SendSurveyReport(report, attachments); err != nil {
		status, failure = model.SurveyReportStatusMailFailed, err.Error()
		cs.logger.Error("ReportConsumer", "Failed to mail report", map[string]interface{}{
			"report_id": report.ReportID,
			"error":     err,
		})
	}

	cs.markStatus(ctx, id, status, failure)
	cs.publishReported(ctx, report, status, len(attachments))
	metrics.RecordReport(status)

	cs.logger.Info("ReportConsumer", "Report processed", map[string]interface{}{
		"report_id":   report.ReportID,
		"status":      status,
		"attachments": len(attachments),
	})
}

func (cs *consumerService) fetchPhotos(ctx context.Context, report dto.SurveyReportMessage) []mailer.Attachment {
	attachments := make([]mailer.Attachment, 0, len(report.Photos))
	for i, p := range report.Photos {
		photo, err := cs.photos.FetchPhoto(ctx, p.FileID)
		if err != nil {
			cs.logger.Warn("ReportConsumer", "Skipping photo", map[string]interface{}{
				"report_id": report.ReportID,
				"file_id":   p.FileID,
				"error":     err.Error(),
			})
			continue
		}
		name := photo.Name
		if name == "" {
			name = "foto.jpg"
		}
		attachments = append(attachments, mailer.Attachment{
			Name: fmt.Sprintf("foto_%d_%s", i+1, name),
			Data: photo.Data,
		})
	}
	return attachments
}

func (cs *consumerService) archive(ctx context.Context, report dto.SurveyReportMessage) uuid.UUID {
	if cs.reports == nil {
		return uuid.Nil
	}
	row, err := cs.mapper.MessageToModel(report)
	if err != nil {
		cs.logger.Error("ReportConsumer", "Invalid report id", map[string]interface{}{"report_id": report.ReportID, "error": err})
		return uuid.Nil
	}
	if err := cs.reports.Create(ctx, row); err != nil {
		cs.logger.Error("ReportConsumer", "Failed to archive report", map[string]interface{}{"report_id": report.ReportID, "error": err})
		return uuid.Nil
	}
	return row.ID
}

func (cs *consumerService) markStatus(ctx context.Context, id uuid.UUID, status, failure string) {
	if cs.reports == nil || id == uuid.Nil {
		return
	}
	if err := cs.reports.UpdateStatus(ctx, id, status, failure); err != nil {
		cs.logger.Error("ReportConsumer", "Failed to update report status", map[string]interface{}{"report_id": id.String(), "error": err})
	}
}

func (cs *consumerService) publishReported(ctx context.Context, report dto.SurveyReportMessage, status string, attachments int) {
	if cs.events == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.SurveyReported,
		Data: map[string]interface{}{
			"report_id":   report.ReportID,
			"chat_id":     report.ChatID,
			"operation":   report.OperationType,
			"company":     report.CompanyName,
			"client":      report.ClientName,
			"outcome":     report.Outcome,
			"status":      status,
			"attachments": attachments,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.events.Publish(ctx, evt); err != nil {
		cs.logger.Warn("ReportConsumer", "Failed to publish SURVEY_REPORTED event", map[string]interface{}{"error": err.Error()})
	}
}
