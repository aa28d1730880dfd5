package service

import (
	"context"
	"encoding/json"
	"fmt"

	"field-survey-bot/internal/mapper"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/pkg/survey"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IPublisherService is the report handoff: it takes a frozen snapshot and
// queues it for the report worker without waiting for delivery.
type IPublisherService interface {
	Submit(ctx context.Context, snapshot survey.Snapshot) (reportID string, err error)
}

type publisherService struct {
	publisher message.Publisher
	topicName string
	mapper    *mapper.ReportMapper
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
		mapper:    mapper.NewReportMapper(),
	}
}

func (p *publisherService) Submit(ctx context.Context, snapshot survey.Snapshot) (string, error) {
	reportID := uuid.New()
	payload, err := json.Marshal(p.mapper.SnapshotToMessage(reportID, snapshot))
	if err != nil {
		return "", fmt.Errorf("marshal report %s: %w", reportID, err)
	}

	msg := message.NewMessage(reportID.String(), payload)
	msg.SetContext(context.WithoutCancel(ctx))
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		metrics.RecordReport("enqueue_failed")
		return "", fmt.Errorf("publish report %s: %w", reportID, err)
	}

	metrics.RecordReport("queued")
	return reportID.String(), nil
}
