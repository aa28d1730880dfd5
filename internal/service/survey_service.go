package service

import (
	"context"
	"fmt"
	"time"

	"field-survey-bot/internal/pkg/logger"
	"field-survey-bot/internal/pkg/metrics"
	"field-survey-bot/internal/repository/contract"
	"field-survey-bot/pkg/events"
	"field-survey-bot/pkg/survey"
)

// EventPublisher publishes domain events. The NATS publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ISurveyService interface {
	// HandleEvent runs one inbound event through the conversation for its
	// chat. Events of the same chat are processed one at a time in arrival
	// order.
	HandleEvent(ctx context.Context, ev survey.Event) error
}

type surveyService struct {
	engine     *survey.Engine
	sessions   contract.SurveySessionRepository
	dispatcher IDispatcherService
	handoff    IPublisherService
	events     EventPublisher
	logger     logger.ILogger
}

// NewSurveyService wires the engine to its collaborators. eventPublisher may
// be nil.
func NewSurveyService(
	engine *survey.Engine,
	sessions contract.SurveySessionRepository,
	dispatcher IDispatcherService,
	handoff IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) ISurveyService {
	return &surveyService{
		engine:     engine,
		sessions:   sessions,
		dispatcher: dispatcher,
		handoff:    handoff,
		events:     eventPublisher,
		logger:     log,
	}
}

func (s *surveyService) HandleEvent(ctx context.Context, ev survey.Event) error {
	in := s.engine.Classify(ev)
	metrics.RecordUpdate(in.Kind())

	unlock, err := s.sessions.Lock(ctx, ev.ChatID)
	if err != nil {
		return fmt.Errorf("lock chat %d: %w", ev.ChatID, err)
	}
	defer unlock()

	session := s.sessions.GetOrCreate(ev.ChatID)
	res := s.engine.Apply(session, in)
	metrics.RecordTransition(res.From.String(), transitionResult(res))

	if res.Err != nil {
		s.logger.Debug("SurveyService", "Input rejected", map[string]interface{}{
			"chat_id": ev.ChatID,
			"step":    res.From.String(),
			"input":   in.Kind(),
			"reason":  res.Err.Error(),
		})
	}

	s.dispatcher.Dispatch(ctx, res.Actions)

	switch res.Status {
	case survey.StatusCompleted:
		s.complete(ctx, ev.ChatID, *res.Snapshot)
		s.sessions.Delete(ev.ChatID)
	case survey.StatusAborted:
		s.sessions.Delete(ev.ChatID)
		s.abort(ctx, ev.ChatID, res.Err)
	case survey.StatusReset:
		s.sessions.Delete(ev.ChatID)
		s.sessions.Save(session)
	default:
		s.sessions.Save(session)
	}

	metrics.SetActiveSessions(s.sessions.Count())
	return nil
}

func (s *surveyService) complete(ctx context.Context, chatID int64, snapshot survey.Snapshot) {
	reportID, err := s.handoff.Submit(ctx, snapshot)
	if err != nil {
		s.logger.Error("SurveyService", "Report handoff failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err,
		})
		return
	}
	s.logger.Info("SurveyService", "Survey completed", map[string]interface{}{
		"chat_id":   chatID,
		"report_id": reportID,
		"operation": string(snapshot.OperationType),
		"company":   snapshot.Company.Name,
		"outcome":   string(snapshot.Outcome),
	})
}

func (s *surveyService) abort(ctx context.Context, chatID int64, reason error) {
	details := map[string]interface{}{"chat_id": chatID}
	if reason != nil {
		details["reason"] = reason.Error()
	}
	s.logger.Warn("SurveyService", "Survey aborted", details)

	if s.events == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       events.SurveyAborted,
		Data:       details,
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("SurveyService", "Failed to publish SURVEY_ABORTED event", map[string]interface{}{"error": err.Error()})
	}
}

func transitionResult(res survey.Result) string {
	switch {
	case res.Status == survey.StatusCompleted:
		return "completed"
	case res.Status == survey.StatusAborted:
		return "aborted"
	case res.Status == survey.StatusReset:
		return "reset"
	case res.Err != nil:
		return "rejected"
	case res.Advanced():
		return "advanced"
	}
	return "reprompt"
}
