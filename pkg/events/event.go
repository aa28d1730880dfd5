package events

import "time"

const (
	// SurveyReported fires once a completed survey has been mailed (or has
	// failed to be mailed) by the report worker.
	SurveyReported = "SURVEY_REPORTED"
	// SurveyAborted fires when a survey reached the end without its
	// required fields and was discarded.
	SurveyAborted = "SURVEY_ABORTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SURVEY_REPORTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
