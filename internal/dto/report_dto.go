package dto

import "time"

// SurveyReportMessage is the queue payload handed from the webhook path to
// the report worker.
type SurveyReportMessage struct {
	ReportID      string        `json:"report_id"`
	ChatID        int64         `json:"chat_id"`
	OperationType string        `json:"operation_type"`
	CompanyID     string        `json:"company_id"`
	CompanyName   string        `json:"company_name"`
	ClientName    string        `json:"client_name"`
	SignalValue   int           `json:"signal_value"`
	Outcome       string        `json:"outcome"`
	OutcomeLabel  string        `json:"outcome_label"`
	Notes         string        `json:"notes"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	MapsURL       string        `json:"maps_url"`
	Photos        []ReportPhoto `json:"photos"`
	CompletedAt   time.Time     `json:"completed_at"`
}

type ReportPhoto struct {
	FileID   string `json:"file_id"`
	UniqueID string `json:"unique_id,omitempty"`
}

type SurveyReportResponse struct {
	ID            string    `json:"id"`
	ChatID        int64     `json:"chat_id"`
	OperationType string    `json:"operation_type"`
	CompanyName   string    `json:"company_name"`
	ClientName    string    `json:"client_name"`
	SignalValue   int       `json:"signal_value"`
	Outcome       string    `json:"outcome"`
	Notes         string    `json:"notes"`
	MapsURL       string    `json:"maps_url"`
	PhotoCount    int       `json:"photo_count"`
	Status        string    `json:"status"`
	Failure       string    `json:"failure,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

type ListReportsQuery struct {
	ChatID int64 `query:"chat_id" validate:"required"`
	Limit  int   `query:"limit" validate:"omitempty,min=1,max=100"`
}
