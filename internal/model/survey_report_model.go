package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SurveyReportStatusQueued     = "queued"
	SurveyReportStatusSent       = "sent"
	SurveyReportStatusMailFailed = "mail_failed"
)

// SurveyReport is the archived copy of a completed field survey.
type SurveyReport struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID        int64                       `gorm:"not null;index:idx_survey_reports_chat_created,priority:1" json:"chat_id"`
	OperationType string                      `gorm:"type:varchar(20);not null" json:"operation_type"`
	CompanyID     string                      `gorm:"type:varchar(50);not null" json:"company_id"`
	CompanyName   string                      `gorm:"type:varchar(100);not null" json:"company_name"`
	ClientName    string                      `gorm:"type:varchar(200);not null" json:"client_name"`
	SignalValue   int                         `gorm:"not null" json:"signal_value"`
	Outcome       string                      `gorm:"type:varchar(10);not null;index:idx_survey_reports_outcome" json:"outcome"`
	Notes         string                      `gorm:"type:text;not null" json:"notes"`
	Latitude      float64                     `gorm:"not null" json:"latitude"`
	Longitude     float64                     `gorm:"not null" json:"longitude"`
	PhotoFileIDs  datatypes.JSONSlice[string] `json:"photo_file_ids"`
	Status        string                      `gorm:"type:varchar(20);not null;default:'queued'" json:"status"`
	Failure       string                      `gorm:"type:text" json:"failure,omitempty"`
	CompletedAt   time.Time                   `gorm:"not null" json:"completed_at"`
	CreatedAt     time.Time                   `gorm:"index:idx_survey_reports_chat_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
