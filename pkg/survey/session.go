package survey

import (
	"fmt"
	"strings"
	"time"
)

// MaxPhotos is the number of distinct photos that closes a survey.
const MaxPhotos = 3

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapsURL links the coordinates on Google Maps.
func (l Location) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", l.Latitude, l.Longitude)
}

// PhotoRef points at a photo held by the messaging platform.
// FileID is used for download, UniqueID (when present) for deduplication.
type PhotoRef struct {
	FileID   string `json:"file_id"`
	UniqueID string `json:"unique_id,omitempty"`
}

func (p PhotoRef) key() string {
	if p.UniqueID != "" {
		return p.UniqueID
	}
	return p.FileID
}

// Session is the conversation state of one chat.
// Zero values mean "unset"; SignalValue and Location use pointers because
// their zero value is meaningful.
type Session struct {
	ChatID        int64
	Step          Step
	OperationType OperationType
	Company       *Company
	ClientName    string
	SignalValue   *int
	Notes         string
	Location      *Location
	PhotoRefs     []PhotoRef
	PhotoCount    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSession(chatID int64) *Session {
	now := time.Now()
	return &Session{
		ChatID:    chatID,
		Step:      StepAwaitingOperation,
		PhotoRefs: []PhotoRef{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Outcome reports the classification of the signal reading, if one was taken.
func (s *Session) Outcome() (Outcome, bool) {
	if s.SignalValue == nil {
		return "", false
	}
	return OutcomeFor(*s.SignalValue), true
}

func (s *Session) hasPhoto(ref PhotoRef) bool {
	k := ref.key()
	for _, p := range s.PhotoRefs {
		if p.key() == k {
			return true
		}
	}
	return false
}

// addPhoto keeps PhotoRefs and PhotoCount in lockstep.
func (s *Session) addPhoto(ref PhotoRef) {
	s.PhotoRefs = append(s.PhotoRefs, ref)
	s.PhotoCount = len(s.PhotoRefs)
}

func (s *Session) resetPhotos() {
	s.PhotoRefs = []PhotoRef{}
	s.PhotoCount = 0
}

// MissingFields lists the required fields that are still unset.
func (s *Session) MissingFields() []string {
	var missing []string
	if s.OperationType == "" {
		missing = append(missing, "operationType")
	}
	if s.Company == nil {
		missing = append(missing, "company")
	}
	if s.ClientName == "" {
		missing = append(missing, "clientName")
	}
	if s.SignalValue == nil {
		missing = append(missing, "signalValue")
	}
	if strings.TrimSpace(s.Notes) == "" {
		missing = append(missing, "notes")
	}
	if s.Location == nil {
		missing = append(missing, "location")
	}
	if len(s.PhotoRefs) < MaxPhotos {
		missing = append(missing, "photoRefs")
	}
	return missing
}

// Snapshot is the read-only copy of a completed session handed to report
// generation. It shares no memory with the live session.
type Snapshot struct {
	ChatID        int64         `json:"chat_id"`
	OperationType OperationType `json:"operation_type"`
	Company       Company       `json:"company"`
	ClientName    string        `json:"client_name"`
	SignalValue   int           `json:"signal_value"`
	Outcome       Outcome       `json:"outcome"`
	Notes         string        `json:"notes"`
	Location      Location      `json:"location"`
	PhotoRefs     []PhotoRef    `json:"photo_refs"`
	CompletedAt   time.Time     `json:"completed_at"`
}

// Freeze copies a complete session into a Snapshot. It fails with
// ErrIncompleteSession when a required field is unset.
func (s *Session) Freeze() (Snapshot, error) {
	if missing := s.MissingFields(); len(missing) > 0 {
		return Snapshot{}, fmt.Errorf("%w: missing %s", ErrIncompleteSession, strings.Join(missing, ", "))
	}
	refs := make([]PhotoRef, len(s.PhotoRefs))
	copy(refs, s.PhotoRefs)
	return Snapshot{
		ChatID:        s.ChatID,
		OperationType: s.OperationType,
		Company:       *s.Company,
		ClientName:    s.ClientName,
		SignalValue:   *s.SignalValue,
		Outcome:       OutcomeFor(*s.SignalValue),
		Notes:         s.Notes,
		Location:      *s.Location,
		PhotoRefs:     refs,
		CompletedAt:   time.Now(),
	}, nil
}
