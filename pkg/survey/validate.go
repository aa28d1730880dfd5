package survey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinSignal      = 1
	MaxSignal      = 98
	MinNotesLength = 5
)

var (
	ErrEmpty             = errors.New("empty input")
	ErrNotInteger        = errors.New("not an integer")
	ErrOutOfRange        = errors.New("out of range")
	ErrTooShort          = errors.New("too short")
	ErrDuplicatePhoto    = errors.New("duplicate photo")
	ErrIncompleteSession = errors.New("incomplete session")
)

// ValidationError is a recoverable rejection of user input for one field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateClientName trims and uppercases the client name.
func ValidateClientName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "", &ValidationError{Field: "clientName", Err: ErrEmpty}
	}
	return strings.ToUpper(name), nil
}

// ValidateSignal parses an integer reading in [MinSignal, MaxSignal] and
// returns it with its outcome.
func ValidateSignal(text string) (int, Outcome, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, "", &ValidationError{Field: "signalValue", Err: ErrEmpty}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "", &ValidationError{Field: "signalValue", Err: ErrNotInteger}
	}
	if value < MinSignal || value > MaxSignal {
		return 0, "", &ValidationError{Field: "signalValue", Err: ErrOutOfRange}
	}
	return value, OutcomeFor(value), nil
}

// ValidateNotes requires at least MinNotesLength characters after trimming.
func ValidateNotes(text string) (string, error) {
	notes := strings.TrimSpace(text)
	if utf8.RuneCountInString(notes) < MinNotesLength {
		return "", &ValidationError{Field: "notes", Err: ErrTooShort}
	}
	return notes, nil
}

// ValidatePhoto rejects empty references and reports duplicates against
// the photos already collected in the session.
func ValidatePhoto(s *Session, ref PhotoRef) error {
	if ref.key() == "" {
		return &ValidationError{Field: "photoRefs", Err: ErrEmpty}
	}
	if s.hasPhoto(ref) {
		return ErrDuplicatePhoto
	}
	return nil
}
