package survey

// Step is the position of a chat inside the fixed survey sequence.
type Step int

const (
	StepAwaitingOperation Step = iota
	StepAwaitingCompany
	StepAwaitingClientName
	StepAwaitingSignal
	StepAwaitingNotes
	StepAwaitingLocation
	StepAwaitingLocationConfirm
	StepAwaitingPhotos
	StepComplete
)

var stepNames = map[Step]string{
	StepAwaitingOperation:       "awaiting_operation",
	StepAwaitingCompany:         "awaiting_company",
	StepAwaitingClientName:      "awaiting_client_name",
	StepAwaitingSignal:          "awaiting_signal",
	StepAwaitingNotes:           "awaiting_notes",
	StepAwaitingLocation:        "awaiting_location",
	StepAwaitingLocationConfirm: "awaiting_location_confirm",
	StepAwaitingPhotos:          "awaiting_photos",
	StepComplete:                "complete",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// OperationType is the kind of intervention the technician is reporting.
type OperationType string

const (
	OperationPreverifica OperationType = "PREVERIFICA"
	OperationAttivazione OperationType = "ATTIVAZIONE"
)

// Outcome is derived from the signal reading, never stored on its own.
type Outcome string

const (
	OutcomeOK      Outcome = "OK"
	OutcomeWarning Outcome = "WARNING"
	OutcomeKO      Outcome = "KO"
)

// Label is the text used in chat replies and in the report.
func (o Outcome) Label() string {
	switch o {
	case OutcomeOK:
		return "OK ✅"
	case OutcomeWarning:
		return "ATTENZIONE ⚠️"
	case OutcomeKO:
		return "KO ❌"
	}
	return string(o)
}

// OutcomeFor classifies a signal reading. The caller is expected to have
// range-checked the value already.
func OutcomeFor(signal int) Outcome {
	switch {
	case signal < 70:
		return OutcomeOK
	case signal <= 75:
		return OutcomeWarning
	default:
		return OutcomeKO
	}
}

// Company is a contractor the technician can file the report under.
type Company struct {
	ID   string
	Name string
}
