package survey

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DefaultResetCommand = "/start"

var DefaultCompanies = []Company{
	{ID: "comino", Name: "COMINO"},
	{ID: "bf_impianti", Name: "BF IMPIANTI"},
}

// Status tells the caller what to do with the session after Apply.
type Status int

const (
	// StatusContinue: keep the (possibly mutated) session.
	StatusContinue Status = iota
	// StatusCompleted: hand Result.Snapshot off, then delete the session.
	StatusCompleted
	// StatusAborted: delete the session without handoff.
	StatusAborted
	// StatusReset: the session was cleared back to its initial state.
	StatusReset
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusReset:
		return "reset"
	}
	return "unknown"
}

// Result is the outcome of one transition.
type Result struct {
	Actions  []Action
	Status   Status
	From     Step
	To       Step
	Snapshot *Snapshot
	// Err carries a recovered rejection (validation, duplicate photo,
	// incomplete session). It is informational; the actions already tell
	// the user what to do.
	Err error
}

// Advanced reports whether the transition moved the session to another step.
func (r Result) Advanced() bool { return r.From != r.To }

func (r *Result) add(actions ...Action) {
	r.Actions = append(r.Actions, actions...)
}

// Engine is the survey state machine. It holds no per-chat state and is safe
// for concurrent use; callers serialize access to each Session.
type Engine struct {
	companies    []Company
	resetCommand string
}

type Option func(*Engine)

func WithCompanies(companies ...Company) Option {
	return func(e *Engine) {
		if len(companies) > 0 {
			e.companies = companies
		}
	}
}

func WithResetCommand(cmd string) Option {
	return func(e *Engine) {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			e.resetCommand = cmd
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		companies:    DefaultCompanies,
		resetCommand: DefaultResetCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ResetCommand() string { return e.resetCommand }

func (e *Engine) Companies() []Company { return e.companies }

func (e *Engine) Classify(ev Event) Input { return Classify(ev, e.resetCommand) }

// Apply runs one input against the session, mutating it in place.
func (e *Engine) Apply(s *Session, in Input) Result {
	r := Result{From: s.Step}

	switch in := in.(type) {
	case ResetCommand:
		*s = *NewSession(s.ChatID)
		r.Status = StatusReset
		r.add(e.Prompt(s))
	case ButtonPress:
		e.applyButton(s, in, &r)
	case TextMessage:
		e.applyText(s, in, &r)
	case LocationShared:
		e.applyLocation(s, in, &r)
	case PhotoReceived:
		e.applyPhoto(s, in, &r)
	default:
		r.add(e.Prompt(s))
	}

	r.To = s.Step
	if r.Advanced() {
		s.UpdatedAt = time.Now()
	}
	return r
}

func (e *Engine) applyButton(s *Session, b ButtonPress, r *Result) {
	accepted := false

	switch s.Step {
	case StepAwaitingOperation:
		if op, ok := operationFor(b.Token); ok {
			s.OperationType = op
			s.Step = StepAwaitingCompany
			accepted = true
			r.add(AcknowledgeButton{CallbackID: b.CallbackID})
			r.add(disable(s, b)...)
			r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgOperationChosen, op)})
		}
	case StepAwaitingCompany:
		if c, ok := e.companyFor(b.Token); ok {
			s.Company = &c
			s.Step = StepAwaitingClientName
			accepted = true
			r.add(AcknowledgeButton{CallbackID: b.CallbackID})
			r.add(disable(s, b)...)
			r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgCompanyChosen, c.Name)})
		}
	case StepAwaitingLocationConfirm:
		switch b.Token {
		case TokenLocationYes:
			s.resetPhotos()
			s.Step = StepAwaitingPhotos
			accepted = true
		case TokenLocationNo:
			s.Location = nil
			s.Step = StepAwaitingLocation
			accepted = true
		}
		if accepted {
			r.add(AcknowledgeButton{CallbackID: b.CallbackID})
			r.add(disable(s, b)...)
		}
	}

	if !accepted {
		// Stale or foreign control: answer it, retire it, re-prompt.
		r.add(AcknowledgeButton{CallbackID: b.CallbackID, Text: MsgButtonExpired})
		r.add(disable(s, b)...)
	}
	r.add(e.Prompt(s))
}

func (e *Engine) applyText(s *Session, t TextMessage, r *Result) {
	switch s.Step {
	case StepAwaitingClientName:
		name, err := ValidateClientName(t.Text)
		if err != nil {
			r.Err = err
			r.add(SendText{ChatID: s.ChatID, Text: MsgInvalidClientName})
			return
		}
		s.ClientName = name
		s.Step = StepAwaitingSignal
		r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgClientSaved, name)})
	case StepAwaitingSignal:
		value, outcome, err := ValidateSignal(t.Text)
		if err != nil {
			r.Err = err
			r.add(SendText{ChatID: s.ChatID, Text: MsgInvalidSignal})
			return
		}
		s.SignalValue = &value
		s.Step = StepAwaitingNotes
		r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgSignalSaved, value, outcome.Label())})
	case StepAwaitingNotes:
		notes, err := ValidateNotes(t.Text)
		if err != nil {
			r.Err = err
			r.add(SendText{ChatID: s.ChatID, Text: MsgInvalidNotes})
			return
		}
		s.Notes = notes
		s.Step = StepAwaitingLocation
	}
	r.add(e.Prompt(s))
}

func (e *Engine) applyLocation(s *Session, l LocationShared, r *Result) {
	if s.Step == StepAwaitingLocation {
		loc := l.Location
		s.Location = &loc
		s.Step = StepAwaitingLocationConfirm
		r.add(SendPrompt{ChatID: s.ChatID, Text: MsgLocationReceived, Keyboard: Keyboard{Remove: true}})
	}
	r.add(e.Prompt(s))
}

func (e *Engine) applyPhoto(s *Session, p PhotoReceived, r *Result) {
	if s.Step != StepAwaitingPhotos {
		r.add(e.Prompt(s))
		return
	}

	if err := ValidatePhoto(s, p.Photo); err != nil {
		r.Err = err
		if !errors.Is(err, ErrDuplicatePhoto) {
			r.add(SendText{ChatID: s.ChatID, Text: MsgInvalidPhoto})
		}
		return
	}

	s.addPhoto(p.Photo)
	r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgPhotoReceived, s.PhotoCount, MaxPhotos)})
	if s.PhotoCount < MaxPhotos {
		return
	}

	snap, err := s.Freeze()
	if err != nil {
		r.Err = err
		r.Status = StatusAborted
		r.add(SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgSurveyAborted, e.resetCommand)})
		return
	}
	s.Step = StepComplete
	r.Status = StatusCompleted
	r.Snapshot = &snap
	r.add(SendText{ChatID: s.ChatID, Text: MsgSurveyComplete})
}

// Prompt is the message that asks for the input the current step expects.
func (e *Engine) Prompt(s *Session) Action {
	switch s.Step {
	case StepAwaitingOperation:
		return SendPrompt{ChatID: s.ChatID, Text: MsgChooseOperation, Keyboard: Keyboard{Inline: [][]Button{
			{{Text: string(OperationPreverifica), Data: TokenOperationPreverifica}},
			{{Text: string(OperationAttivazione), Data: TokenOperationAttivazione}},
		}}}
	case StepAwaitingCompany:
		rows := make([][]Button, 0, len(e.companies))
		for _, c := range e.companies {
			rows = append(rows, []Button{{Text: c.Name, Data: TokenCompanyPrefix + c.ID}})
		}
		return SendPrompt{ChatID: s.ChatID, Text: MsgChooseCompany, Keyboard: Keyboard{Inline: rows}}
	case StepAwaitingClientName:
		return SendText{ChatID: s.ChatID, Text: MsgAskClientName}
	case StepAwaitingSignal:
		return SendText{ChatID: s.ChatID, Text: MsgAskSignal}
	case StepAwaitingNotes:
		return SendText{ChatID: s.ChatID, Text: MsgAskNotes}
	case StepAwaitingLocation:
		return SendPrompt{ChatID: s.ChatID, Text: MsgAskLocation, Keyboard: Keyboard{RequestLocation: MsgShareLocationBtn}}
	case StepAwaitingLocationConfirm:
		where := ""
		if s.Location != nil {
			where = s.Location.MapsURL()
		}
		return SendPrompt{ChatID: s.ChatID, Text: fmt.Sprintf(MsgConfirmLocation, where), Keyboard: Keyboard{Inline: [][]Button{{
			{Text: LabelYes, Data: TokenLocationYes},
			{Text: LabelNo, Data: TokenLocationNo},
		}}}}
	case StepAwaitingPhotos:
		return SendText{ChatID: s.ChatID, Text: fmt.Sprintf(MsgAskPhotos, MaxPhotos-s.PhotoCount)}
	}
	return SendText{ChatID: s.ChatID, Text: MsgSurveyComplete}
}

func (e *Engine) companyFor(token string) (Company, bool) {
	id, ok := strings.CutPrefix(token, TokenCompanyPrefix)
	if !ok {
		return Company{}, false
	}
	for _, c := range e.companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}

func operationFor(token string) (OperationType, bool) {
	switch token {
	case TokenOperationPreverifica:
		return OperationPreverifica, true
	case TokenOperationAttivazione:
		return OperationAttivazione, true
	}
	return "", false
}

func disable(s *Session, b ButtonPress) []Action {
	if b.MessageID == 0 {
		return nil
	}
	return []Action{DisableControl{ChatID: s.ChatID, MessageID: b.MessageID, Token: b.Token}}
}
