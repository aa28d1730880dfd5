package survey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatID int64 = 4242

func press(token string, messageID int64) ButtonPress {
	return ButtonPress{Token: token, CallbackID: "cb-" + token, MessageID: messageID}
}

func photo(id string) PhotoReceived {
	return PhotoReceived{Photo: PhotoRef{FileID: "file-" + id, UniqueID: "uniq-" + id}}
}

// walkTo drives a fresh session up to the given step through the public flow.
func walkTo(t *testing.T, e *Engine, target Step) *Session {
	t.Helper()
	s := NewSession(chatID)
	inputs := []Input{
		press(TokenOperationAttivazione, 10),
		press(TokenCompanyPrefix+"comino", 11),
		TextMessage{Text: "mario rossi"},
		TextMessage{Text: "80"},
		TextMessage{Text: "fibra posata correttamente"},
		LocationShared{Location: Location{Latitude: 45.07, Longitude: 7.68}},
		press(TokenLocationYes, 12),
	}
	for _, in := range inputs {
		if s.Step == target {
			return s
		}
		e.Apply(s, in)
	}
	require.Equal(t, target, s.Step)
	return s
}

func actionsOf[T Action](actions []Action) []T {
	var out []T
	for _, a := range actions {
		if v, ok := a.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestEngineHappyPath(t *testing.T) {
	e := NewEngine()
	s := NewSession(chatID)

	r := e.Apply(s, press(TokenOperationPreverifica, 10))
	assert.Equal(t, StepAwaitingCompany, s.Step)
	assert.Equal(t, OperationPreverifica, s.OperationType)
	assert.True(t, r.Advanced())
	assert.Equal(t, []DisableControl{{ChatID: chatID, MessageID: 10, Token: TokenOperationPreverifica}}, actionsOf[DisableControl](r.Actions))
	assert.Equal(t, AcknowledgeButton{CallbackID: "cb-" + TokenOperationPreverifica}, r.Actions[0])

	e.Apply(s, press(TokenCompanyPrefix+"bf_impianti", 11))
	require.NotNil(t, s.Company)
	assert.Equal(t, "BF IMPIANTI", s.Company.Name)
	assert.Equal(t, StepAwaitingClientName, s.Step)

	e.Apply(s, TextMessage{Text: "mario rossi"})
	assert.Equal(t, "MARIO ROSSI", s.ClientName)
	assert.Equal(t, StepAwaitingSignal, s.Step)

	e.Apply(s, TextMessage{Text: "80"})
	require.NotNil(t, s.SignalValue)
	assert.Equal(t, 80, *s.SignalValue)
	outcome, ok := s.Outcome()
	assert.True(t, ok)
	assert.Equal(t, OutcomeKO, outcome)
	assert.Equal(t, StepAwaitingNotes, s.Step)

	r = e.Apply(s, TextMessage{Text: "ok"})
	assert.ErrorIs(t, r.Err, ErrTooShort)
	assert.Equal(t, StepAwaitingNotes, s.Step)
	assert.Empty(t, s.Notes)
	assert.Equal(t, []Action{SendText{ChatID: chatID, Text: MsgInvalidNotes}}, r.Actions)

	e.Apply(s, TextMessage{Text: "  armadio ripristinato  "})
	assert.Equal(t, "armadio ripristinato", s.Notes)
	assert.Equal(t, StepAwaitingLocation, s.Step)

	r = e.Apply(s, LocationShared{Location: Location{Latitude: 41.9, Longitude: 12.5}})
	assert.Equal(t, StepAwaitingLocationConfirm, s.Step)
	prompts := actionsOf[SendPrompt](r.Actions)
	require.Len(t, prompts, 2)
	assert.True(t, prompts[0].Keyboard.Remove)
	assert.Len(t, prompts[1].Keyboard.Inline[0], 2)

	e.Apply(s, press(TokenLocationYes, 12))
	assert.Equal(t, StepAwaitingPhotos, s.Step)
	assert.Empty(t, s.PhotoRefs)

	e.Apply(s, photo("1"))
	e.Apply(s, photo("2"))
	r = e.Apply(s, photo("3"))

	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, StepComplete, s.Step)
	require.NotNil(t, r.Snapshot)
	snap := r.Snapshot
	assert.Equal(t, OperationPreverifica, snap.OperationType)
	assert.Equal(t, "MARIO ROSSI", snap.ClientName)
	assert.Equal(t, 80, snap.SignalValue)
	assert.Equal(t, OutcomeKO, snap.Outcome)
	assert.Equal(t, Location{Latitude: 41.9, Longitude: 12.5}, snap.Location)
	assert.Equal(t, []PhotoRef{photo("1").Photo, photo("2").Photo, photo("3").Photo}, snap.PhotoRefs)
	assert.Contains(t, r.Actions, Action(SendText{ChatID: chatID, Text: MsgSurveyComplete}))
}

func TestEngineSnapshotIsDetached(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingPhotos)
	e.Apply(s, photo("1"))
	e.Apply(s, photo("2"))
	r := e.Apply(s, photo("3"))
	require.NotNil(t, r.Snapshot)

	s.PhotoRefs[0] = PhotoRef{FileID: "tampered"}
	*s.SignalValue = 1
	assert.Equal(t, "file-1", r.Snapshot.PhotoRefs[0].FileID)
	assert.Equal(t, 80, r.Snapshot.SignalValue)
}

func TestEngineResetFromEveryStep(t *testing.T) {
	e := NewEngine()
	for _, step := range []Step{
		StepAwaitingOperation,
		StepAwaitingCompany,
		StepAwaitingClientName,
		StepAwaitingSignal,
		StepAwaitingNotes,
		StepAwaitingLocation,
		StepAwaitingLocationConfirm,
		StepAwaitingPhotos,
	} {
		t.Run(step.String(), func(t *testing.T) {
			s := walkTo(t, e, step)
			if step == StepAwaitingPhotos {
				e.Apply(s, photo("1"))
			}

			r := e.Apply(s, e.Classify(Event{ChatID: chatID, Text: " /start "}))

			assert.Equal(t, StatusReset, r.Status)
			assert.Equal(t, StepAwaitingOperation, s.Step)
			assert.Equal(t, chatID, s.ChatID)
			assert.Empty(t, s.OperationType)
			assert.Nil(t, s.Company)
			assert.Empty(t, s.ClientName)
			assert.Nil(t, s.SignalValue)
			assert.Empty(t, s.Notes)
			assert.Nil(t, s.Location)
			assert.Empty(t, s.PhotoRefs)
			assert.Zero(t, s.PhotoCount)
			require.Len(t, r.Actions, 1)
			assert.Equal(t, MsgChooseOperation, r.Actions[0].(SendPrompt).Text)
		})
	}
}

func TestEngineDuplicatePhotoIsIgnored(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingPhotos)

	e.Apply(s, photo("1"))
	r := e.Apply(s, photo("1"))

	assert.ErrorIs(t, r.Err, ErrDuplicatePhoto)
	assert.Empty(t, r.Actions)
	assert.Equal(t, 1, s.PhotoCount)
	assert.Len(t, s.PhotoRefs, s.PhotoCount)
	assert.Equal(t, StatusContinue, r.Status)
}

func TestEnginePhotoCountMirrorsRefs(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingPhotos)

	for _, id := range []string{"1", "1", "2", "", "2", "3"} {
		in := photo(id)
		if id == "" {
			in = PhotoReceived{}
		}
		e.Apply(s, in)
		assert.Equal(t, len(s.PhotoRefs), s.PhotoCount)
		assert.LessOrEqual(t, s.PhotoCount, MaxPhotos)
	}
	assert.Equal(t, StepComplete, s.Step)
}

func TestEngineAbortsIncompleteSession(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingPhotos)
	s.Notes = ""

	e.Apply(s, photo("1"))
	e.Apply(s, photo("2"))
	r := e.Apply(s, photo("3"))

	assert.Equal(t, StatusAborted, r.Status)
	assert.Nil(t, r.Snapshot)
	assert.ErrorIs(t, r.Err, ErrIncompleteSession)
	assert.Contains(t, r.Err.Error(), "notes")
	assert.NotEqual(t, StepComplete, s.Step)
	last := r.Actions[len(r.Actions)-1].(SendText)
	assert.Contains(t, last.Text, "Contatta l'assistenza")
}

func TestEngineLocationRejected(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingLocationConfirm)

	r := e.Apply(s, press(TokenLocationNo, 12))

	assert.Equal(t, StepAwaitingLocation, s.Step)
	assert.Nil(t, s.Location)
	prompt := r.Actions[len(r.Actions)-1].(SendPrompt)
	assert.Equal(t, MsgShareLocationBtn, prompt.Keyboard.RequestLocation)
}

func TestEngineStaleButtonDoesNotChangeState(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingSignal)
	before := *s

	r := e.Apply(s, press(TokenOperationAttivazione, 10))

	assert.Equal(t, before.Step, s.Step)
	assert.Equal(t, before.OperationType, s.OperationType)
	assert.Equal(t, before.ClientName, s.ClientName)
	assert.False(t, r.Advanced())
	require.Len(t, r.Actions, 3)
	assert.Equal(t, AcknowledgeButton{CallbackID: "cb-" + TokenOperationAttivazione, Text: MsgButtonExpired}, r.Actions[0])
	assert.Equal(t, DisableControl{ChatID: chatID, MessageID: 10, Token: TokenOperationAttivazione}, r.Actions[1])
	assert.Equal(t, SendText{ChatID: chatID, Text: MsgAskSignal}, r.Actions[2])

	// Answering the same stale control again is harmless.
	r2 := e.Apply(s, press(TokenOperationAttivazione, 10))
	assert.Equal(t, r.Actions, r2.Actions)
	assert.Equal(t, before.Step, s.Step)
}

func TestEngineUnknownCompanyReprompts(t *testing.T) {
	e := NewEngine()
	s := walkTo(t, e, StepAwaitingCompany)

	r := e.Apply(s, press(TokenCompanyPrefix+"acme", 11))

	assert.Equal(t, StepAwaitingCompany, s.Step)
	assert.Nil(t, s.Company)
	prompt := r.Actions[len(r.Actions)-1].(SendPrompt)
	assert.Len(t, prompt.Keyboard.Inline, len(DefaultCompanies))
}

func TestEngineCustomCompanies(t *testing.T) {
	e := NewEngine(WithCompanies(Company{ID: "acme", Name: "ACME SRL"}))
	s := walkTo(t, NewEngine(), StepAwaitingCompany)

	e.Apply(s, press(TokenCompanyPrefix+"acme", 11))

	require.NotNil(t, s.Company)
	assert.Equal(t, "ACME SRL", s.Company.Name)
}

func TestEngineWrongInputReprompts(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name  string
		step  Step
		input Input
	}{
		{name: "text while choosing operation", step: StepAwaitingOperation, input: TextMessage{Text: "ciao"}},
		{name: "photo while naming client", step: StepAwaitingClientName, input: photo("x")},
		{name: "location while waiting signal", step: StepAwaitingSignal, input: LocationShared{}},
		{name: "text while waiting location", step: StepAwaitingLocation, input: TextMessage{Text: "via roma 1"}},
		{name: "new location while confirming", step: StepAwaitingLocationConfirm, input: LocationShared{Location: Location{Latitude: 1}}},
		{name: "text while waiting photos", step: StepAwaitingPhotos, input: TextMessage{Text: "eccole"}},
		{name: "sticker", step: StepAwaitingNotes, input: Unrecognized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := walkTo(t, e, tt.step)
			before := *s

			r := e.Apply(s, tt.input)

			assert.Equal(t, tt.step, s.Step)
			assert.Equal(t, before.Location, s.Location)
			assert.Equal(t, before.PhotoCount, s.PhotoCount)
			assert.Equal(t, StatusContinue, r.Status)
			require.NotEmpty(t, r.Actions)
			assert.Equal(t, e.Prompt(s), r.Actions[len(r.Actions)-1])
		})
	}
}

func TestEngineValidationKeepsStep(t *testing.T) {
	e := NewEngine()

	s := walkTo(t, e, StepAwaitingClientName)
	r := e.Apply(s, TextMessage{Text: "   "})
	assert.ErrorIs(t, r.Err, ErrEmpty)
	assert.Equal(t, StepAwaitingClientName, s.Step)

	s = walkTo(t, e, StepAwaitingSignal)
	for _, bad := range []string{"0", "99", "abc", "7.5"} {
		r = e.Apply(s, TextMessage{Text: bad})
		var vErr *ValidationError
		assert.True(t, errors.As(r.Err, &vErr), bad)
		assert.Equal(t, StepAwaitingSignal, s.Step)
		assert.Nil(t, s.SignalValue)
		assert.Equal(t, []Action{SendText{ChatID: chatID, Text: MsgInvalidSignal}}, r.Actions)
	}
}
