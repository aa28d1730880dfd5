package survey

// Action is an outbound side effect requested by the engine. Actions are
// executed in order by a dispatcher outside this package.
type Action interface {
	Name() string
	isAction()
}

type Button struct {
	Text string
	Data string
}

// Keyboard describes the controls attached to a prompt. Inline rows are
// callback buttons; RequestLocation shows a one-shot reply keyboard asking
// for the device position; Remove hides any reply keyboard.
type Keyboard struct {
	Inline          [][]Button
	RequestLocation string
	Remove          bool
}

type SendText struct {
	ChatID int64
	Text   string
}

type SendPrompt struct {
	ChatID   int64
	Text     string
	Keyboard Keyboard
}

// AcknowledgeButton stops the loading indicator of a pressed button.
type AcknowledgeButton struct {
	CallbackID string
	Text       string
}

// DisableControl strips the inline keyboard from the message that carried
// the pressed button so it cannot be pressed again.
type DisableControl struct {
	ChatID    int64
	MessageID int64
	Token     string
}

func (SendText) Name() string          { return "send_text" }
func (SendPrompt) Name() string        { return "send_prompt" }
func (AcknowledgeButton) Name() string { return "acknowledge_button" }
func (DisableControl) Name() string    { return "disable_control" }

func (SendText) isAction()          {}
func (SendPrompt) isAction()        {}
func (AcknowledgeButton) isAction() {}
func (DisableControl) isAction()    {}
