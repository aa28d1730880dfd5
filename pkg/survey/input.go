package survey

import "strings"

// Event is one decoded inbound update, already stripped of transport details.
// At most one of the payload fields is expected to be set; Classify decides
// precedence when several are.
type Event struct {
	ChatID   int64
	Text     string
	Location *Location
	Photos   []PhotoRef
	Callback *Callback
}

// Callback is an inline button press.
type Callback struct {
	ID        string
	Data      string
	MessageID int64
}

// Input is the closed set of classified inputs the engine understands.
type Input interface {
	Kind() string
	isInput()
}

type ButtonPress struct {
	Token      string
	CallbackID string
	MessageID  int64
}

type TextMessage struct {
	Text string
}

type LocationShared struct {
	Location Location
}

type PhotoReceived struct {
	Photo PhotoRef
}

type ResetCommand struct{}

// Unrecognized covers updates with no usable payload (stickers, edits, ...).
type Unrecognized struct{}

func (ButtonPress) Kind() string    { return "button" }
func (TextMessage) Kind() string    { return "text" }
func (LocationShared) Kind() string { return "location" }
func (PhotoReceived) Kind() string  { return "photo" }
func (ResetCommand) Kind() string   { return "reset" }
func (Unrecognized) Kind() string   { return "unrecognized" }

func (ButtonPress) isInput()    {}
func (TextMessage) isInput()    {}
func (LocationShared) isInput() {}
func (PhotoReceived) isInput()  {}
func (ResetCommand) isInput()   {}
func (Unrecognized) isInput()   {}

// Classify maps an event to an Input by looking only at which fields are
// present. The reset literal wins over every step.
//
// Photos arrive as a list of sizes of the same picture; the last (largest)
// one is kept.
func Classify(ev Event, resetCommand string) Input {
	switch {
	case ev.Callback != nil:
		return ButtonPress{
			Token:      ev.Callback.Data,
			CallbackID: ev.Callback.ID,
			MessageID:  ev.Callback.MessageID,
		}
	case len(ev.Photos) > 0:
		return PhotoReceived{Photo: ev.Photos[len(ev.Photos)-1]}
	case ev.Location != nil:
		return LocationShared{Location: *ev.Location}
	case resetCommand != "" && strings.TrimSpace(ev.Text) == resetCommand:
		return ResetCommand{}
	case ev.Text != "":
		return TextMessage{Text: ev.Text}
	}
	return Unrecognized{}
}
