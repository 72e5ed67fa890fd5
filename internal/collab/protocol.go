package collab

import (
	"encoding/json"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/editor"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editing
	TypeInput       = "input"
	TypeFrame       = "frame"
	TypeFrameResult = "frame.result"
	TypeCommand     = "command"
	TypeCommandAck  = "command.ack"

	// Document sync
	TypeDocSync = "doc.sync"
)

// PresencePayload describes one connection's editing session to the rest
// of its room. The server derives it from the session after every frame
// and command.
type PresencePayload struct {
	ClientID    string     `json:"clientId,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Cursor      *CursorPos `json:"cursor,omitempty"`
	// Selection is the name of the selected object.
	Selection string `json:"selection,omitempty"`
	// Transform is the active gizmo: translate, rotate or scale.
	Transform string `json:"transform,omitempty"`
	// Marquee is the handle selection rectangle being dragged.
	Marquee *geom.Rect `json:"marquee,omitempty"`
}

// CursorPos is in canvas pixels.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]PresencePayload `json:"presences"` // clientID -> presence
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type WelcomePayload struct {
	ClientID string          `json:"clientId"`
	UserID   string          `json:"userId"`
	Document document.Record `json:"document"`
}

// InputPayload carries raw events for the next frame.
type InputPayload struct {
	Events []input.Event `json:"events"`
}

// FramePayload advances the session by one frame after queueing Events.
type FramePayload struct {
	Events []input.Event `json:"events,omitempty"`
}

type FrameResultPayload struct {
	Commands []render.DrawCommand `json:"commands"`
	Message  string               `json:"message,omitempty"`
	Selected string               `json:"selected,omitempty"`
	Cursor   CursorPos            `json:"cursor"`
}

type CommandPayload struct {
	// ID is echoed back in the ack or error.
	ID      string         `json:"id,omitempty"`
	Command editor.Command `json:"command"`
}

type CommandAckPayload struct {
	ID     string        `json:"id,omitempty"`
	Result editor.Result `json:"result"`
}

type ErrorPayload struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

type DocSyncPayload struct {
	UserID   string          `json:"userId"`
	Document document.Record `json:"document"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
