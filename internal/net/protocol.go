package net

import (
	"encoding/base64"
	"encoding/json"

	"LocalSketch/internal/errors"
)

// Client message types.
const (
	TypePointer = "pointer"
	TypeTool    = "tool"
	TypeColor   = "color"
	TypeText    = "text"
	TypeImage   = "image"
)

// Server message types. Surface frames are sent as binary PNG messages.
const (
	TypeHello    = "hello"
	TypeSettings = "settings"
	TypePrompt   = "prompt"
	TypeError    = "error"
)

// Pointer phases.
const (
	PhaseDown  = "down"
	PhaseMove  = "move"
	PhaseUp    = "up"
	PhaseLeave = "leave"
)

// ClientMessage is any JSON message a browser client sends. Only the fields
// of its Type are meaningful.
type ClientMessage struct {
	Type string `json:"type"`

	Phase string  `json:"phase,omitempty"`
	X     float32 `json:"x,omitempty"`
	Y     float32 `json:"y,omitempty"`

	Tool  string `json:"tool,omitempty"`
	Color string `json:"color,omitempty"`

	PromptID  string `json:"prompt_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`

	Data string `json:"data,omitempty"` // base64 image bytes
}

// DecodeClientMessage parses and checks one client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.Wrap(errors.ErrCodeInvalidMessage, err, "decode message")
	}
	switch m.Type {
	case TypePointer:
		switch m.Phase {
		case PhaseDown, PhaseMove, PhaseUp, PhaseLeave:
		default:
			return m, errors.New(errors.ErrCodeInvalidMessage, "unknown pointer phase %q", m.Phase)
		}
	case TypeTool, TypeColor, TypeImage:
	case TypeText:
		if m.PromptID == "" {
			return m, errors.New(errors.ErrCodeInvalidMessage, "text reply without prompt_id")
		}
	case "":
		return m, errors.New(errors.ErrCodeInvalidMessage, "message has no type")
	default:
		return m, errors.New(errors.ErrCodeInvalidMessage, "unknown message type %q", m.Type)
	}
	return m, nil
}

// ImageBytes returns the decoded payload of an image message.
func (m ClientMessage) ImageBytes() ([]byte, error) {
	if m.Data == "" {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image message has no data")
	}
	b, err := base64.StdEncoding.DecodeString(m.Data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image data")
	}
	return b, nil
}

type helloMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Tool    string `json:"tool"`
	Color   string `json:"color"`
}

type settingsMessage struct {
	Type  string `json:"type"`
	Tool  string `json:"tool"`
	Color string `json:"color"`
}

type promptMessage struct {
	Type     string  `json:"type"`
	PromptID string  `json:"prompt_id"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
}

type errorMessage struct {
	Type    string      `json:"type"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func newErrorMessage(err error) errorMessage {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errorMessage{Type: TypeError, Code: code, Message: err.Error()}
}
