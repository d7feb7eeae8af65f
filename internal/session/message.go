package session

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/scene"
)

// Message types accepted by a session.
const (
	TypeDown     = "down"
	TypeMove     = "move"
	TypeUp       = "up"
	TypeKey      = "key"
	TypeOpen     = "open"
	TypeNew      = "new"
	TypeSave     = "save"
	TypeLoad     = "load"
	TypeView     = "view"
	TypeSnapshot = "snapshot"
)

// Message is one inbound event from a renderer.
type Message struct {
	Type   string  `json:"type" validate:"required,oneof=down move up key open new save load view snapshot"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button string  `json:"button,omitempty" validate:"omitempty,oneof=left right"`
	Key    string  `json:"key,omitempty" validate:"required_if=Type key"`
	Folder string  `json:"folder,omitempty" validate:"required_if=Type open"`
	Name   string  `json:"name,omitempty" validate:"required_if=Type new"`
	Index  int     `json:"index,omitempty" validate:"min=0"`
}

// Point returns the message position.
func (m Message) Point() geom.Point {
	return geom.Pt(m.X, m.Y)
}

// Frame types sent to renderers.
const (
	FrameSnapshot = "snapshot"
	FrameContent  = "content"
	FrameError    = "error"
)

// Frame is one outbound message.
type Frame struct {
	Type     string          `json:"type"`
	Snapshot *scene.Snapshot `json:"snapshot,omitempty"`
	Path     string          `json:"path,omitempty"`
	Text     string          `json:"text,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// ErrorFrame wraps err for a renderer.
func ErrorFrame(err error) Frame {
	return Frame{Type: FrameError, Message: err.Error()}
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid message")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the message shape.
func (m Message) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w %q: %s fails %q", ErrInvalid, m.Type, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m.Type == TypeKey && utf8.RuneCountInString(m.Key) != 1 {
		return fmt.Errorf("%w \"key\": want a single character, got %q", ErrInvalid, m.Key)
	}
	return nil
}
