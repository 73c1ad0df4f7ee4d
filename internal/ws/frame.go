package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"edlink/internal/domain"

	"github.com/go-playground/validator/v10"
)

var ErrBadFrame = errors.New("malformed frame")

// Frame is a client -> server message.
type Frame struct {
	Type      string `json:"type" validate:"required,oneof=subscribe unsubscribe send_message update_presence ping"`
	SubjectID uint   `json:"subject_id" validate:"required_unless=Type ping"`
	Content   string `json:"content"`
}

// Event is a server -> client message.
type Event struct {
	Type      string      `json:"type"`
	SubjectID uint        `json:"subject_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *EventError `json:"error,omitempty"`
}

type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeFrame parses and validates raw. Errors wrap ErrBadFrame.
func DecodeFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if err := validate.Struct(&f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: invalid %s", ErrBadFrame, strings.ToLower(verrs[0].Field()))
		}
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return &f, nil
}

func ErrorEvent(subjectID uint, code, message string) *Event {
	return &Event{
		Type:      domain.EventError,
		SubjectID: subjectID,
		Error:     &EventError{Code: code, Message: message},
	}
}

func Encode(ev *Event) ([]byte, error) {
	return json.Marshal(ev)
}
