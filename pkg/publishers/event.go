package publishers

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is an audit record of one CLI operation. It never carries passwords or tokens.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Profile    string    `json:"profile"`
	Username   string    `json:"username,omitempty"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs a successful Event for the given action.
func NewEvent(action, profile, username string) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		Profile:    profile,
		Username:   username,
		Outcome:    OutcomeSuccess,
		OccurredAt: time.Now().UTC(),
	}
}

// WithFailure marks the event as failed.
func (e Event) WithFailure(kind string, status int, msg string) Event {
	e.Outcome = OutcomeFailure
	e.ErrorKind = kind
	e.StatusCode = status
	e.Message = msg
	return e
}

// attributes are attached as broker message attributes where supported.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"action":  e.Action,
		"outcome": e.Outcome,
	}
}
