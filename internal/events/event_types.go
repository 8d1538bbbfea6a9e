package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates auth audit event identifiers.
type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginRejected   EventType = "login_rejected"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventTokenRevoked    EventType = "token_revoked"
	EventRequestRejected EventType = "request_rejected"
	EventUserSignedUp    EventType = "user_signed_up"
	EventUserVerified    EventType = "user_verified"
)

// Event is an audit record emitted by the auth subsystem. Subject may be
// empty when the caller could not be identified (malformed token, unknown
// user). Reason carries the internal failure kind; it is for the audit log
// only and never reaches clients.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   string    `json:"subject,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Path      string    `json:"path,omitempty"`
	Method    string    `json:"method,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds an event for the given subject.
func New(eventType EventType, subject string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
	}
}

// NewRejection builds a request_rejected event with routing context.
func NewRejection(subject, reason, method, path string) Event {
	ev := New(EventRequestRejected, subject)
	ev.Reason = reason
	ev.Method = method
	ev.Path = path
	return ev
}
