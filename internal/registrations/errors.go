package registrations

import (
	"errors"
	"fmt"

	"github.com/alumni-reunion/backend/internal/models"
)

// ErrMalformedInput covers honeypot hits and unparseable bodies. The response
// stays generic so automated abuse gets no signal about what was detected.
var ErrMalformedInput = errors.New("bad request")

// ValidationError names the first unmet validation rule. Its message is safe
// to show the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CapacityError reports that a specific session is full. Distinct from a
// validation failure so the UI can disable just that option.
type CapacityError struct {
	Session models.SessionTag
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("session %s is full", e.Session)
}

// PersistenceError wraps a store write failure. The record was not saved.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persist registration: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// TicketArtifactError wraps a QR generation/write failure that happened after
// the record was already persisted. The record stays in the store without a
// usable ticket artifact; callers must log it for manual reconciliation.
type TicketArtifactError struct {
	TicketID string
	Err      error
}

func (e *TicketArtifactError) Error() string {
	return fmt.Sprintf("ticket artifact for %s: %v", e.TicketID, e.Err)
}
func (e *TicketArtifactError) Unwrap() error { return e.Err }
