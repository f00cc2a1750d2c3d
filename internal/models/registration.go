package models

import "time"

// SessionTag identifies an event sub-activity a registrant opted into.
type SessionTag string

const (
	SessionCeremony SessionTag = "ceremony"
	SessionFestival SessionTag = "festival"
	SessionSports   SessionTag = "sports"
)

// AllSessions is the fixed vocabulary of session tags.
var AllSessions = []SessionTag{SessionCeremony, SessionFestival, SessionSports}

// ValidSession reports whether s is a known session tag.
func ValidSession(s SessionTag) bool {
	switch s {
	case SessionCeremony, SessionFestival, SessionSports:
		return true
	}
	return false
}

// Meta is request context captured for audit purposes only.
type Meta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	Referer   string `json:"referer"`
}

// Registration is one accepted attendee submission.
//
// TicketID, Sessions and Timestamp are immutable once written. CheckedInAt is
// set by an external check-in process, never by this service.
type Registration struct {
	TicketID       string       `json:"ticketId"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	ClassName      string       `json:"className"`
	GraduationYear string       `json:"graduationYear"`
	Message        string       `json:"message,omitempty"`
	Sessions       []SessionTag `json:"sessions"`
	Timestamp      time.Time    `json:"timestamp"`
	Meta           Meta         `json:"meta"`
	CheckedInAt    *time.Time   `json:"checked_in_at"`
}

// HasSession reports whether the registration includes the given tag.
func (r Registration) HasSession(tag SessionTag) bool {
	for _, s := range r.Sessions {
		if s == tag {
			return true
		}
	}
	return false
}
