package registrations

import (
	"regexp"
	"strings"

	"github.com/alumni-reunion/backend/internal/models"
)

// Field length caps. Overlong input is truncated, never rejected.
const (
	maxName           = 120
	maxPhone          = 32
	maxEmail          = 120
	maxClassName      = 60
	maxGraduationYear = 20
	maxMessage        = 1000
	maxMetaField      = 200
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitInput carries raw untrusted form fields. Session is the legacy
// single-choice field, folded into Sessions during validation.
type SubmitInput struct {
	Name           string   `json:"name" form:"name"`
	Phone          string   `json:"phone" form:"phone"`
	Email          string   `json:"email" form:"email"`
	ClassName      string   `json:"className" form:"className"`
	Class          string   `json:"class" form:"class"`
	GraduationYear string   `json:"graduationYear" form:"graduationYear"`
	Message        string   `json:"message" form:"message"`
	Sessions       []string `json:"sessions" form:"sessions"`
	Session        string   `json:"session" form:"session"`
	Website        string   `json:"website" form:"website"` // honeypot, must stay empty
}

// validated is the normalized result of a successful validation.
type validated struct {
	Name           string
	Phone          string
	Email          string
	ClassName      string
	GraduationYear string
	Message        string
	Sessions       []models.SessionTag
}

// validate applies the submission rules in order, first failure wins:
// honeypot, required fields, email shape, phone digits, session set.
func validate(in SubmitInput) (*validated, error) {
	if in.Website != "" {
		return nil, ErrMalformedInput
	}

	v := &validated{
		Name:           sanitize(in.Name, maxName),
		Phone:          sanitize(in.Phone, maxPhone),
		Email:          sanitize(in.Email, maxEmail),
		GraduationYear: sanitize(in.GraduationYear, maxGraduationYear),
		Message:        sanitize(in.Message, maxMessage),
	}
	className := in.ClassName
	if className == "" {
		className = in.Class
	}
	v.ClassName = sanitize(className, maxClassName)

	required := []struct{ field, value string }{
		{"name", v.Name},
		{"phone", v.Phone},
		{"email", v.Email},
		{"className", v.ClassName},
		{"graduationYear", v.GraduationYear},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &ValidationError{Field: r.field, Reason: "missing required field"}
		}
	}

	if !emailPattern.MatchString(v.Email) {
		return nil, &ValidationError{Field: "email", Reason: "not a valid email address"}
	}

	digits := keepDigits(v.Phone)
	if len(digits) < 7 || len(digits) > 15 {
		return nil, &ValidationError{Field: "phone", Reason: "must contain 7-15 digits"}
	}

	v.Sessions = normalizeSessions(in.Sessions, in.Session)
	if len(v.Sessions) == 0 {
		return nil, &ValidationError{Field: "sessions", Reason: "select at least one session"}
	}
	return v, nil
}

// sanitize strips control characters, trims whitespace and truncates to max
// runes.
func sanitize(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > max {
		out = string(runes[:max])
	}
	return out
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSessions merges the list form and the legacy single-value form
// into a deduplicated set, discarding unknown tags.
func normalizeSessions(list []string, single string) []models.SessionTag {
	raw := make([]string, 0, len(list)+1)
	raw = append(raw, list...)
	if single != "" {
		raw = append(raw, single)
	}
	seen := make(map[models.SessionTag]struct{})
	var out []models.SessionTag
	for _, s := range raw {
		tag := models.SessionTag(strings.ToLower(strings.TrimSpace(s)))
		if !models.ValidSession(tag) {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
