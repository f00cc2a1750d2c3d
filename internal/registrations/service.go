package registrations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
	"github.com/alumni-reunion/backend/internal/store"
)

// Issuer generates the ticket URL and QR artifact for a ticket id.
type Issuer interface {
	Issue(ctx context.Context, ticketID string) (ticketURL string, err error)
	QRPath(ticketID string) string
}

// Notifier is told about accepted registrations (e.g. to queue a confirmation
// email). Failures are best-effort and never fail the submission.
type Notifier interface {
	RegistrationAccepted(ctx context.Context, rec models.Registration, ticketURL string) error
}

// Result is returned to the HTTP layer on a successful submission.
type Result struct {
	TicketID  string `json:"ticketId"`
	TicketURL string `json:"ticketUrl"`
	QRURL     string `json:"qrUrl"`
}

// Service runs the submission workflow:
// validate -> capacity check -> persist -> issue ticket.
type Service struct {
	store    store.Store
	caps     Capacities
	issuer   Issuer
	notifier Notifier
	logger   *zap.Logger

	// submitQueue serializes load -> capacity check -> append so two racing
	// submissions cannot both slip under a near-full cap.
	submitQueue chan struct{}
}

// NewService creates the submission workflow service.
func NewService(st store.Store, caps Capacities, issuer Issuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := make(chan struct{}, 1)
	q <- struct{}{}
	return &Service{store: st, caps: caps, issuer: issuer, logger: logger, submitQueue: q}
}

// SetNotifier attaches an optional post-acceptance notifier.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// Submit runs one submission through the workflow. Failure classes:
// ErrMalformedInput, *ValidationError, *CapacityError, *PersistenceError and
// *TicketArtifactError (record persisted, artifact missing).
func (s *Service) Submit(ctx context.Context, in SubmitInput, meta models.Meta) (*Result, error) {
	v, err := validate(in)
	if err != nil {
		return nil, err
	}

	select {
	case <-s.submitQueue:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { s.submitQueue <- struct{}{} }()

	existing, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if err := checkCapacity(v.Sessions, existing, s.caps); err != nil {
		return nil, err
	}

	rec := models.Registration{
		TicketID:       uuid.NewString(),
		Name:           v.Name,
		Phone:          v.Phone,
		Email:          v.Email,
		ClassName:      v.ClassName,
		GraduationYear: v.GraduationYear,
		Message:        v.Message,
		Sessions:       v.Sessions,
		Timestamp:      time.Now().UTC(),
		Meta: models.Meta{
			IP:        sanitize(meta.IP, maxMetaField),
			UserAgent: sanitize(meta.UserAgent, maxMetaField),
			Referer:   sanitize(meta.Referer, maxMetaField),
		},
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	ticketURL, err := s.issuer.Issue(ctx, rec.TicketID)
	if err != nil {
		// The record is already persisted. Keep it, surface the artifact
		// failure and leave a loud trail for manual reconciliation.
		s.logger.Error("ticket artifact failed after persist",
			zap.String("ticket_id", rec.TicketID), zap.Error(err))
		return nil, &TicketArtifactError{TicketID: rec.TicketID, Err: err}
	}

	if s.notifier != nil {
		if err := s.notifier.RegistrationAccepted(ctx, rec, ticketURL); err != nil {
			s.logger.Warn("confirmation notify failed",
				zap.String("ticket_id", rec.TicketID), zap.Error(err))
		}
	}

	s.logger.Info("registration accepted",
		zap.String("ticket_id", rec.TicketID),
		zap.Strings("sessions", sessionsToStrings(rec.Sessions)))
	return &Result{
		TicketID:  rec.TicketID,
		TicketURL: ticketURL,
		QRURL:     s.issuer.QRPath(rec.TicketID),
	}, nil
}

// CountBySession returns the current per-tag registration counts.
func (s *Service) CountBySession(ctx context.Context) (map[models.SessionTag]int, error) {
	recs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountBySession(recs), nil
}

// GetByTicketID returns the registration for a ticket id, or nil.
func (s *Service) GetByTicketID(ctx context.Context, ticketID string) (*models.Registration, error) {
	recs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return store.FindByTicketID(recs, ticketID), nil
}

// ListAll returns the full collection (admin surface).
func (s *Service) ListAll(ctx context.Context) ([]models.Registration, error) {
	return s.store.LoadAll(ctx)
}

// CeremonyCapacity exposes the configured ceremony cap (0 = uncapped).
func (s *Service) CeremonyCapacity() int {
	return s.caps[models.SessionCeremony]
}

func sessionsToStrings(tags []models.SessionTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
