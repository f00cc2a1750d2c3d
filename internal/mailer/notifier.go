package mailer

import (
	"context"

	"github.com/alumni-reunion/backend/internal/models"
	"github.com/alumni-reunion/backend/pkg/queue"
)

// QueueNotifier enqueues a confirmation email job for each accepted
// registration. Satisfies registrations.Notifier.
type QueueNotifier struct {
	queue *queue.Queue
}

// NewQueueNotifier creates a queue-backed notifier.
func NewQueueNotifier(q *queue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

// RegistrationAccepted queues the confirmation email. Errors are returned for
// logging only; the submission has already succeeded.
func (n *QueueNotifier) RegistrationAccepted(ctx context.Context, rec models.Registration, ticketURL string) error {
	sessions := make([]string, len(rec.Sessions))
	for i, s := range rec.Sessions {
		sessions[i] = string(s)
	}
	return n.queue.EnqueueConfirmation(ctx, queue.ConfirmationPayload{
		TicketID:       rec.TicketID,
		RecipientEmail: rec.Email,
		RecipientName:  rec.Name,
		TicketURL:      ticketURL,
		Sessions:       sessions,
	})
}
