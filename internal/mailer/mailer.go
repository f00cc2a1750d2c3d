// Package mailer delivers registration confirmation emails. Submissions never
// wait on email: the HTTP layer enqueues jobs and the worker drains them.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/config"
	"github.com/alumni-reunion/backend/pkg/queue"
)

const retryBackoff = 10 * time.Second

// Sender delivers a single confirmation email.
type Sender interface {
	Send(ctx context.Context, p queue.ConfirmationPayload) error
}

// SMTPSender sends mail over plain SMTP with optional auth.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an SMTP sender from config.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers the confirmation email for one accepted registration.
func (s *SMTPSender) Send(ctx context.Context, p queue.ConfirmationPayload) error {
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}
	msg := buildMessage(s.cfg, p)
	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{p.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMessage(cfg config.EmailConfig, p queue.ConfirmationPayload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.FromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", p.RecipientEmail)
	fmt.Fprintf(&b, "Subject: Your registration is confirmed\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", p.RecipientName)
	fmt.Fprintf(&b, "Your registration is confirmed for: %s\r\n", strings.Join(p.Sessions, ", "))
	fmt.Fprintf(&b, "Your ticket: %s\r\n\r\n", p.TicketURL)
	b.WriteString("Show the QR code on your ticket page at check-in.\r\n")
	return []byte(b.String())
}

// Processor consumes confirmation jobs from the queue and delivers them.
type Processor struct {
	queue  *queue.Queue
	sender Sender
	logger *zap.Logger
}

// NewProcessor creates a confirmation email processor.
func NewProcessor(q *queue.Queue, sender Sender, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{queue: q, sender: sender, logger: logger}
}

// Process executes one confirmation job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeConfirmation {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ConfirmationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := p.sender.Send(ctx, payload); err != nil {
		return err
	}
	p.logger.Info("confirmation sent",
		zap.String("ticket_id", payload.TicketID),
		zap.String("recipient", payload.RecipientEmail))
	return nil
}

// Run consumes jobs until ctx is cancelled. Failed jobs are retried with
// backoff and eventually dead-lettered by the queue.
func (p *Processor) Run(ctx context.Context) {
	p.logger.Info("confirmation worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("confirmation worker stopped")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(retryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			time.Sleep(retryBackoff)
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}
}
