// Package tickets issues ticket URLs and QR code artifacts for accepted
// registrations.
package tickets

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 512 // px

// Issuer builds absolute ticket URLs and persists QR PNG artifacts keyed by
// ticket id.
type Issuer struct {
	baseURL   string
	artifacts ArtifactStore
	logger    *zap.Logger
}

// NewIssuer creates a ticket issuer. baseURL is the public base URL the QR
// code must resolve against (scanning apps have no app context, so the
// encoded URL is always absolute).
func NewIssuer(baseURL string, artifacts ArtifactStore, logger *zap.Logger) (*Issuer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("public base URL %q is not an absolute URL", baseURL)
	}
	return &Issuer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		artifacts: artifacts,
		logger:    logger,
	}, nil
}

// TicketURL returns the absolute public ticket page URL for a ticket id.
func (i *Issuer) TicketURL(ticketID string) string {
	return i.baseURL + "/ticket/" + url.PathEscape(ticketID)
}

// QRPath returns the server-relative path the QR artifact is served from.
func (i *Issuer) QRPath(ticketID string) string {
	return "/qr/" + url.PathEscape(ticketID)
}

// Issue renders and persists the QR artifact for a ticket id and returns the
// absolute ticket URL it encodes. Any render or persist failure is returned;
// the caller decides how to report a ticket without its artifact.
func (i *Issuer) Issue(ctx context.Context, ticketID string) (string, error) {
	ticketURL := i.TicketURL(ticketID)
	png, err := qrcode.Encode(ticketURL, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	if err := i.artifacts.Save(ctx, ticketID, png); err != nil {
		return "", fmt.Errorf("persist qr: %w", err)
	}
	i.logger.Debug("ticket issued", zap.String("ticket_id", ticketID))
	return ticketURL, nil
}
