// Package store persists the registration collection. The production store is
// a single JSON file; a Postgres-backed store and an in-memory store implement
// the same contract.
package store

import (
	"context"

	"github.com/alumni-reunion/backend/internal/models"
)

// Store is the registration record store. LoadAll returns the full collection
// (empty when no data exists yet). Append persists one new record; a non-nil
// error means the record was NOT durably stored and the submission must fail.
type Store interface {
	LoadAll(ctx context.Context) ([]models.Registration, error)
	Append(ctx context.Context, rec models.Registration) error
}

// FindByTicketID scans records for the given ticket id. Returns nil when not
// found.
func FindByTicketID(recs []models.Registration, ticketID string) *models.Registration {
	for i := range recs {
		if recs[i].TicketID == ticketID {
			return &recs[i]
		}
	}
	return nil
}
