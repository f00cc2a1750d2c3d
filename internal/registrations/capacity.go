package registrations

import (
	"github.com/alumni-reunion/backend/config"
	"github.com/alumni-reunion/backend/internal/models"
)

// Capacities maps session tags to their registration caps. Tags absent from
// the map (or mapped to zero) are uncapped.
type Capacities map[models.SessionTag]int

// CapacitiesFromConfig builds the cap map, dropping zero (uncapped) entries.
func CapacitiesFromConfig(cfg config.CapacityConfig) Capacities {
	caps := Capacities{}
	if cfg.Ceremony > 0 {
		caps[models.SessionCeremony] = cfg.Ceremony
	}
	if cfg.Festival > 0 {
		caps[models.SessionFestival] = cfg.Festival
	}
	if cfg.Sports > 0 {
		caps[models.SessionSports] = cfg.Sports
	}
	return caps
}

// checkCapacity counts existing records per capped tag in the candidate set
// and returns a CapacityError for the first tag whose cap is already reached.
// Counts are taken fresh from the full collection every time; there are no
// cached counters.
func checkCapacity(candidate []models.SessionTag, existing []models.Registration, caps Capacities) error {
	for _, tag := range candidate {
		limit, capped := caps[tag]
		if !capped {
			continue
		}
		count := 0
		for _, rec := range existing {
			if rec.HasSession(tag) {
				count++
			}
		}
		if count >= limit {
			return &CapacityError{Session: tag}
		}
	}
	return nil
}

// CountBySession tallies how many records include each known tag.
func CountBySession(recs []models.Registration) map[models.SessionTag]int {
	counts := make(map[models.SessionTag]int, len(models.AllSessions))
	for _, tag := range models.AllSessions {
		counts[tag] = 0
	}
	for _, rec := range recs {
		for _, tag := range rec.Sessions {
			if models.ValidSession(tag) {
				counts[tag]++
			}
		}
	}
	return counts
}
