// Package store provides the append-only record store for application records.
//
// Two backends implement the same contract: a Google Sheets tab (the default)
// and a PostgreSQL table (selected when DATABASE_URL is set). Records are
// append-only history; nothing in this system updates or deletes them.
package store

import (
	"context"

	"github.com/jonathan/job-tracker/internal/types"
)

// Header is the fixed column set shared by both backends.
var Header = []string{"Date", "Company", "Role", "Status", "Next Steps", "Email Date", "Email ID"}

// RecordStore is the append-only table of application records.
type RecordStore interface {
	// ReadAll returns every persisted record.
	ReadAll(ctx context.Context) ([]types.ApplicationRecord, error)
	// Append persists one record.
	Append(ctx context.Context, rec types.ApplicationRecord) error
	// Close releases backend resources.
	Close()
}

// SeenEmailIDs reduces a record set to the set of persisted email
// identifiers, the sole deduplication key for the pipeline.
func SeenEmailIDs(records []types.ApplicationRecord) map[string]bool {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.EmailID != "" {
			seen[rec.EmailID] = true
		}
	}
	return seen
}
