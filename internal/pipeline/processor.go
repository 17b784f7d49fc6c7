// Package pipeline contains the extraction-and-reconciliation core: the
// decision logic that turns unstructured emails into normalized, deduplicated
// application records, and the digest built from them.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// Source yields candidate email messages.
type Source interface {
	Search(ctx context.Context, limit int) ([]types.EmailMessage, error)
}

// Extractor turns one message into a candidate record. A nil record with a
// nil error means the message is not usable; an error means the model call or
// parsing failed for that message.
type Extractor interface {
	Extract(ctx context.Context, subject, body, emailDate string) (*types.ApplicationRecord, error)
}

// Result reports the outcome of one processing run.
type Result struct {
	RunID     string
	Processed int
	Skipped   int
	Total     int
}

// Processor runs the fetch → extract → reconcile pipeline.
type Processor struct {
	source     Source
	extractor  Extractor
	records    store.RecordStore
	keywords   []string
	fetchLimit int

	// mu serializes runs. A tick or HTTP trigger that arrives while a run is
	// in flight waits for it, so two runs never race on the same dedup read.
	mu sync.Mutex
}

// NewProcessor assembles a Processor from its collaborators.
func NewProcessor(source Source, extractor Extractor, records store.RecordStore, keywords []string, fetchLimit int) *Processor {
	return &Processor{
		source:     source,
		extractor:  extractor,
		records:    records,
		keywords:   keywords,
		fetchLimit: fetchLimit,
	}
}

// Process runs one complete batch: fetch candidate messages, gate them on the
// job vocabulary, extract records for messages not yet persisted, and append
// the accepted candidates.
//
// An error extracting or persisting one message is logged and counted as
// skipped; it never aborts the batch. Only a failure to fetch messages or to
// read the existing record set fails the run as a whole.
func (p *Processor) Process(ctx context.Context) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := Result{RunID: uuid.New().String()}

	messages, err := p.source.Search(ctx, p.fetchLimit)
	if err != nil {
		return res, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Gate before anything else: messages below the keyword threshold never
	// reach the extractor.
	var candidates []types.EmailMessage
	for _, msg := range messages {
		if KeywordGate(msg.Subject+" "+msg.Body, p.keywords) {
			candidates = append(candidates, msg)
		}
	}
	res.Total = len(candidates)

	if len(candidates) == 0 {
		log.Printf("[pipeline] run %s: no job-related messages found", res.RunID)
		return res, nil
	}

	// The durable store is the single source of dedup truth: read its
	// identifier set once per batch rather than trusting an in-memory cache
	// that would diverge across restarts.
	existing, err := p.records.ReadAll(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to read existing records: %w", err)
	}
	seen := store.SeenEmailIDs(existing)

	for _, msg := range candidates {
		if seen[msg.ID] {
			log.Printf("[pipeline] run %s: message %s already processed, skipping", res.RunID, msg.ID)
			res.Skipped++
			continue
		}

		rec, err := p.extractor.Extract(ctx, msg.Subject, msg.Body, msg.Date)
		if err != nil {
			log.Printf("[pipeline] run %s: extraction failed for message %s: %v", res.RunID, msg.ID, err)
			res.Skipped++
			continue
		}
		if rec == nil {
			log.Printf("[pipeline] run %s: no usable application data in message %s", res.RunID, msg.ID)
			res.Skipped++
			continue
		}

		rec.EmailID = msg.ID
		if err := p.records.Append(ctx, *rec); err != nil {
			log.Printf("[pipeline] run %s: failed to persist record for message %s: %v", res.RunID, msg.ID, err)
			res.Skipped++
			continue
		}
		seen[msg.ID] = true
		res.Processed++
		log.Printf("[pipeline] run %s: processed %s - %s (%s)", res.RunID, rec.Company, rec.Role, rec.Status)
	}

	log.Printf("[pipeline] run %s: processed=%d skipped=%d total=%d",
		res.RunID, res.Processed, res.Skipped, res.Total)
	return res, nil
}
