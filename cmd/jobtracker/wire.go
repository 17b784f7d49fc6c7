package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/extract"
	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/mailbox"
	"github.com/jonathan/job-tracker/internal/notify"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/store"
)

// Both pipelines build their collaborators fresh on every run and tear them
// down when the run ends. A misconfigured or unreachable collaborator fails
// that run with its descriptive error; the process stays up and the next
// scheduled tick (or HTTP trigger) retries from scratch.

// newRecordStore picks the store backend: Postgres when DATABASE_URL is set,
// the spreadsheet otherwise.
func newRecordStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	if cfg.DatabaseURL != "" {
		log.Println("[wire] using PostgreSQL record store")
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	}
	return store.NewSheets(ctx, cfg.Sheets)
}

// pollRunner runs the email processing pipeline. The mutex serializes runs
// across triggers: each run builds its own processor, so the guard has to
// live here for an HTTP trigger racing a scheduled tick.
type pollRunner struct {
	cfg *config.Config
	mu  sync.Mutex
}

func (r *pollRunner) Process(ctx context.Context) (pipeline.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.cfg.Gemini.Validate(); err != nil {
		return pipeline.Result{}, err
	}

	source, err := mailbox.NewSource(ctx, r.cfg.Gmail, r.cfg.JobKeywords)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to create mailbox source: %w", err)
	}

	client, err := llm.NewGeminiClient(ctx, r.cfg.Gemini.APIKey, r.cfg.Gemini.Model)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	records, err := newRecordStore(ctx, r.cfg)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer records.Close()

	processor := pipeline.NewProcessor(source, extract.New(client), records, r.cfg.JobKeywords, r.cfg.FetchLimit)
	return processor.Process(ctx)
}

// digestRunner runs the daily digest pipeline.
type digestRunner struct {
	cfg *config.Config
}

func (r *digestRunner) Run(ctx context.Context) (pipeline.Digest, error) {
	hook, err := notify.NewWebhook(r.cfg.Discord)
	if err != nil {
		return pipeline.Digest{}, err
	}

	records, err := newRecordStore(ctx, r.cfg)
	if err != nil {
		return pipeline.Digest{}, err
	}
	defer records.Close()

	return pipeline.NewDigester(records, hook).Run(ctx)
}
