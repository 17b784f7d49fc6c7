// Package extract turns one email message into a normalized application
// record using a language model call plus deterministic fallback heuristics.
package extract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/types"
)

// Extractor extracts application records from email content.
type Extractor struct {
	client llm.Client
	now    func() time.Time
}

// New creates an Extractor backed by the given model client.
func New(client llm.Client) *Extractor {
	return &Extractor{client: client, now: time.Now}
}

// response is the shape the model is instructed to return. Some models emit
// next_steps instead of nextSteps, so both spellings are accepted.
type response struct {
	Date         string `json:"date"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	NextSteps    string `json:"nextSteps"`
	NextStepsAlt string `json:"next_steps"`
}

// Extract produces a candidate record for one message, or (nil, nil) when the
// message is not usable (neither company nor role could be determined). Model
// and parse failures are returned as errors; callers treat them as a skip for
// that message, never as a batch failure.
//
// Exactly one model call is made per invocation. Normalization is applied to
// every field regardless of model output quality:
//   - date: parsed as a calendar date, today on failure
//   - company: recovered from a body email-address domain when missing
//   - role: recovered from subject-line patterns when missing
//   - status: classified into the closed enumeration
func (e *Extractor) Extract(ctx context.Context, subject, body, emailDate string) (*types.ApplicationRecord, error) {
	raw, err := e.client.GenerateJSON(ctx, buildPrompt(subject, body))
	if err != nil {
		return nil, &APICallError{Message: "extraction call failed", Cause: err}
	}
	if raw == "" {
		return nil, &ParseError{Message: "empty model response"}
	}

	if err := validateResponse(raw); err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &ParseError{Message: "failed to decode model response", Cause: err}
	}

	rec := e.normalize(resp, subject, body, emailDate)

	// Neither field resolved: the message carries nothing worth recording.
	if rec.Company == types.Unknown && rec.Role == types.Unknown {
		return nil, nil
	}
	return rec, nil
}

// normalize applies the deterministic fallback heuristics to a raw response.
func (e *Extractor) normalize(resp response, subject, body, emailDate string) *types.ApplicationRecord {
	company := resp.Company
	if company == "" || company == types.Unknown {
		company = recoverCompany(body)
	}

	role := resp.Role
	if role == "" {
		role = recoverRole(subject)
	}

	nextSteps := resp.NextSteps
	if nextSteps == "" {
		nextSteps = resp.NextStepsAlt
	}

	return &types.ApplicationRecord{
		Date:      normalizeDate(resp.Date, e.now()),
		Company:   company,
		Role:      role,
		Status:    types.NormalizeStatus(resp.Status),
		NextSteps: nextSteps,
		EmailDate: emailDate,
	}
}
