// Package types provides type definitions for structured data used throughout the job tracker.
package types

import "strings"

// Status is the lifecycle state of a job application.
type Status string

// Status values form a closed enumeration; anything a model or a stored row
// reports is normalized into one of these three.
const (
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusInProcess Status = "In-Process"
)

// Unknown is the sentinel value for a company or role that could not be
// determined. A record with both fields Unknown is never persisted.
const Unknown = "Unknown"

// ApplicationRecord is the durable unit of state: one row in the record store.
// Dates are calendar dates in YYYY-MM-DD form.
type ApplicationRecord struct {
	Date      string `json:"date"`       // date the application was made
	Company   string `json:"company"`
	Role      string `json:"role"`
	Status    Status `json:"status"`
	NextSteps string `json:"next_steps"` // time-sensitive action items, empty if none
	EmailDate string `json:"email_date"` // date the source message was received
	EmailID   string `json:"email_id,omitempty"`
}

// EmailMessage is a fetched mailbox message.
type EmailMessage struct {
	ID      string
	Subject string
	Body    string
	From    string
	Date    string // YYYY-MM-DD
}

// NormalizeStatus classifies free text into the Status enumeration.
// Acceptance language takes priority over rejection language when both appear.
// The function is total: it never rejects an input.
func NormalizeStatus(s string) Status {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return StatusInProcess
	}

	for _, kw := range []string{"accept", "offer", "congrat"} {
		if strings.Contains(normalized, kw) {
			return StatusAccepted
		}
	}
	for _, kw := range []string{"reject", "decline", "unfortunately"} {
		if strings.Contains(normalized, kw) {
			return StatusRejected
		}
	}
	return StatusInProcess
}
