package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// maxDigestLength is the hard cap on the rendered digest, matching the
// notification channel's message limit.
const maxDigestLength = 2000

// truncationBuffer leaves room for the omitted-entries suffix when the list
// is cut to fit.
const truncationBuffer = 50

// actionableVocab flags next-steps text that requires attention. Matching is
// case-insensitive substring, independent of recency.
var actionableVocab = []string{
	"next steps",
	"interview",
	"invitation",
	"scheduled",
	"deadline",
	"follow up",
	"follow-up",
	"action required",
	"response needed",
	"meeting",
	"call",
	"assessment",
	"test",
	"assignment",
}

// Digest aggregates today's volume and all outstanding actionable records.
type Digest struct {
	TotalToday int
	Actionable []types.ApplicationRecord
}

// Notifier delivers digest text to an external channel.
type Notifier interface {
	Send(ctx context.Context, content string) error
}

// Digester builds and delivers the daily digest.
type Digester struct {
	records  store.RecordStore
	notifier Notifier
	now      func() time.Time
}

// NewDigester assembles a Digester from its collaborators.
func NewDigester(records store.RecordStore, notifier Notifier) *Digester {
	return &Digester{records: records, notifier: notifier, now: time.Now}
}

// Run reads the full history, builds the digest, and delivers it. A delivery
// failure fails this run but nothing else; the next day's digest is
// unaffected.
func (d *Digester) Run(ctx context.Context) (Digest, error) {
	records, err := d.records.ReadAll(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to read records: %w", err)
	}

	digest := BuildDigest(records, d.now().Format("2006-01-02"))
	log.Printf("[digest] total today: %d, actionable: %d", digest.TotalToday, len(digest.Actionable))

	if err := d.notifier.Send(ctx, RenderDigest(digest)); err != nil {
		return digest, fmt.Errorf("failed to deliver digest: %w", err)
	}
	return digest, nil
}

// BuildDigest aggregates the record set for a given calendar day. TotalToday
// counts records received today; Actionable collects records from the entire
// history whose next steps match the actionable vocabulary.
func BuildDigest(records []types.ApplicationRecord, today string) Digest {
	d := Digest{}
	for _, rec := range records {
		if rec.EmailDate == today {
			d.TotalToday++
		}
		if hasActionableNextSteps(rec.NextSteps) {
			d.Actionable = append(d.Actionable, rec)
		}
	}
	return d
}

// hasActionableNextSteps reports whether next-steps text is non-empty and
// mentions at least one actionable keyword.
func hasActionableNextSteps(nextSteps string) bool {
	if strings.TrimSpace(nextSteps) == "" {
		return false
	}
	lower := strings.ToLower(nextSteps)
	for _, kw := range actionableVocab {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RenderDigest renders the digest as channel-ready text, never exceeding
// maxDigestLength. When the naive rendering would overflow, the list is
// truncated and a count of omitted entries appended.
func RenderDigest(d Digest) string {
	header := fmt.Sprintf("**Total Applications today:** %d\n\n", d.TotalToday)

	if len(d.Actionable) == 0 {
		return header + "**Applications with next steps:** None"
	}

	var list strings.Builder
	list.WriteString("**Applications with next steps:**\n")
	full := header + list.String()
	for _, rec := range d.Actionable {
		full += fmt.Sprintf("%s / %s\n", rec.Company, rec.Role)
	}
	if len(full) <= maxDigestLength {
		return strings.TrimRight(full, "\n")
	}

	// Too long: rebuild the list up to the cap and report what was cut.
	budget := maxDigestLength - len(header) - list.Len() - truncationBuffer
	var lines strings.Builder
	included := 0
	for _, rec := range d.Actionable {
		line := fmt.Sprintf("%s / %s\n", rec.Company, rec.Role)
		if lines.Len()+len(line) > budget {
			break
		}
		lines.WriteString(line)
		included++
	}
	lines.WriteString(fmt.Sprintf("... and %d more", len(d.Actionable)-included))

	return header + list.String() + lines.String()
}
