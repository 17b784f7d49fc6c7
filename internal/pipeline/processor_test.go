package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

// memStore is an in-memory RecordStore.
type memStore struct {
	records   []types.ApplicationRecord
	readErr   error
	appendErr map[string]error // keyed by EmailID
}

func (m *memStore) ReadAll(_ context.Context) ([]types.ApplicationRecord, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]types.ApplicationRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) Append(_ context.Context, rec types.ApplicationRecord) error {
	if err := m.appendErr[rec.EmailID]; err != nil {
		return err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) Close() {}

// fakeSource returns a fixed batch.
type fakeSource struct {
	messages []types.EmailMessage
	err      error
}

func (f *fakeSource) Search(_ context.Context, _ int) ([]types.EmailMessage, error) {
	return f.messages, f.err
}

// fakeExtractor returns canned candidates keyed by subject and counts calls.
type fakeExtractor struct {
	results map[string]*types.ApplicationRecord
	errs    map[string]error
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, subject, _, emailDate string) (*types.ApplicationRecord, error) {
	f.calls++
	if err := f.errs[subject]; err != nil {
		return nil, err
	}
	rec := f.results[subject]
	if rec == nil {
		return nil, nil
	}
	out := *rec
	out.EmailDate = emailDate
	return &out, nil
}

// jobMsg builds a message that passes the keyword gate.
func jobMsg(id, subject string) types.EmailMessage {
	return types.EmailMessage{
		ID:      id,
		Subject: subject,
		Body:    "Thanks for your application. Your interview is scheduled.",
		Date:    "2024-03-01",
	}
}

func newProcessor(src *fakeSource, ext *fakeExtractor, st *memStore) *Processor {
	return NewProcessor(src, ext, st, config.DefaultJobKeywords, 20)
}

func TestProcess_PersistsExtractedRecords(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{jobMsg("m1", "offer")}}
	ext := &fakeExtractor{results: map[string]*types.ApplicationRecord{
		"offer": {Company: "Acme", Role: "Engineer", Status: types.StatusAccepted},
	}}
	st := &memStore{}

	res, err := newProcessor(src, ext, st).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 1, res.Total)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, st.records, 1)
	assert.Equal(t, "m1", st.records[0].EmailID)
	assert.Equal(t, "2024-03-01", st.records[0].EmailDate)
}

// Messages below the keyword threshold never reach the extractor.
func TestProcess_KeywordGateBlocksExtraction(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{
		{ID: "m1", Subject: "newsletter", Body: "nothing relevant here"},
		{ID: "m2", Subject: "one keyword only", Body: "your interview"},
	}}
	ext := &fakeExtractor{}
	st := &memStore{}

	res, err := newProcessor(src, ext, st).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, ext.calls, "extractor must not run for gated-out messages")
	assert.Equal(t, Result{RunID: res.RunID}, res)
	assert.Empty(t, st.records)
}

// Running the same batch twice yields the same persisted set as running it once.
func TestProcess_Idempotent(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{jobMsg("m1", "offer")}}
	ext := &fakeExtractor{results: map[string]*types.ApplicationRecord{
		"offer": {Company: "Acme", Role: "Engineer", Status: types.StatusAccepted},
	}}
	st := &memStore{}
	p := newProcessor(src, ext, st)

	first, err := p.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := p.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, second.Total)

	assert.Len(t, st.records, 1, "duplicate message must not be appended twice")
	assert.Equal(t, 1, ext.calls, "already-persisted messages skip extraction")
}

// A message whose record has both fields Unknown is reported under skipped.
func TestProcess_UnusableCandidateSkipped(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{jobMsg("m1", "vague")}}
	ext := &fakeExtractor{} // returns nil, nil for unknown subjects
	st := &memStore{}

	res, err := newProcessor(src, ext, st).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, st.records)
}

// One failing message never aborts the rest of the batch.
func TestProcess_PartialFailureContinues(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{
		jobMsg("m1", "broken"),
		jobMsg("m2", "offer"),
		jobMsg("m3", "stubborn"),
	}}
	ext := &fakeExtractor{
		results: map[string]*types.ApplicationRecord{
			"offer":    {Company: "Acme", Role: "Engineer", Status: types.StatusAccepted},
			"stubborn": {Company: "Initech", Role: "Analyst", Status: types.StatusInProcess},
		},
		errs: map[string]error{"broken": errors.New("model call failed")},
	}
	st := &memStore{appendErr: map[string]error{"m3": errors.New("write failed")}}

	res, err := newProcessor(src, ext, st).Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 3, res.Total)
	require.Len(t, st.records, 1)
	assert.Equal(t, "m2", st.records[0].EmailID)
}

func TestProcess_FetchFailureFailsRun(t *testing.T) {
	src := &fakeSource{err: errors.New("gmail unavailable")}
	_, err := newProcessor(src, &fakeExtractor{}, &memStore{}).Process(context.Background())
	assert.Error(t, err)
}

func TestProcess_StoreReadFailureFailsRun(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{jobMsg("m1", "offer")}}
	st := &memStore{readErr: errors.New("permission denied")}
	_, err := newProcessor(src, &fakeExtractor{}, st).Process(context.Background())
	assert.Error(t, err)
}

// Pre-seeded store records dedup against their EmailID even across restarts.
func TestProcess_DedupFromDurableStore(t *testing.T) {
	src := &fakeSource{messages: []types.EmailMessage{jobMsg("m1", "offer")}}
	ext := &fakeExtractor{results: map[string]*types.ApplicationRecord{
		"offer": {Company: "Acme", Role: "Engineer", Status: types.StatusAccepted},
	}}
	st := &memStore{records: []types.ApplicationRecord{
		{Company: "Acme", Role: "Engineer", EmailID: "m1"},
	}}

	res, err := newProcessor(src, ext, st).Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, ext.calls)
}
