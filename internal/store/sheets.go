package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

const (
	sheetRange  = "Sheet1!A:G"
	headerRange = "Sheet1!A1:G1"
	dataRange   = "Sheet1!A2:G"
)

// SheetsStore persists records to a Google Sheets tab with a fixed header row.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	clientEmail   string
}

// NewSheets creates a Sheets-backed store authenticated as a service account
// and ensures the header row exists before any read or append.
func NewSheets(ctx context.Context, cfg config.SheetsConfig) (*SheetsStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	s := &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		clientEmail:   cfg.ClientEmail,
	}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadAll returns every persisted record, skipping the header row.
func (s *SheetsStore) ReadAll(ctx context.Context) ([]types.ApplicationRecord, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, dataRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.remediate(err, "reading applications")
	}

	records := make([]types.ApplicationRecord, 0, len(resp.Values))
	for _, row := range resp.Values {
		if rec, ok := recordFromRow(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Append adds one record as a new row.
func (s *SheetsStore) Append(ctx context.Context, rec types.ApplicationRecord) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rowFromRecord(rec)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return s.remediate(err, fmt.Sprintf("appending application for %s", rec.Company))
	}
	return nil
}

// Close is a no-op; the Sheets client holds no pooled resources.
func (s *SheetsStore) Close() {}

// ensureHeader writes the fixed header row if the sheet does not already
// start with one.
func (s *SheetsStore) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).
		Context(ctx).
		Do()
	if err != nil {
		return s.remediate(err, "checking header row")
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		if first, ok := resp.Values[0][0].(string); ok && first == Header[0] {
			return nil
		}
	}

	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, headerRange,
		&sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return s.remediate(err, "writing header row")
	}
	return nil
}

// remediate wraps permission and not-found errors from the Sheets API with
// actionable setup instructions; other errors pass through wrapped.
func (s *SheetsStore) remediate(err error, during string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 403:
			return fmt.Errorf("permission denied accessing spreadsheet %s while %s: "+
				"share the sheet with the service account %s as Editor "+
				"(https://docs.google.com/spreadsheets/d/%s): %w",
				s.spreadsheetID, during, s.clientEmail, s.spreadsheetID, err)
		case 400, 404:
			return fmt.Errorf("spreadsheet %s is invalid or inaccessible while %s: "+
				"check GOOGLE_SHEETS_SPREADSHEET_ID (found in the sheet URL) and that "+
				"the sheet is shared with %s: %w",
				s.spreadsheetID, during, s.clientEmail, err)
		}
	}
	return fmt.Errorf("sheets error while %s: %w", during, err)
}

// recordFromRow parses one sheet row. Rows shorter than the six core columns
// are ignored; the Email ID column is optional.
func recordFromRow(row []interface{}) (types.ApplicationRecord, bool) {
	if len(row) < 6 {
		return types.ApplicationRecord{}, false
	}
	rec := types.ApplicationRecord{
		Date:      cellString(row, 0),
		Company:   cellString(row, 1),
		Role:      cellString(row, 2),
		Status:    types.NormalizeStatus(cellString(row, 3)),
		NextSteps: cellString(row, 4),
		EmailDate: cellString(row, 5),
		EmailID:   cellString(row, 6),
	}
	return rec, true
}

// rowFromRecord renders a record as one sheet row in Header order.
func rowFromRecord(rec types.ApplicationRecord) []interface{} {
	return []interface{}{
		rec.Date,
		rec.Company,
		rec.Role,
		string(rec.Status),
		rec.NextSteps,
		rec.EmailDate,
		rec.EmailID,
	}
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}
