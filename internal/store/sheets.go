package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/wakefit-labs/ytrank/internal/engine"
)

// SheetsStore persists into a Google Sheet, one tab per table.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	tabs          map[string]bool // known tab titles, nil until first load
}

// NewSheetsStore authenticates with a service-account JSON key file and
// binds to one spreadsheet.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// GetAllRows returns every row of a tab including the header.
func (s *SheetsStore) GetAllRows(ctx context.Context, tab string) ([][]string, error) {
	ok, err := s.tabExists(ctx, tab)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.ValueRange, error) {
		r, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tab).Context(ctx).Do()
		return r, retryable(err)
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EnsureTab creates the tab when absent.
func (s *SheetsStore) EnsureTab(ctx context.Context, tab string) error {
	ok, err := s.tabExists(ctx, tab)
	if err != nil || ok {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: tab},
			},
		}},
	}
	_, err = engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.BatchUpdateSpreadsheetResponse, error) {
		r, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return r, retryable(err)
	})
	if err != nil {
		return fmt.Errorf("add tab %s: %w", tab, err)
	}
	s.tabs[tab] = true
	return nil
}

// Clear removes all rows from a tab.
func (s *SheetsStore) Clear(ctx context.Context, tab string) error {
	_, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.ClearValuesResponse, error) {
		r, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, tab, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return r, retryable(err)
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}
	return nil
}

// WriteHeader sets row 1 of a tab.
func (s *SheetsStore) WriteHeader(ctx context.Context, tab string, header []string) error {
	vr := &sheets.ValueRange{Values: [][]any{toAny(header)}}
	_, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.UpdateValuesResponse, error) {
		r, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, tab+"!A1", vr).
			ValueInputOption("RAW").Context(ctx).Do()
		return r, retryable(err)
	})
	if err != nil {
		return fmt.Errorf("write header %s: %w", tab, err)
	}
	engine.IncrStoreWrites()
	return nil
}

// AppendRows appends after the last non-empty row of a tab.
func (s *SheetsStore) AppendRows(ctx context.Context, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = toAny(row)
	}
	vr := &sheets.ValueRange{Values: values}
	_, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.AppendValuesResponse, error) {
		r, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, tab, vr).
			ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		return r, retryable(err)
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", tab, err)
	}
	engine.IncrStoreWrites()
	return nil
}

func (s *SheetsStore) tabExists(ctx context.Context, tab string) (bool, error) {
	if s.tabs == nil {
		meta, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*sheets.Spreadsheet, error) {
			r, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
			return r, retryable(err)
		})
		if err != nil {
			return false, fmt.Errorf("list tabs: %w", err)
		}
		s.tabs = make(map[string]bool, len(meta.Sheets))
		for _, sh := range meta.Sheets {
			s.tabs[sh.Properties.Title] = true
		}
	}
	return s.tabs[tab], nil
}

// retryable rewraps transient Sheets API failures so RetryDo retries them.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && engine.RetryableStatus(gerr.Code) {
		return fmt.Errorf("%w: %s", &engine.StatusError{StatusCode: gerr.Code}, gerr.Message)
	}
	return err
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
