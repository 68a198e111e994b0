package sheets

import (
	"context"
	"fmt"

	"jobtrack-backend/pkg/googleauth"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service wraps the Sheets v4 API as the tracking-document store. Rows are
// addressed by header name so callers never deal in cell coordinates.
type Service struct {
	auth *googleauth.Service
}

func NewService(auth *googleauth.Service) *Service {
	return &Service{auth: auth}
}

func (s *Service) sheetsService(ctx context.Context, token *oauth2.Token, onTokenRefresh googleauth.TokenUpdateFunc) (*sheets.Service, error) {
	client := s.auth.Client(ctx, token, onTokenRefresh)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return srv, nil
}

// CreateSpreadsheet creates a new spreadsheet and returns its document id
// together with the id of the default sheet.
func (s *Service) CreateSpreadsheet(ctx context.Context, token *oauth2.Token, title string, onTokenRefresh googleauth.TokenUpdateFunc) (string, int64, error) {
	srv, err := s.sheetsService(ctx, token, onTokenRefresh)
	if err != nil {
		return "", 0, err
	}

	created, err := srv.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to create spreadsheet: %v", err)
	}

	var sheetID int64
	if len(created.Sheets) > 0 && created.Sheets[0].Properties != nil {
		sheetID = created.Sheets[0].Properties.SheetId
	}

	return created.SpreadsheetId, sheetID, nil
}

// SetHeaderRow writes the column headers into the first row.
func (s *Service) SetHeaderRow(ctx context.Context, token *oauth2.Token, spreadsheetID string, headers []string, onTokenRefresh googleauth.TokenUpdateFunc) error {
	srv, err := s.sheetsService(ctx, token, onTokenRefresh)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	_, err = srv.Spreadsheets.Values.Update(spreadsheetID, "A1", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to set header row: %v", err)
	}

	return nil
}

// Headers returns the first row of the spreadsheet.
func (s *Service) Headers(ctx context.Context, token *oauth2.Token, spreadsheetID string, onTokenRefresh googleauth.TokenUpdateFunc) ([]string, error) {
	srv, err := s.sheetsService(ctx, token, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	return headerRow(ctx, srv, spreadsheetID)
}

func headerRow(ctx context.Context, srv *sheets.Service, spreadsheetID string) ([]string, error) {
	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, "1:1").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read header row: %v", err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}

	return headers, nil
}

// AppendRow appends one row, placing each field under its header column.
// Fields without a matching header are dropped.
func (s *Service) AppendRow(ctx context.Context, token *oauth2.Token, spreadsheetID string, fields map[string]string, onTokenRefresh googleauth.TokenUpdateFunc) error {
	srv, err := s.sheetsService(ctx, token, onTokenRefresh)
	if err != nil {
		return err
	}

	headers, err := headerRow(ctx, srv, spreadsheetID)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = fields[h]
	}

	_, err = srv.Spreadsheets.Values.Append(spreadsheetID, "A1", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to append row: %v", err)
	}

	return nil
}

// ReadRows returns the header list and every data row keyed by header name.
func (s *Service) ReadRows(ctx context.Context, token *oauth2.Token, spreadsheetID string, onTokenRefresh googleauth.TokenUpdateFunc) ([]string, []map[string]string, error) {
	srv, err := s.sheetsService(ctx, token, onTokenRefresh)
	if err != nil {
		return nil, nil, err
	}

	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, "A1:Z").Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read rows: %v", err)
	}

	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}

	rows := make([]map[string]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = fmt.Sprint(raw[i])
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}
