// Package sheets appends invoice rows to a Google Sheet.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"billing/internal/export"
	"billing/internal/logger"
	"billing/pkg/models"
)

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// columns is the A1 column span of an invoice row.
var columns = fmt.Sprintf("A:%c", 'A'+len(export.CSVHeader)-1)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// NewSheetsService creates a new Google Sheets service. Service account
// credentials are read from the file named by GOOGLE_APPLICATION_CREDENTIALS or
// from the JSON in GOOGLE_CREDENTIALS.
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	var (
		creds []byte
		err   error
	)
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return New(ctx, sheetURL, option.WithHTTPClient(config.Client(ctx)))
}

// New creates a service for the spreadsheet at sheetURL using the given client
// options.
func New(ctx context.Context, sheetURL string, opts ...option.ClientOption) (*Service, error) {
	const op = "sheets.New"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// AppendInvoices appends one row per invoice to the named worksheet, creating the
// worksheet and its header row when missing. Invoices whose number is already in
// the first column are skipped. It returns the number of rows appended.
func (s *Service) AppendInvoices(ctx context.Context, invoices []models.Invoice, sheetName string) (int, error) {
	const op = "AppendInvoices"

	s.log.Info().
		Str("sheet", sheetName).
		Int("invoices", len(invoices)).
		Msg("Writing invoices to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return 0, fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	existing, err := s.existingNumbers(ctx, sheetName)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var values [][]interface{}
	for _, inv := range invoices {
		if existing[inv.InvoiceNumber] {
			s.log.Debug().Str("invoice_number", inv.InvoiceNumber).Msg("Invoice already in sheet, skipping")
			continue
		}
		values = append(values, rowToValues(export.Row(inv)))
		existing[inv.InvoiceNumber] = true
	}
	if len(values) == 0 {
		s.log.Info().Msg("No new invoices to write")
		return 0, nil
	}

	_, err = s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!"+columns,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully wrote invoices to Google Sheet")
	return len(values), nil
}

func rowToValues(row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return values
}

func (s *Service) existingNumbers(ctx context.Context, sheetName string) (map[string]bool, error) {
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, sheetName+"!A2:A").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice numbers: %w", err)
	}
	numbers := make(map[string]bool, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) > 0 {
			numbers[fmt.Sprint(row[0])] = true
		}
	}
	return numbers, nil
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				}},
			},
		}
		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:%c1", sheetName, 'A'+len(export.CSVHeader)-1)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

		headers := [][]interface{}{rowToValues(export.CSVHeader)}
		_, err = s.sheetsService.Spreadsheets.Values.Update(
			s.spreadsheetID,
			headerRange,
			&sheets.ValueRange{Values: headers},
		).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to add headers: %w", op, err)
		}

		if err := s.formatHeaders(ctx, sheetID); err != nil {
			s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
		}
	}

	return nil
}

// formatHeaders makes the header row bold and resizes the columns
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	width := int64(len(export.CSVHeader))
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   width,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   width,
				},
			},
		},
	}

	_, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}
