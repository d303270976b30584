package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ghnotice/ghnotice/internal/core/task"
)

// GoogleStore reads the task table from a Google spreadsheet and appends
// report rows to it.
type GoogleStore struct {
	svc       *sheets.Service
	id        string
	configTab string
	reportTab string
}

// NewGoogleStore connects to the Sheets API. With an empty apiKey the
// client falls back to application default credentials, which the hosting
// environment provides.
func NewGoogleStore(ctx context.Context, id, apiKey, configTab, reportTab string) (*GoogleStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if apiKey != "" {
		opts = []option.ClientOption{option.WithAPIKey(apiKey)}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleStore{
		svc:       svc,
		id:        id,
		configTab: configTab,
		reportTab: reportTab,
	}, nil
}

// ListTaskRows fetches the config tab from row 2 down, twelve columns wide.
// Unformatted values keep booleans and numbers typed, so the row parser's
// type checks see what the sheet actually holds.
func (g *GoogleStore) ListTaskRows(ctx context.Context) ([][]any, error) {
	rng := fmt.Sprintf("%s!A2:L", g.configTab)
	resp, err := g.svc.Spreadsheets.Values.Get(g.id, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}
	return resp.Values, nil
}

// AppendReport appends rows after the last populated row of the report tab.
func (g *GoogleStore) AppendReport(ctx context.Context, rows []task.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, cell := range r {
			row[j] = cell
		}
		values[i] = row
	}

	rng := fmt.Sprintf("%s!A:H", g.reportTab)
	_, err := g.svc.Spreadsheets.Values.Append(g.id, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append report rows: %w", err)
	}
	return nil
}
