package sheet

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet reads one sheet of a Google Sheets spreadsheet through the
// Sheets API v4.
type GoogleSheet struct {
	Ctx           context.Context
	SpreadsheetID string
	// Sheet is the sheet title; empty selects the first sheet.
	Sheet string
	// Exactly one of APIKey (public spreadsheets) or CredentialsFile
	// (service account JSON) should be set.
	APIKey          string
	CredentialsFile string
}

func (g *GoogleSheet) clientOptions() ([]option.ClientOption, error) {
	switch {
	case g.CredentialsFile != "":
		return []option.ClientOption{
			option.WithCredentialsFile(g.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		}, nil
	case g.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(g.APIKey)}, nil
	}
	return nil, errors.New("google sheets: no API key or credentials file configured")
}

// Rows fetches every populated cell of the sheet.
func (g *GoogleSheet) Rows() ([][]string, error) {
	ctx := g.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := g.clientOptions()
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google sheets client: %w", err)
	}

	title := g.Sheet
	if title == "" {
		info, err := srv.Spreadsheets.Get(g.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("reading spreadsheet %s: %w", g.SpreadsheetID, err)
		}
		if len(info.Sheets) == 0 || info.Sheets[0].Properties == nil {
			return nil, fmt.Errorf("spreadsheet %s has no sheets", g.SpreadsheetID)
		}
		title = info.Sheets[0].Properties.Title
	}

	resp, err := srv.Spreadsheets.Values.Get(g.SpreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", g.SpreadsheetID, title, err)
	}
	return stringifyValues(resp.Values), nil
}

// stringifyValues converts API cell values to text. The API omits trailing
// empty cells of a row.
func stringifyValues(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows
}
