// Package sheet reads and writes tabular translation sheets.
//
// A sheet is a sequence of rows of text cells. Row 0 is the header: column 0
// names the key column and every further column names a language tag. Rows
// 1..n hold a key followed by one value per language column.
//
// Supported sources:
//   - xlsx/xlsm workbooks (one worksheet)
//   - CSV files
//   - Google Sheets, addressed as "gsheet:<spreadsheet id>"
package sheet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned by Open for locations it cannot read.
var ErrUnsupportedSource = errors.New("unsupported sheet source")

// GooglePrefix marks a Google Sheets spreadsheet id in a source location.
const GooglePrefix = "gsheet:"

// Source produces the rows of a sheet.
type Source interface {
	Rows() ([][]string, error)
}

// Rows is an in-memory sheet.
type Rows [][]string

// Rows returns a copy of the sheet rows.
func (r Rows) Rows() ([][]string, error) {
	out := make([][]string, len(r))
	for i, row := range r {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// Options configures Open.
type Options struct {
	// Sheet selects a worksheet by name. Empty means the first one.
	Sheet string
	// APIKey and CredentialsFile authenticate Google Sheets requests.
	APIKey          string
	CredentialsFile string
	// Context bounds remote reads. Defaults to context.Background().
	Context context.Context
}

// Open returns the Source for location, chosen by prefix or file extension.
func Open(location string, opts Options) (Source, error) {
	if id, ok := strings.CutPrefix(location, GooglePrefix); ok {
		if id == "" {
			return nil, fmt.Errorf("%w: empty spreadsheet id in %q", ErrUnsupportedSource, location)
		}
		ctx := opts.Context
		if ctx == nil {
			ctx = context.Background()
		}
		return &GoogleSheet{
			Ctx:             ctx,
			SpreadsheetID:   id,
			Sheet:           opts.Sheet,
			APIKey:          opts.APIKey,
			CredentialsFile: opts.CredentialsFile,
		}, nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm":
		return &XLSX{Path: location, Sheet: opts.Sheet}, nil
	case ".csv":
		return &CSV{Path: location}, nil
	}
	return nil, fmt.Errorf("%w: %s (expected .xlsx, .xlsm, .csv or %s<id>)", ErrUnsupportedSource, location, GooglePrefix)
}
