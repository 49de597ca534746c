package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX reads one worksheet of an Excel workbook.
type XLSX struct {
	Path string
	// Sheet is the worksheet name; empty selects the first worksheet.
	Sheet string
}

// Rows opens the workbook, reads the worksheet and closes the workbook.
// Trailing empty cells of a row are not returned.
func (x *XLSX) Rows() (rows [][]string, err error) {
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", x.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", x.Path, cerr)
		}
	}()

	name := x.Sheet
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%s: workbook has no worksheets", x.Path)
		}
		name = list[0]
	}

	rows, err = f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", x.Path, name, err)
	}
	return rows, nil
}

// WriteXLSX writes rows to a new single-sheet workbook at path.
func WriteXLSX(path, sheetName string, rows [][]string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	// NewFile always creates "Sheet1".
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("naming sheet %q: %w", sheetName, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
