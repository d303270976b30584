package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ghnotice/ghnotice/internal/core/task"
)

// XLSXStore mirrors the spreadsheet contract against a local .xlsx file,
// for offline runs and tests.
type XLSXStore struct {
	path      string
	configTab string
	reportTab string
}

// NewXLSXStore opens an existing workbook at path.
func NewXLSXStore(path, configTab, reportTab string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, tab := range []string{configTab, reportTab} {
		if idx, err := f.GetSheetIndex(tab); err != nil || idx < 0 {
			return nil, fmt.Errorf("workbook has no %q sheet", tab)
		}
	}

	return &XLSXStore{path: path, configTab: configTab, reportTab: reportTab}, nil
}

// ListTaskRows reads the config tab from row 2 down. Workbook cells arrive
// as strings; boolean and numeric literals are re-typed so the row parser
// sees the same shapes the Sheets API delivers.
func (x *XLSXStore) ListTaskRows(ctx context.Context) ([][]any, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(x.configTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = retype(i, cell)
		}
		out = append(out, cells)
	}
	return out, nil
}

// AppendReport writes rows after the last populated row of the report tab,
// columns A through H.
func (x *XLSXStore) AppendReport(ctx context.Context, rows []task.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	existing, err := f.GetRows(x.reportTab)
	if err != nil {
		return fmt.Errorf("failed to read report tab: %w", err)
	}

	next := len(existing) + 1
	for i, r := range rows {
		for j, cell := range r {
			name, err := excelize.CoordinatesToCellName(j+1, next+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(x.reportTab, name, cell); err != nil {
				return fmt.Errorf("failed to write report cell %s: %w", name, err)
			}
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// boolColumns and numericColumns are the typed columns of the task table:
// enabled, stats and the four behavior flags are boolean, the idle period
// is numeric. Text columns are never re-typed so a time like "0900" stays
// a string.
var (
	boolColumns    = map[int]bool{0: true, 6: true, 8: true, 9: true, 10: true, 11: true}
	numericColumns = map[int]bool{7: true}
)

// retype converts a workbook cell string back into the type the Sheets API
// would deliver for that column, so the row parser's type checks behave
// identically for both stores.
func retype(col int, cell string) any {
	trimmed := strings.TrimSpace(cell)
	if boolColumns[col] {
		switch strings.ToUpper(trimmed) {
		case "TRUE":
			return true
		case "FALSE":
			return false
		}
		return cell
	}
	if numericColumns[col] {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
	}
	return cell
}
