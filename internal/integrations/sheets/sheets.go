// Package sheets provides the tabular config source and the append-only
// report sink, backed either by Google Sheets or by a local workbook.
package sheets

import (
	"context"

	"github.com/ghnotice/ghnotice/internal/core/task"
)

// Source provides the raw task table: one row per task, columns positional.
type Source interface {
	// ListTaskRows returns every data row of the config tab, header excluded.
	ListTaskRows(ctx context.Context) ([][]any, error)
}

// ReportSink records discovered issues outside the notification flow.
type ReportSink interface {
	// AppendReport appends rows after the last populated row of the report
	// tab, columns A through H, preserving input order.
	AppendReport(ctx context.Context, rows []task.ReportRow) error
}

// Store is a config source that can also take report rows.
type Store interface {
	Source
	ReportSink
}
