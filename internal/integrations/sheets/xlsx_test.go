package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ghnotice/ghnotice/internal/core/task"
)

func writeWorkbook(t *testing.T, configRows [][]any, reportRows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "config")
	if _, err := f.NewSheet("report"); err != nil {
		t.Fatal(err)
	}

	header := []any{"enabled", "channels", "times", "mentions", "repos", "labels",
		"stats", "idle", "relations", "onlyPulls", "labelProtection", "showOrg"}
	if err := f.SetSheetRow("config", "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range configRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("config", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range reportRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("report", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewXLSXStoreMissingSheet(t *testing.T) {
	path := writeWorkbook(t, nil, nil)
	if _, err := NewXLSXStore(path, "config", "nosuchtab"); err == nil {
		t.Error("expected error for missing report tab")
	}
}

func TestListTaskRowsRetyping(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"TRUE", "#general", "0900", "@dev", "acme/widgets", "bug", "FALSE", "30", "TRUE", "FALSE", "FALSE", "FALSE"},
	}, nil)

	store, err := NewXLSXStore(path, "config", "report")
	if err != nil {
		t.Fatal(err)
	}

	rows, err := store.ListTaskRows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if v, ok := row[0].(bool); !ok || !v {
		t.Errorf("enabled cell = %#v, want true", row[0])
	}
	if v, ok := row[2].(string); !ok || v != "0900" {
		t.Errorf("times cell = %#v, want string \"0900\"", row[2])
	}
	if v, ok := row[7].(float64); !ok || v != 30 {
		t.Errorf("idle cell = %#v, want 30.0", row[7])
	}
	if v, ok := row[8].(bool); !ok || !v {
		t.Errorf("relations cell = %#v, want true", row[8])
	}
}

func TestListTaskRowsKeepsNonBoolEnabled(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"yes", "#general", "0900", "", "acme/widgets", "bug"},
	}, nil)

	store, err := NewXLSXStore(path, "config", "report")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := store.ListTaskRows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rows[0][0].(string); !ok {
		t.Errorf("enabled cell = %#v, want string passthrough", rows[0][0])
	}
}

func TestAppendReport(t *testing.T) {
	path := writeWorkbook(t, nil, [][]any{
		{"date", "service", "url", "category", "team", "time", "product", "assignee"},
		{"2026/08/30", "", "https://example.com/1", "", "", "", "", ""},
	})

	store, err := NewXLSXStore(path, "config", "report")
	if err != nil {
		t.Fatal(err)
	}

	rows := []task.ReportRow{
		{"2026/08/31", "", "https://example.com/2", "", "", "", "", "alice"},
		{"2026/09/01", "", "https://example.com/3", "", "", "", "", ""},
	}
	if err := store.AppendReport(context.Background(), rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetRows("report")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("report rows = %d, want 4", len(got))
	}
	if got[2][0] != "2026/08/31" || got[2][7] != "alice" {
		t.Errorf("first appended row = %v", got[2])
	}
	if got[3][2] != "https://example.com/3" {
		t.Errorf("second appended row = %v", got[3])
	}
}

func TestAppendReportNoRows(t *testing.T) {
	path := writeWorkbook(t, nil, nil)
	store, err := NewXLSXStore(path, "config", "report")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AppendReport(context.Background(), nil); err != nil {
		t.Errorf("empty append should be a no-op, got %v", err)
	}
}
