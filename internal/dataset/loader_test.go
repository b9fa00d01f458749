package dataset

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, header []any, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "calls.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestLoadDetectsColumnsAndUnits(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"Call ID", "Assistant", "Caller Number", "Duration (min)", "Cost", "Evaluation", "Transcript"},
		[][]any{
			{"c1", "a1", "+15550001111", "5", "$1.25", "successful", "hello I want to buy"},
			{"c2", "a1", "+15550002222", "2", "0.40", "failed", "wrong number"},
			{"", "", "", "", "", "", ""}, // empty row skipped
		},
	)

	calls, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}

	c := calls[0]
	if c.ID != "c1" || c.AssistantID != "a1" || c.CallerNumber != "+15550001111" {
		t.Errorf("row fields = %+v", c)
	}
	if c.DurationMinutes == nil || *c.DurationMinutes != 5 {
		t.Errorf("minutes column not mapped: %+v", c)
	}
	if c.NormalizedDuration() != 300 {
		t.Errorf("normalized duration = %d, want 300", c.NormalizedDuration())
	}
	if c.Cost != 1.25 {
		t.Errorf("cost = %v, want 1.25 (dollar sign stripped)", c.Cost)
	}
	if string(c.Evaluation) != `"successful"` {
		t.Errorf("evaluation = %s", c.Evaluation)
	}
}

func TestLoadSecondsColumn(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"id", "assistant", "phone", "duration_seconds", "transcript"},
		[][]any{{"c1", "a1", "555", "95", "hi"}},
	)
	calls, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(calls) != 1 || calls[0].NormalizedDuration() != 95 {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestLoadNoDataRows(t *testing.T) {
	path := writeWorkbook(t, []any{"id", "transcript"}, nil)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for header-only sheet")
	}
}
