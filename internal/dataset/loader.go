// Package dataset backfills call history from spreadsheet exports. Source
// tables disagree on column names and duration units, so columns are
// detected by header heuristics and durations normalized on the way in.
package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"voice-leads-go/internal/logger"
	"voice-leads-go/internal/types"
)

type columnMap struct {
	id, assistant, caller, started int
	duration, cost, eval, text     int
	durationMinutes                bool
}

// Load reads the first sheet of an exported call log into raw call
// envelopes. Rows with no usable data are skipped quietly.
func Load(path string) ([]types.RawCall, error) {
	log := logger.Component("dataset").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := detectColumns(rows[0])
	log.WithField("columns", fmt.Sprintf("%+v", cols)).Info("detected call-log columns")

	var out []types.RawCall
	for i, r := range rows {
		if i == 0 {
			continue
		}
		rc, ok := rowToCall(r, cols)
		if !ok {
			continue
		}
		out = append(out, rc)
	}
	log.WithField("calls", len(out)).Info("call log loaded")
	return out, nil
}

func detectColumns(header []string) columnMap {
	cols := columnMap{id: -1, assistant: -1, caller: -1, started: -1, duration: -1, cost: -1, eval: -1, text: -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.text == -1 && (strings.Contains(l, "transcript") || strings.Contains(l, "text")):
			cols.text = i
		case cols.eval == -1 && (strings.Contains(l, "eval") || strings.Contains(l, "success") || strings.Contains(l, "outcome") || strings.Contains(l, "result")):
			cols.eval = i
		case cols.duration == -1 && strings.Contains(l, "duration"):
			cols.duration = i
			cols.durationMinutes = strings.Contains(l, "min")
		case cols.cost == -1 && (strings.Contains(l, "cost") || strings.Contains(l, "price")):
			cols.cost = i
		case cols.caller == -1 && (strings.Contains(l, "caller") || strings.Contains(l, "phone") || strings.Contains(l, "number")):
			cols.caller = i
		case cols.assistant == -1 && strings.Contains(l, "assistant"):
			cols.assistant = i
		case cols.started == -1 && (strings.Contains(l, "start") || strings.Contains(l, "date") || strings.Contains(l, "time")):
			cols.started = i
		case cols.id == -1 && strings.Contains(l, "id"):
			cols.id = i
		}
	}
	return cols
}

func rowToCall(r []string, cols columnMap) (types.RawCall, bool) {
	cell := func(idx int) string {
		if idx >= 0 && idx < len(r) {
			return strings.TrimSpace(r[idx])
		}
		return ""
	}

	rc := types.RawCall{
		ID:           cell(cols.id),
		AssistantID:  cell(cols.assistant),
		CallerNumber: cell(cols.caller),
		Transcript:   cell(cols.text),
	}

	if v := cell(cols.duration); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			if cols.durationMinutes {
				rc.DurationMinutes = &d
			} else {
				rc.DurationSeconds = &d
			}
		}
	}
	if v := cell(cols.cost); v != "" {
		if c, err := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64); err == nil {
			rc.Cost = c
		}
	}
	if v := cell(cols.eval); v != "" {
		raw, _ := json.Marshal(v)
		rc.Evaluation = raw
	}
	if v := cell(cols.started); v != "" {
		rc.StartedAt = parseTimestamp(v)
	}

	// skip rows that carry nothing usable
	if rc.ID == "" && rc.CallerNumber == "" && rc.Transcript == "" {
		return types.RawCall{}, false
	}
	return rc, true
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01-02-06 15:04",
}

func parseTimestamp(v string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
