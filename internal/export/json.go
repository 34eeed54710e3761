package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Summary    stats.Result `json:"summary"`
	Entries    []jsonEntry  `json:"entries"`
}

type jsonEntry struct {
	Date            string  `json:"date"`
	Count           int     `json:"count"`
	DurationMinutes float64 `json:"duration_minutes"`
	Duration        string  `json:"duration"`
	Note            string  `json:"note,omitempty"`
}

func ToJSON(entries []store.Entry, summary stats.Result, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Summary:    summary,
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			Date:            store.FormatDay(e.Date),
			Count:           e.Count,
			DurationMinutes: e.TotalDuration,
			Duration:        formatDuration(e.TotalDuration),
			Note:            e.Note,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
