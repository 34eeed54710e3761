package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/sadopc/habitr/internal/store"
)

func ToCSV(entries []store.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Count", "Duration (min)", "Duration", "Note"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			store.FormatDay(e.Date),
			strconv.Itoa(e.Count),
			strconv.FormatFloat(e.TotalDuration, 'f', -1, 64),
			formatDuration(e.TotalDuration),
			e.Note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatDuration renders minutes as HH:MM:SS.
func formatDuration(minutes float64) string {
	secs := int64(math.Round(minutes * 60))
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
