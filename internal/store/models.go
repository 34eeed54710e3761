package store

import (
	"time"

	"github.com/sadopc/habitr/internal/stats"
)

// Entry is one stored day of activity.
type Entry struct {
	Date          time.Time // midnight UTC of the calendar day
	Count         int
	TotalDuration float64 // minutes
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Stat converts e to the statistics engine's input type.
func (e Entry) Stat() stats.Entry {
	return stats.Entry{
		Date:          e.Date,
		Count:         e.Count,
		TotalDuration: e.TotalDuration,
		Note:          e.Note,
	}
}

// StatEntries converts a slice of stored entries.
func StatEntries(entries []Entry) []stats.Entry {
	out := make([]stats.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Stat()
	}
	return out
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter is used to filter entries in queries. From and To are
// inclusive calendar days.
type EntryFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Day truncates t to its calendar day as midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDay renders the calendar day of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return Day(t).Format(dateLayout)
}
