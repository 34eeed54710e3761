package store

import (
	"fmt"
	"time"
)

const entryColumns = `date, count, total_duration, note, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var date, createdAt, updatedAt string
	if err := row.Scan(&date, &e.Count, &e.TotalDuration, &e.Note, &createdAt, &updatedAt); err != nil {
		return Entry{}, err
	}
	e.Date, _ = ParseDay(date)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

// UpsertEntry stores e as the entry for its calendar day, replacing any
// existing entry for that day.
func (s *Store) UpsertEntry(e Entry) (*Entry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	day := FormatDay(e.Date)
	_, err := s.db.Exec(
		`INSERT INTO entries (date, count, total_duration, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			count = excluded.count,
			total_duration = excluded.total_duration,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		day, e.Count, e.TotalDuration, e.Note, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert entry %s: %w", day, err)
	}
	return s.GetEntry(e.Date)
}

func (s *Store) GetEntry(date time.Time) (*Entry, error) {
	day := FormatDay(date)
	e, err := scanEntry(s.db.QueryRow(
		`SELECT `+entryColumns+` FROM entries WHERE date = ?`, day,
	))
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", day, err)
	}
	return &e, nil
}

func (s *Store) DeleteEntry(date time.Time) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE date = ?`, FormatDay(date))
	return err
}

// IncrementCount adds delta to the count of the entry for date, creating the
// entry if needed. The count never drops below zero.
func (s *Store) IncrementCount(date time.Time, delta int) (*Entry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	day := FormatDay(date)
	_, err := s.db.Exec(
		`INSERT INTO entries (date, count, created_at, updated_at)
		 VALUES (?, MAX(?, 0), ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			count = MAX(count + ?, 0),
			updated_at = excluded.updated_at`,
		day, delta, now, now, delta,
	)
	if err != nil {
		return nil, fmt.Errorf("increment entry %s: %w", day, err)
	}
	return s.GetEntry(date)
}

// AddSession records one more session of the given length on date.
func (s *Store) AddSession(date time.Time, minutes float64) (*Entry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	day := FormatDay(date)
	_, err := s.db.Exec(
		`INSERT INTO entries (date, count, total_duration, created_at, updated_at)
		 VALUES (?, 1, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			count = count + 1,
			total_duration = total_duration + excluded.total_duration,
			updated_at = excluded.updated_at`,
		day, minutes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("add session %s: %w", day, err)
	}
	return s.GetEntry(date)
}

// ListEntries returns entries newest first.
func (s *Store) ListEntries(f EntryFilter) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, FormatDay(*f.From))
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, FormatDay(*f.To))
	}
	query += ` ORDER BY date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetTotalDuration returns the summed duration of all entries in minutes.
func (s *Store) GetTotalDuration() (float64, error) {
	var total float64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(total_duration), 0) FROM entries`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total duration: %w", err)
	}
	return total, nil
}
