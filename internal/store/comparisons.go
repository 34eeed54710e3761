package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/habitr/internal/compare"
)

// SaveComparisonState replaces the stored comparison state with st.
func (s *Store) SaveComparisonState(st compare.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM displayed_feats`,
		`DELETE FROM pinned_feats`,
		`DELETE FROM feats`,
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear comparison state: %w", err)
		}
	}

	for _, f := range st.Feats {
		_, err := tx.Exec(
			`INSERT INTO feats (id, name, time_value, unit, description, category) VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.TimeValue, f.Unit, f.Description, string(f.Category),
		)
		if err != nil {
			return fmt.Errorf("insert feat %s: %w", f.ID, err)
		}
	}
	for i, id := range st.PinnedIDs {
		if _, err := tx.Exec(`INSERT INTO pinned_feats (feat_id, position) VALUES (?, ?)`, id, i); err != nil {
			return fmt.Errorf("insert pin %s: %w", id, err)
		}
	}
	for i, id := range st.DisplayIDs {
		if _, err := tx.Exec(`INSERT INTO displayed_feats (feat_id, position) VALUES (?, ?)`, id, i); err != nil {
			return fmt.Errorf("insert displayed %s: %w", id, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO comparison_state (id, generated_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET generated_at = excluded.generated_at`,
		st.LastGenerated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save generated_at: %w", err)
	}
	return tx.Commit()
}

// LoadComparisonState returns the stored comparison state. ok is false when
// no state has been saved yet.
func (s *Store) LoadComparisonState() (st compare.State, ok bool, err error) {
	var generatedAt string
	err = s.db.QueryRow(`SELECT generated_at FROM comparison_state WHERE id = 1`).Scan(&generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return compare.State{}, false, nil
	}
	if err != nil {
		return compare.State{}, false, fmt.Errorf("load generated_at: %w", err)
	}
	st.LastGenerated, _ = time.Parse(time.RFC3339Nano, generatedAt)

	st.Feats, err = s.loadFeats()
	if err != nil {
		return compare.State{}, false, err
	}
	if st.PinnedIDs, err = s.loadPositions("pinned_feats"); err != nil {
		return compare.State{}, false, err
	}
	if st.DisplayIDs, err = s.loadPositions("displayed_feats"); err != nil {
		return compare.State{}, false, err
	}
	return st, true, nil
}

func (s *Store) loadFeats() (map[string]compare.Feat, error) {
	rows, err := s.db.Query(`SELECT id, name, time_value, unit, description, category FROM feats`)
	if err != nil {
		return nil, fmt.Errorf("list feats: %w", err)
	}
	defer rows.Close()

	feats := make(map[string]compare.Feat)
	for rows.Next() {
		var f compare.Feat
		var category string
		if err := rows.Scan(&f.ID, &f.Name, &f.TimeValue, &f.Unit, &f.Description, &category); err != nil {
			return nil, err
		}
		f.Category = compare.Category(category)
		feats[f.ID] = f
	}
	return feats, rows.Err()
}

// loadPositions reads an ordered id list from pinned_feats or displayed_feats.
func (s *Store) loadPositions(table string) ([]string, error) {
	rows, err := s.db.Query(`SELECT feat_id FROM ` + table + ` ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
