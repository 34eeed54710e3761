package tracker

import (
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/sadopc/habitr/internal/compare"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
)

var (
	ErrInvalidEntry = errors.New("invalid entry")
	ErrPinLimit     = errors.New("pin limit reached")
	ErrUnknownFeat  = errors.New("unknown feat")
)

// Tracker ties the entry store to the comparison engine. All engine access
// goes through mu and every state change is persisted before returning.
type Tracker struct {
	mu         sync.Mutex
	store      *store.Store
	engine     *compare.Engine
	now        func() time.Time
	regenAfter time.Duration
}

type options struct {
	now        func() time.Time
	regenAfter time.Duration
	engineOpts []compare.Option
}

type Option func(*options)

// WithClock sets the tracker's and the engine's notion of now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRegenerateAfter overrides the regen_hours setting.
func WithRegenerateAfter(d time.Duration) Option {
	return func(o *options) { o.regenAfter = d }
}

// WithEngineOptions passes extra options to the comparison engine.
func WithEngineOptions(opts ...compare.Option) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New restores the comparison state from s. A missing or stale catalog is
// regenerated; otherwise the pins are kept and the display is reshuffled.
func New(s *store.Store, opts ...Option) (*Tracker, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.regenAfter <= 0 {
		o.regenAfter = time.Duration(s.GetIntSetting("regen_hours", 24)) * time.Hour
	}

	t := &Tracker{
		store:      s,
		now:        o.now,
		regenAfter: o.regenAfter,
	}

	st, ok, err := s.LoadComparisonState()
	if err != nil {
		return nil, fmt.Errorf("load comparison state: %w", err)
	}
	st, repaired := repair(st)
	if repaired {
		log.Printf("[tracker] repaired saved comparison state")
	}

	engineOpts := append([]compare.Option{compare.WithClock(o.now)}, o.engineOpts...)
	t.engine = compare.New(st, engineOpts...)

	switch {
	case !ok || len(st.Feats) == 0:
		t.engine.Regenerate()
		log.Printf("[tracker] generated initial catalog")
	case st.Stale(t.now(), t.regenAfter):
		t.engine.Regenerate()
		log.Printf("[tracker] catalog from %s is stale, regenerated", st.LastGenerated.Format(time.RFC3339))
	default:
		t.engine.ReselectDisplay()
	}

	if err := t.persist(); err != nil {
		return nil, err
	}
	return t, nil
}

// repair drops feats with an unknown category or a non-positive time value,
// drops pinned and displayed ids that are unknown or repeated, and trims the
// display to its maximum size.
func repair(st compare.State) (compare.State, bool) {
	feats := make(map[string]compare.Feat, len(st.Feats))
	for id, f := range st.Feats {
		if f.Category.Valid() && f.TimeValue > 0 {
			feats[id] = f
		}
	}
	dropped := len(feats) != len(st.Feats)
	st.Feats = feats

	clean := func(ids []string) []string {
		seen := make(map[string]bool, len(ids))
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if _, ok := st.Feats[id]; !ok || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
		return out
	}

	pinned := clean(st.PinnedIDs)
	display := clean(st.DisplayIDs)
	if len(display) > compare.DisplaySize {
		display = display[:compare.DisplaySize]
	}

	changed := dropped || !slices.Equal(pinned, st.PinnedIDs) || !slices.Equal(display, st.DisplayIDs)
	st.PinnedIDs = pinned
	st.DisplayIDs = display
	return st, changed
}

// persist saves the engine state. Callers hold mu.
func (t *Tracker) persist() error {
	if err := t.store.SaveComparisonState(t.engine.State()); err != nil {
		return fmt.Errorf("save comparison state: %w", err)
	}
	return nil
}

// commit persists a change, putting the engine back to prev when the save
// fails so memory never runs ahead of the database. Callers hold mu.
func (t *Tracker) commit(prev compare.State) error {
	if err := t.persist(); err != nil {
		t.engine.Reset(prev)
		return err
	}
	return nil
}

// ============================================================
// Entries
// ============================================================

func validate(e store.Entry) error {
	switch {
	case e.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	case e.Count < 0:
		return fmt.Errorf("%w: negative count %d", ErrInvalidEntry, e.Count)
	case e.TotalDuration < 0 || math.IsNaN(e.TotalDuration) || math.IsInf(e.TotalDuration, 0):
		return fmt.Errorf("%w: bad duration %v", ErrInvalidEntry, e.TotalDuration)
	}
	return nil
}

// LogEntry stores e as the entry for its day.
func (t *Tracker) LogEntry(e store.Entry) (*store.Entry, error) {
	if err := validate(e); err != nil {
		return nil, err
	}
	return t.store.UpsertEntry(e)
}

// Entry returns the entry for date's day, wrapping sql.ErrNoRows when there
// is none.
func (t *Tracker) Entry(date time.Time) (*store.Entry, error) {
	return t.store.GetEntry(date)
}

func (t *Tracker) DeleteEntry(date time.Time) error {
	return t.store.DeleteEntry(date)
}

// AddToday adjusts today's count by delta.
func (t *Tracker) AddToday(delta int) (*store.Entry, error) {
	return t.store.IncrementCount(t.now(), delta)
}

// RecordSession adds a timed session of length d to today's entry.
func (t *Tracker) RecordSession(d time.Duration) (*store.Entry, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: empty session", ErrInvalidEntry)
	}
	return t.store.AddSession(t.now(), d.Minutes())
}

func (t *Tracker) Entries(f store.EntryFilter) ([]store.Entry, error) {
	return t.store.ListEntries(f)
}

// Stats computes statistics over every stored entry.
func (t *Tracker) Stats() (stats.Result, error) {
	entries, err := t.store.ListEntries(store.EntryFilter{})
	if err != nil {
		return stats.Result{}, err
	}
	return stats.Compute(store.StatEntries(entries), t.now()), nil
}

// TotalMinutes is the summed duration of every entry.
func (t *Tracker) TotalMinutes() (float64, error) {
	return t.store.GetTotalDuration()
}

// Series returns per-day totals for the chart range ending today.
func (t *Tracker) Series(r stats.Range) ([]stats.Point, error) {
	now := t.now()
	from := now.AddDate(0, 0, -(r.Days() - 1))
	entries, err := t.store.ListEntries(store.EntryFilter{From: &from, To: &now})
	if err != nil {
		return nil, err
	}
	return stats.Series(store.StatEntries(entries), now, r), nil
}

// ============================================================
// Comparisons
// ============================================================

// Pin pins id, refusing once the max_pins setting is reached. Pinning an
// already pinned feat is a no-op.
func (t *Tracker) Pin(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.engine.Feat(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFeat, id)
	}
	if t.engine.IsPinned(id) {
		return nil
	}
	if limit := t.store.GetIntSetting("max_pins", compare.MaxPins); t.engine.PinCount() >= limit {
		return fmt.Errorf("%w (%d)", ErrPinLimit, limit)
	}
	prev := t.engine.State()
	t.engine.Pin(id)
	return t.commit(prev)
}

func (t *Tracker) Unpin(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.engine.State()
	if !t.engine.Unpin(id) {
		return nil
	}
	return t.commit(prev)
}

// Reorder moves a pinned feat to pos within the pinned list.
func (t *Tracker) Reorder(id string, pos int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.engine.State()
	if !t.engine.Reorder(id, pos) {
		return nil
	}
	return t.commit(prev)
}

// Shuffle picks a new display from the current catalog.
func (t *Tracker) Shuffle() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.engine.State()
	t.engine.ReselectDisplay()
	return t.commit(prev)
}

// Regenerate replaces every unpinned feat with a fresh catalog.
func (t *Tracker) Regenerate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.engine.State()
	t.engine.Regenerate()
	return t.commit(prev)
}

func (t *Tracker) Comparisons(totalMinutes float64) []compare.Comparison {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Comparisons(totalMinutes)
}

func (t *Tracker) State() compare.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.State()
}

func (t *Tracker) Catalog() []compare.Feat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Catalog()
}

func (t *Tracker) Search(query string) []compare.Feat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Search(query)
}

func (t *Tracker) IsPinned(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.IsPinned(id)
}
