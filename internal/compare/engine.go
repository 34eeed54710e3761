package compare

import (
	"cmp"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	// DisplaySize is the maximum number of feats shown at once.
	DisplaySize = 3
	// MaxPins is the pin cap hosts enforce before calling Pin.
	MaxPins = 5
	// RegenerateAfter is how old a catalog may get before hosts regenerate it on restore.
	RegenerateAfter = 24 * time.Hour

	minCatalog     = 10
	maxCatalog     = 20
	maxPerCategory = 2
)

// State is everything a host needs to persist between runs.
type State struct {
	Feats         map[string]Feat `json:"feats"`
	PinnedIDs     []string        `json:"pinned_feat_ids"`
	DisplayIDs    []string        `json:"display_feats"`
	LastGenerated time.Time       `json:"last_generated"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	feats := maps.Clone(s.Feats)
	if feats == nil {
		feats = make(map[string]Feat)
	}
	return State{
		Feats:         feats,
		PinnedIDs:     slices.Clone(s.PinnedIDs),
		DisplayIDs:    slices.Clone(s.DisplayIDs),
		LastGenerated: s.LastGenerated,
	}
}

// Stale reports whether the catalog was generated more than after ago.
// A catalog that was never generated is always stale.
func (s State) Stale(now time.Time, after time.Duration) bool {
	if s.LastGenerated.IsZero() {
		return true
	}
	return now.Sub(s.LastGenerated) > after
}

// Engine holds the feat catalog, the user's pins and the displayed subset.
// It is not safe for concurrent use; hosts serialize calls.
type Engine struct {
	state State
	now   func() time.Time
	rng   *rand.Rand
	newID func(Category) string
}

type Option func(*Engine)

// WithClock sets the source of the regeneration timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithIDFunc sets the generator for fresh feat ids.
func WithIDFunc(fn func(Category) string) Option {
	return func(e *Engine) { e.newID = fn }
}

func defaultID(c Category) string {
	return string(c) + "-" + uuid.NewString()
}

// New returns an engine over a copy of state.
func New(state State, opts ...Option) *Engine {
	e := &Engine{
		state: state.Clone(),
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID: defaultID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset replaces the engine state with a copy of state. The clock, random
// source and id generator are kept.
func (e *Engine) Reset(state State) {
	e.state = state.Clone()
}

// State returns a copy of the current state for persistence.
func (e *Engine) State() State {
	return e.state.Clone()
}

func (e *Engine) IsPinned(id string) bool {
	return slices.Contains(e.state.PinnedIDs, id)
}

func (e *Engine) IsDisplayed(id string) bool {
	return slices.Contains(e.state.DisplayIDs, id)
}

func (e *Engine) PinCount() int {
	return len(e.state.PinnedIDs)
}

// Feat looks up a catalog item by id.
func (e *Engine) Feat(id string) (Feat, bool) {
	f, ok := e.state.Feats[id]
	return f, ok
}

// Catalog returns every feat sorted by category, then name.
func (e *Engine) Catalog() []Feat {
	feats := slices.Collect(maps.Values(e.state.Feats))
	slices.SortFunc(feats, byCategoryName)
	return feats
}

// Pin appends id to the pinned list and makes it visible, evicting the first
// displayed feat that is not pinned when the display is full. Pinning an
// unknown or already pinned id does nothing.
func (e *Engine) Pin(id string) bool {
	if _, ok := e.state.Feats[id]; !ok || e.IsPinned(id) {
		return false
	}
	e.state.PinnedIDs = append(e.state.PinnedIDs, id)

	if e.IsDisplayed(id) {
		return true
	}
	if len(e.state.DisplayIDs) < DisplaySize {
		e.state.DisplayIDs = append(e.state.DisplayIDs, id)
		return true
	}
	for i, d := range e.state.DisplayIDs {
		if !e.IsPinned(d) {
			e.state.DisplayIDs[i] = id
			break
		}
	}
	return true
}

// Unpin removes id from the pinned list. The feat stays displayed until the
// next ReselectDisplay or Regenerate.
func (e *Engine) Unpin(id string) bool {
	i := slices.Index(e.state.PinnedIDs, id)
	if i < 0 {
		return false
	}
	e.state.PinnedIDs = slices.Delete(e.state.PinnedIDs, i, i+1)
	return true
}

// Reorder moves a pinned id to pos. Unpinned ids and positions outside
// [0, PinCount) leave the state unchanged.
func (e *Engine) Reorder(id string, pos int) bool {
	cur := slices.Index(e.state.PinnedIDs, id)
	if cur < 0 || pos < 0 || pos >= len(e.state.PinnedIDs) || cur == pos {
		return false
	}
	pinned := slices.Delete(e.state.PinnedIDs, cur, cur+1)
	e.state.PinnedIDs = slices.Insert(pinned, pos, id)
	return true
}

// Regenerate rebuilds the catalog from the template table. Pinned feats are
// carried over as they are; every other feat gets a fresh id.
func (e *Engine) Regenerate() {
	feats := make(map[string]Feat, maxCatalog)
	perCategory := make(map[Category]int)
	pinnedNames := make(map[string]bool)

	var pinned []string
	for _, id := range e.state.PinnedIDs {
		f, ok := e.state.Feats[id]
		if !ok {
			continue
		}
		feats[id] = f
		pinned = append(pinned, id)
		perCategory[f.Category]++
		pinnedNames[f.Name] = true
	}

	taken := make(map[string]bool, len(e.state.Feats)+len(templates))
	for id := range e.state.Feats {
		taken[id] = true
	}

	var fresh []Feat
	for _, t := range templates {
		if perCategory[t.Category] >= maxPerCategory || pinnedNames[t.Name] {
			continue
		}
		id := e.uniqueID(t.Category, taken)
		taken[id] = true
		fresh = append(fresh, t.feat(id))
	}
	e.rng.Shuffle(len(fresh), func(i, j int) {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	})

	limit := max(minCatalog, maxCatalog-len(pinned))
	for _, f := range fresh[:min(limit, len(fresh))] {
		feats[f.ID] = f
	}

	e.state.Feats = feats
	e.state.PinnedIDs = pinned
	e.state.DisplayIDs = e.selectDisplay()
	e.state.LastGenerated = e.now()
}

// ReselectDisplay draws a new display set without touching the catalog.
func (e *Engine) ReselectDisplay() {
	e.state.DisplayIDs = e.selectDisplay()
}

func (e *Engine) uniqueID(c Category, taken map[string]bool) string {
	for {
		if id := e.newID(c); !taken[id] {
			return id
		}
	}
}

// selectDisplay keeps the first DisplaySize pins and fills any remaining
// slots with a uniform random sample of unpinned feats.
func (e *Engine) selectDisplay() []string {
	pinned := e.state.PinnedIDs
	if len(pinned) >= DisplaySize {
		return slices.Clone(pinned[:DisplaySize])
	}

	var pool []string
	for id := range e.state.Feats {
		if !e.IsPinned(id) {
			pool = append(pool, id)
		}
	}
	// Map order is random; sort so a seeded source gives repeatable draws.
	slices.Sort(pool)
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	n := min(DisplaySize-len(pinned), len(pool))
	return append(slices.Clone(pinned), pool[:n]...)
}

func byCategoryName(a, b Feat) int {
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
