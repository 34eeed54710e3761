package compare

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func testOptions() []Option {
	n := 0
	return []Option{
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return testNow }),
		WithIDFunc(func(c Category) string {
			n++
			return fmt.Sprintf("%s-%d", c, n)
		}),
	}
}

// newTestEngine returns an engine with a freshly generated catalog.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(State{}, testOptions()...)
	e.Regenerate()
	return e
}

// manualEngine builds an engine over feats a..f (60, 120, ... minutes) and
// the given pin and display lists.
func manualEngine(pinned, display []string) *Engine {
	feats := make(map[string]Feat)
	for i, id := range []string{"a", "b", "c", "d", "e", "f"} {
		feats[id] = Feat{
			ID:        id,
			Name:      "Feat " + id,
			TimeValue: float64(60 * (i + 1)),
			Category:  Categories[i%len(Categories)],
		}
	}
	return New(State{Feats: feats, PinnedIDs: pinned, DisplayIDs: display}, testOptions()...)
}

func notDisplayed(e *Engine) string {
	for _, f := range e.Catalog() {
		if !e.IsDisplayed(f.ID) {
			return f.ID
		}
	}
	return ""
}

func containsFeat(cs []Comparison, id string) bool {
	for _, c := range cs {
		if c.Feat.ID == id {
			return true
		}
	}
	return false
}

// ============================================================
// Regenerate
// ============================================================

func TestRegenerateFresh(t *testing.T) {
	e := newTestEngine(t)
	s := e.State()

	if len(s.Feats) != len(templates) {
		t.Fatalf("expected %d feats, got %d", len(templates), len(s.Feats))
	}
	if len(s.DisplayIDs) != DisplaySize {
		t.Fatalf("expected %d displayed, got %d", DisplaySize, len(s.DisplayIDs))
	}
	seen := make(map[string]bool)
	for _, id := range s.DisplayIDs {
		if _, ok := s.Feats[id]; !ok {
			t.Fatalf("displayed id %q not in catalog", id)
		}
		if seen[id] {
			t.Fatalf("duplicate displayed id %q", id)
		}
		seen[id] = true
	}
	if !s.LastGenerated.Equal(testNow) {
		t.Fatalf("LastGenerated = %v, want %v", s.LastGenerated, testNow)
	}
	for id, f := range s.Feats {
		if id != f.ID {
			t.Fatalf("map key %q does not match feat id %q", id, f.ID)
		}
		if f.TimeValue <= 0 {
			t.Fatalf("feat %q has non-positive time value", f.Name)
		}
	}
}

func TestRegenerateAssignsNewIDs(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()
	e.Regenerate()
	after := e.State()
	for id := range after.Feats {
		if _, ok := before.Feats[id]; ok {
			t.Fatalf("unpinned id %q survived regeneration", id)
		}
	}
}

func TestRegeneratePreservesPinned(t *testing.T) {
	e := newTestEngine(t)
	catalog := e.Catalog()
	pinA, pinB := catalog[0], catalog[5]
	e.Pin(pinA.ID)
	e.Pin(pinB.ID)

	e.Regenerate()
	s := e.State()

	if got := s.Feats[pinA.ID]; got != pinA {
		t.Fatalf("pinned feat changed: %+v -> %+v", pinA, got)
	}
	if got := s.Feats[pinB.ID]; got != pinB {
		t.Fatalf("pinned feat changed: %+v -> %+v", pinB, got)
	}
	if !reflect.DeepEqual(s.PinnedIDs, []string{pinA.ID, pinB.ID}) {
		t.Fatalf("pin order changed: %v", s.PinnedIDs)
	}
	if s.DisplayIDs[0] != pinA.ID || s.DisplayIDs[1] != pinB.ID {
		t.Fatalf("pinned feats should lead the display: %v", s.DisplayIDs)
	}

	names := make(map[string]int)
	for _, f := range s.Feats {
		names[f.Name]++
	}
	if names[pinA.Name] != 1 || names[pinB.Name] != 1 {
		t.Fatal("pinned template duplicated in regenerated catalog")
	}
	if n := len(s.Feats); n < minCatalog || n > maxCatalog {
		t.Fatalf("catalog size %d outside [%d, %d]", n, minCatalog, maxCatalog)
	}
}

func TestRegenerateCategoryCap(t *testing.T) {
	e := newTestEngine(t)
	var music []string
	for _, f := range e.Catalog() {
		if f.Category == CategoryMusic {
			music = append(music, f.ID)
		}
	}
	if len(music) < 2 {
		t.Fatalf("template table should have at least 2 music feats, got %d", len(music))
	}
	e.Pin(music[0])
	e.Pin(music[1])
	e.Regenerate()

	var count int
	for _, f := range e.State().Feats {
		if f.Category == CategoryMusic {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected only the 2 pinned music feats, got %d", count)
	}
}

func TestRegenerateBoundsCatalog(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 10; i++ {
		e.Regenerate()
	}
	if n := len(e.State().Feats); n > maxCatalog {
		t.Fatalf("catalog grew to %d", n)
	}
}

// ============================================================
// Pin / Unpin
// ============================================================

func TestPinShowsInComparisons(t *testing.T) {
	e := newTestEngine(t)
	x := notDisplayed(e)
	if !e.Pin(x) {
		t.Fatal("Pin should report a change")
	}
	for _, total := range []float64{0, 1, 1e6} {
		if !containsFeat(e.Comparisons(total), x) {
			t.Fatalf("pinned feat missing from comparisons for total %v", total)
		}
	}
}

func TestPinReplacesFirstUnpinnedDisplay(t *testing.T) {
	e := newTestEngine(t)
	before := e.State().DisplayIDs
	x := notDisplayed(e)

	e.Pin(x)
	after := e.State().DisplayIDs

	if len(after) != DisplaySize {
		t.Fatalf("display size changed to %d", len(after))
	}
	want := []string{x, before[1], before[2]}
	if !reflect.DeepEqual(after, want) {
		t.Fatalf("display = %v, want %v", after, want)
	}
}

func TestPinAppendsWhenDisplayHasRoom(t *testing.T) {
	e := manualEngine(nil, []string{"a"})
	e.Pin("b")
	if got := e.State().DisplayIDs; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("display = %v", got)
	}
}

func TestPinAlreadyDisplayed(t *testing.T) {
	e := manualEngine(nil, []string{"a", "b", "c"})
	e.Pin("b")
	s := e.State()
	if !reflect.DeepEqual(s.DisplayIDs, []string{"a", "b", "c"}) {
		t.Fatalf("display = %v", s.DisplayIDs)
	}
	if !reflect.DeepEqual(s.PinnedIDs, []string{"b"}) {
		t.Fatalf("pinned = %v", s.PinnedIDs)
	}
}

func TestPinNeverEvictsPinned(t *testing.T) {
	e := manualEngine(nil, []string{"a", "b", "c"})
	e.Pin("d") // evicts a
	e.Pin("e") // evicts b
	e.Pin("f") // evicts c
	if got := e.State().DisplayIDs; !reflect.DeepEqual(got, []string{"d", "e", "f"}) {
		t.Fatalf("display = %v", got)
	}
	e.Pin("a") // display full of pins: stays hidden from display
	s := e.State()
	if !reflect.DeepEqual(s.DisplayIDs, []string{"d", "e", "f"}) {
		t.Fatalf("a pinned feat was evicted: %v", s.DisplayIDs)
	}
	if !containsFeat(e.Comparisons(60), "a") {
		t.Fatal("fourth pin missing from comparisons")
	}
}

func TestPinNoOps(t *testing.T) {
	e := manualEngine([]string{"a"}, []string{"a", "b", "c"})
	before := e.State()
	if e.Pin("a") {
		t.Fatal("pinning twice should be a no-op")
	}
	if e.Pin("missing") {
		t.Fatal("pinning an unknown id should be a no-op")
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Fatal("state changed")
	}
}

func TestUnpinKeepsDisplay(t *testing.T) {
	e := manualEngine([]string{"a", "b"}, []string{"a", "b", "c"})
	if !e.Unpin("a") {
		t.Fatal("Unpin should report a change")
	}
	s := e.State()
	if !reflect.DeepEqual(s.PinnedIDs, []string{"b"}) {
		t.Fatalf("pinned = %v", s.PinnedIDs)
	}
	if !reflect.DeepEqual(s.DisplayIDs, []string{"a", "b", "c"}) {
		t.Fatalf("unpin removed a displayed feat: %v", s.DisplayIDs)
	}
	if e.Unpin("a") {
		t.Fatal("unpinning twice should be a no-op")
	}
}

// ============================================================
// Reorder
// ============================================================

func TestReorder(t *testing.T) {
	e := manualEngine([]string{"a", "b", "c", "d"}, []string{"a", "b", "c"})
	if !e.Reorder("d", 0) {
		t.Fatal("Reorder should report a change")
	}
	if got := e.State().PinnedIDs; !reflect.DeepEqual(got, []string{"d", "a", "b", "c"}) {
		t.Fatalf("pinned = %v", got)
	}
	e.Reorder("d", 3)
	if got := e.State().PinnedIDs; !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("pinned = %v", got)
	}
	e.Reorder("a", 2)
	if got := e.State().PinnedIDs; !reflect.DeepEqual(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("pinned = %v", got)
	}
}

func TestReorderNoOps(t *testing.T) {
	e := manualEngine([]string{"a", "b"}, []string{"a", "b", "c"})
	before := e.State()
	for _, tc := range []struct {
		id  string
		pos int
	}{
		{"c", 0},  // displayed but not pinned
		{"zz", 0}, // unknown
		{"a", -1},
		{"a", 2},
		{"a", 0}, // already there
	} {
		if e.Reorder(tc.id, tc.pos) {
			t.Fatalf("Reorder(%q, %d) reported a change", tc.id, tc.pos)
		}
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Fatal("state changed")
	}
}

// ============================================================
// Display selection
// ============================================================

func TestReselectWithThreePins(t *testing.T) {
	e := manualEngine([]string{"e", "c", "a", "b"}, []string{"e", "c", "a"})
	e.ReselectDisplay()
	if got := e.State().DisplayIDs; !reflect.DeepEqual(got, []string{"e", "c", "a"}) {
		t.Fatalf("display = %v", got)
	}
}

func TestReselectKeepsCatalogAndTimestamp(t *testing.T) {
	e := newTestEngine(t)
	x := notDisplayed(e)
	e.Pin(x)
	before := e.State()

	e.ReselectDisplay()
	after := e.State()

	if !reflect.DeepEqual(before.Feats, after.Feats) {
		t.Fatal("catalog changed")
	}
	if !after.LastGenerated.Equal(before.LastGenerated) {
		t.Fatal("timestamp changed")
	}
	if after.DisplayIDs[0] != x || len(after.DisplayIDs) != DisplaySize {
		t.Fatalf("display = %v", after.DisplayIDs)
	}
	if slices.Contains(after.DisplayIDs[1:], x) {
		t.Fatal("pinned feat drawn twice")
	}
}

func TestReselectSmallCatalog(t *testing.T) {
	e := manualEngine(nil, nil)
	s := e.State()
	delete(s.Feats, "c")
	delete(s.Feats, "d")
	delete(s.Feats, "e")
	delete(s.Feats, "f")
	e = New(s, testOptions()...)
	e.ReselectDisplay()
	if n := len(e.State().DisplayIDs); n != 2 {
		t.Fatalf("expected 2 displayed from a 2-feat catalog, got %d", n)
	}
}

func TestReselectIsUniform(t *testing.T) {
	e := newTestEngine(t)
	counts := make(map[string]int)
	const rounds = 4000
	for i := 0; i < rounds; i++ {
		e.ReselectDisplay()
		for _, id := range e.State().DisplayIDs {
			counts[id]++
		}
	}
	want := rounds * DisplaySize / len(templates) // 600
	for id, n := range counts {
		if n < want*3/4 || n > want*5/4 {
			t.Fatalf("feat %s selected %d times, expected about %d", id, n, want)
		}
	}
	if len(counts) != len(templates) {
		t.Fatalf("only %d of %d feats ever selected", len(counts), len(templates))
	}
}

// ============================================================
// Queries
// ============================================================

func TestStateIsCopied(t *testing.T) {
	e := manualEngine([]string{"a"}, []string{"a"})
	s := e.State()
	s.PinnedIDs[0] = "zz"
	delete(s.Feats, "a")
	if !e.IsPinned("a") {
		t.Fatal("mutating a returned state leaked into the engine")
	}
	if _, ok := e.Feat("a"); !ok {
		t.Fatal("catalog mutated through returned state")
	}
}

func TestCatalogSorted(t *testing.T) {
	e := newTestEngine(t)
	catalog := e.Catalog()
	if !slices.IsSortedFunc(catalog, byCategoryName) {
		t.Fatal("catalog not sorted by category then name")
	}
}

func TestStale(t *testing.T) {
	if !(State{}).Stale(testNow, RegenerateAfter) {
		t.Fatal("never generated should be stale")
	}
	s := State{LastGenerated: testNow.Add(-23 * time.Hour)}
	if s.Stale(testNow, RegenerateAfter) {
		t.Fatal("23h old should not be stale")
	}
	s.LastGenerated = testNow.Add(-25 * time.Hour)
	if !s.Stale(testNow, RegenerateAfter) {
		t.Fatal("25h old should be stale")
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategorySpace.Valid() {
		t.Fatal("space should be valid")
	}
	if Category("food").Valid() || Category("").Valid() {
		t.Fatal("unknown categories should be invalid")
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()

	id := e.Catalog()[0].ID
	e.Pin(id)
	e.Reset(before)
	if e.IsPinned(id) {
		t.Fatal("Reset should restore the earlier pins")
	}

	// The engine keeps its own copy.
	before.PinnedIDs = append(before.PinnedIDs, id)
	if e.IsPinned(id) {
		t.Fatal("Reset should copy the state")
	}
}

func TestTemplateCategories(t *testing.T) {
	for _, tmpl := range templates {
		if !tmpl.Category.Valid() {
			t.Fatalf("template %q has unknown category %q", tmpl.Name, tmpl.Category)
		}
	}
}

func TestDefaultIDsUnique(t *testing.T) {
	e := New(State{}, WithRand(rand.New(rand.NewPCG(3, 4))))
	e.Regenerate()
	ids := make(map[string]bool)
	for id := range e.State().Feats {
		if ids[id] {
			t.Fatalf("duplicate id %s", id)
		}
		ids[id] = true
	}
	if len(ids) != len(templates) {
		t.Fatalf("expected %d ids, got %d", len(templates), len(ids))
	}
}
