package compare

import (
	"math"
	"slices"
	"strconv"
)

// Comparison expresses a duration in units of a feat.
type Comparison struct {
	Feat       Feat
	Value      float64
	Percentage float64
}

// Comparisons returns a comparison for every pinned or displayed feat: pinned
// feats first in pin order, then the rest in display order.
func (e *Engine) Comparisons(totalMinutes float64) []Comparison {
	seen := make(map[string]bool, DisplaySize+len(e.state.PinnedIDs))
	var visible []Feat
	for _, id := range slices.Concat(e.state.DisplayIDs, e.state.PinnedIDs) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if f, ok := e.state.Feats[id]; ok {
			visible = append(visible, f)
		}
	}

	slices.SortStableFunc(visible, e.byVisibility)

	out := make([]Comparison, 0, len(visible))
	for _, f := range visible {
		v := totalMinutes / f.TimeValue
		out = append(out, Comparison{Feat: f, Value: v, Percentage: v * 100})
	}
	return out
}

func (e *Engine) byVisibility(a, b Feat) int {
	ap := slices.Index(e.state.PinnedIDs, a.ID)
	bp := slices.Index(e.state.PinnedIDs, b.ID)
	switch {
	case ap >= 0 && bp >= 0:
		return ap - bp
	case ap >= 0:
		return -1
	case bp >= 0:
		return 1
	}

	ad := slices.Index(e.state.DisplayIDs, a.ID)
	bd := slices.Index(e.state.DisplayIDs, b.ID)
	if ad >= 0 && bd >= 0 {
		return ad - bd
	}
	return byCategoryName(a, b)
}

// FormatValue renders a comparison value with precision that shrinks as the
// value grows.
func FormatValue(v float64) string {
	switch {
	case v < 0.01:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case v < 0.1:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case v < 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case v < 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
}
