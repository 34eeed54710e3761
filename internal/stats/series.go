package stats

import (
	"fmt"
	"math"
	"time"
)

// Range selects how many trailing days a Series covers.
type Range int

const (
	RangeWeek Range = iota
	RangeMonth
	RangeYear
)

var rangeNames = []string{"week", "month", "year"}

func (r Range) String() string {
	if r < 0 || int(r) >= len(rangeNames) {
		return "week"
	}
	return rangeNames[r]
}

// Days is the number of calendar days covered, today included.
func (r Range) Days() int {
	switch r {
	case RangeMonth:
		return 30
	case RangeYear:
		return 365
	default:
		return 7
	}
}

// ParseRange accepts "week", "month" or "year".
func ParseRange(s string) (Range, error) {
	for i, n := range rangeNames {
		if n == s {
			return Range(i), nil
		}
	}
	return RangeWeek, fmt.Errorf("unknown range %q", s)
}

// Point is one calendar day of a Series.
type Point struct {
	Date     time.Time
	Count    int
	Duration float64
}

// Series returns one point per day for the trailing range ending today, oldest
// first. Days without an entry are zero.
func Series(entries []Entry, now time.Time, r Range) []Point {
	byDay := make(map[int]Entry, len(entries))
	for _, e := range entries {
		byDay[DayNumber(e.Date)] = e
	}

	today := DayNumber(now)
	n := r.Days()
	points := make([]Point, 0, n)
	for d := today - n + 1; d <= today; d++ {
		p := Point{Date: DayTime(d)}
		if e, ok := byDay[d]; ok {
			p.Count = e.Count
			p.Duration = e.TotalDuration
		}
		points = append(points, p)
	}
	return points
}

// PercentChange formats the relative change from prev to cur.
func PercentChange(cur, prev int) string {
	if prev == 0 {
		if cur > 0 {
			return "∞%"
		}
		return "0%"
	}
	change := float64(cur-prev) / float64(prev) * 100
	sign := ""
	if change > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.0f%%", sign, change)
}

// FormatMinutes renders a minute count as "1h 30m", "2h" or "45m".
func FormatMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	h, m := total/60, total%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
