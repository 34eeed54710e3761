package stats

import (
	"slices"
	"time"
)

// Entry is one day of activity. Only the calendar day of Date is significant.
type Entry struct {
	Date          time.Time
	Count         int
	TotalDuration float64 // minutes
	Note          string
}

// Result holds the aggregate statistics derived from a set of entries.
type Result struct {
	Total         int     `json:"total"`
	TotalDuration float64 `json:"total_duration"`
	Avg           float64 `json:"avg"`
	AvgDuration   float64 `json:"avg_duration"`
	Streak        int     `json:"streak"`
	Longest       int     `json:"longest"`
	ThisWeek      int     `json:"this_week"`
	LastWeek      int     `json:"last_week"`
	ThisMonth     int     `json:"this_month"`
	LastMonth     int     `json:"last_month"`
	DailyMax      int     `json:"daily_max"`
}

// Compute derives statistics from entries, anchored on the calendar day of now.
// The entries slice is not modified.
func Compute(entries []Entry, now time.Time) Result {
	if len(entries) == 0 {
		return Result{}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return DayNumber(a.Date) - DayNumber(b.Date)
	})

	var r Result
	for _, e := range sorted {
		r.Total += e.Count
		r.TotalDuration += e.TotalDuration
		r.DailyMax = max(r.DailyMax, e.Count)
	}
	r.Avg = float64(r.Total) / float64(len(sorted))
	r.AvgDuration = r.TotalDuration / float64(len(sorted))

	active := activeDays(sorted)
	today := DayNumber(now)

	for d := today; active[d]; d-- {
		r.Streak++
	}
	r.Longest = longestRun(active)

	r.ThisWeek = sumWindow(sorted, today-6, today)
	r.LastWeek = sumWindow(sorted, today-13, today-7)
	r.ThisMonth = sumWindow(sorted, today-29, today)
	r.LastMonth = sumWindow(sorted, today-59, today-30)

	return r
}

// DayNumber maps the calendar day of t to a day count since the Unix epoch.
// The location of t only decides which calendar day it falls on.
func DayNumber(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / 86400)
}

// DayTime is the inverse of DayNumber: midnight UTC of the given day.
func DayTime(day int) time.Time {
	return time.Unix(int64(day)*86400, 0).UTC()
}

// activeDays returns the set of days with at least one qualifying (count > 0) entry.
func activeDays(entries []Entry) map[int]bool {
	days := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Count > 0 {
			days[DayNumber(e.Date)] = true
		}
	}
	return days
}

func longestRun(active map[int]bool) int {
	if len(active) == 0 {
		return 0
	}
	days := make([]int, 0, len(active))
	for d := range active {
		days = append(days, d)
	}
	slices.Sort(days)

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// sumWindow totals the count of entries whose day falls in [from, to].
func sumWindow(entries []Entry, from, to int) int {
	var sum int
	for _, e := range entries {
		d := DayNumber(e.Date)
		if d >= from && d <= to {
			sum += e.Count
		}
	}
	return sum
}
