package stats

import "testing"

func TestSeriesWeek(t *testing.T) {
	entries := []Entry{entry(0, 3, 45), entry(-2, 1, 10), entry(-9, 7, 70)}
	points := Series(entries, testNow, RangeWeek)
	if len(points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(points))
	}
	if !points[6].Date.Equal(day(0)) {
		t.Fatalf("last point should be today, got %v", points[6].Date)
	}
	if !points[0].Date.Equal(day(-6)) {
		t.Fatalf("first point should be today-6, got %v", points[0].Date)
	}
	if points[6].Count != 3 || points[6].Duration != 45 {
		t.Fatalf("today point: %+v", points[6])
	}
	if points[4].Count != 1 {
		t.Fatalf("today-2 point: %+v", points[4])
	}
	var sum int
	for _, p := range points {
		sum += p.Count
	}
	if sum != 4 {
		t.Fatalf("entries outside the range leaked in: sum %d", sum)
	}
}

func TestSeriesLengths(t *testing.T) {
	if n := len(Series(nil, testNow, RangeMonth)); n != 30 {
		t.Fatalf("month: got %d points", n)
	}
	if n := len(Series(nil, testNow, RangeYear)); n != 365 {
		t.Fatalf("year: got %d points", n)
	}
}

func TestParseRange(t *testing.T) {
	for _, r := range []Range{RangeWeek, RangeMonth, RangeYear} {
		got, err := ParseRange(r.String())
		if err != nil || got != r {
			t.Fatalf("ParseRange(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRange("decade"); err == nil {
		t.Fatal("expected error for unknown range")
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		cur, prev int
		want      string
	}{
		{10, 8, "+25%"},
		{9, 10, "-10%"},
		{5, 5, "0%"},
		{3, 0, "∞%"},
		{0, 0, "0%"},
	}
	for _, c := range cases {
		if got := PercentChange(c.cur, c.prev); got != c.want {
			t.Errorf("PercentChange(%d, %d) = %q, want %q", c.cur, c.prev, got, c.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[float64]string{
		0:   "0m",
		45:  "45m",
		60:  "1h",
		90:  "1h 30m",
		125: "2h 5m",
	}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(KindTotal, Result{}); got != "Starting fresh" {
		t.Errorf("total 0: %q", got)
	}
	if got := Describe(KindTotal, Result{Total: 250}); got != "Legendary status" {
		t.Errorf("total 250: %q", got)
	}
	if got := Describe(KindStreak, Result{Streak: 5}); got != "Consistent tracker" {
		t.Errorf("streak 5: %q", got)
	}
	if got := Describe(KindAvg, Result{}); got != "The calm" {
		t.Errorf("avg 0: %q", got)
	}
	if got := Describe(KindAvg, Result{Avg: 0.5}); got != "Occasional practice" {
		t.Errorf("avg 0.5: %q", got)
	}
	if got := Describe(KindLongest, Result{Longest: 4, Streak: 4}); got != "You're at your peak!" {
		t.Errorf("longest at peak: %q", got)
	}
	if got := Describe(KindDailyMax, Result{DailyMax: 4}); got != "Notable achievement!" {
		t.Errorf("daily max 4: %q", got)
	}
}

func TestSessionLabel(t *testing.T) {
	cases := map[float64]string{
		0:   "Quick session",
		5:   "Quick session",
		12:  "Brief session",
		30:  "Standard session",
		45:  "Extended session",
		61:  "Marathon session",
		600: "Marathon session",
	}
	for in, want := range cases {
		if got := SessionLabel(in); got != want {
			t.Errorf("SessionLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
