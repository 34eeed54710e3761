package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tracker"
)

var chartRanges = []stats.Range{stats.RangeWeek, stats.RangeMonth, stats.RangeYear}

type reportsModel struct {
	tracker *tracker.Tracker
	store   *store.Store
	width   int
	height  int

	rng    stats.Range
	points []stats.Point

	chart barchart.Model
}

func newReportsModel(tr *tracker.Tracker, s *store.Store) reportsModel {
	rng := stats.RangeWeek
	if v, err := s.GetSetting("chart_range"); err == nil {
		if r, err := stats.ParseRange(v); err == nil {
			rng = r
		}
	}
	return reportsModel{
		tracker: tr,
		store:   s,
		rng:     rng,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	rng    stats.Range
	points []stats.Point
}

func (r reportsModel) refresh() tea.Cmd {
	rng := r.rng
	return func() tea.Msg {
		points, _ := r.tracker.Series(rng)
		return reportsDataMsg{rng: rng, points: points}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.rng != r.rng {
			return r, nil
		}
		r.points = msg.points
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.rng = chartRanges[(int(r.rng)+len(chartRanges)-1)%len(chartRanges)]
			return r, r.switchRange()
		case key.Matches(msg, keys.Right):
			r.rng = chartRanges[(int(r.rng)+1)%len(chartRanges)]
			return r, r.switchRange()
		}
	}
	return r, nil
}

// switchRange remembers the range and reloads the series.
func (r reportsModel) switchRange() tea.Cmd {
	r.store.SetSetting("chart_range", r.rng.String())
	return r.refresh()
}

// bars groups points into chart bars: one per day for week and month, one per
// calendar month for year.
func bars(points []stats.Point, rng stats.Range) []barchart.BarData {
	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)

	if rng != stats.RangeYear {
		out := make([]barchart.BarData, 0, len(points))
		for i, p := range points {
			label := p.Date.Format("Mon")
			if rng == stats.RangeMonth {
				label = ""
				if i%5 == 0 {
					label = p.Date.Format("02")
				}
			}
			out = append(out, barchart.BarData{
				Label:  label,
				Values: []barchart.BarValue{{Name: "count", Value: float64(p.Count), Style: barStyle}},
			})
		}
		return out
	}

	var out []barchart.BarData
	var month time.Month
	for _, p := range points {
		if len(out) == 0 || p.Date.Month() != month {
			month = p.Date.Month()
			out = append(out, barchart.BarData{
				Label:  p.Date.Format("Jan"),
				Values: []barchart.BarValue{{Name: "count", Style: barStyle}},
			})
		}
		out[len(out)-1].Values[0].Value += float64(p.Count)
	}
	return out
}

func (r *reportsModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	r.chart.PushAll(bars(r.points, r.rng))
	r.chart.Draw()
}

type rangeSummary struct {
	total      int
	minutes    float64
	activeDays int
	best       stats.Point
}

func summarize(points []stats.Point) rangeSummary {
	var s rangeSummary
	for _, p := range points {
		s.total += p.Count
		s.minutes += p.Duration
		if p.Count > 0 {
			s.activeDays++
		}
		if p.Count > s.best.Count {
			s.best = p
		}
	}
	return s
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for _, rng := range chartRanges {
		name := strings.ToUpper(rng.String()[:1]) + rng.String()[1:]
		if rng == r.rng {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	dateLabel := ""
	if len(r.points) > 0 {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s to %s",
			r.points[0].Date.Format("Jan 02"), r.points[len(r.points)-1].Date.Format("Jan 02, 2006")))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: switch range")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummary(), "", nav,
		),
	)
}

func (r reportsModel) renderSummary() string {
	s := summarize(r.points)
	if s.total == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	days := max(len(r.points), 1)
	rows := []string{
		fmt.Sprintf("  %-14s %s", "Total", highlightStyle.Render(formatCount(s.total))),
		fmt.Sprintf("  %-14s %s", "Time", highlightStyle.Render(stats.FormatMinutes(s.minutes))),
		fmt.Sprintf("  %-14s %s", "Active days", highlightStyle.Render(fmt.Sprintf("%d / %d", s.activeDays, days))),
		fmt.Sprintf("  %-14s %s", "Avg / day", highlightStyle.Render(fmt.Sprintf("%.1f", float64(s.total)/float64(days)))),
		fmt.Sprintf("  %-14s %s", "Best day", highlightStyle.Render(
			fmt.Sprintf("%s (%s)", s.best.Date.Format("Mon Jan 02"), formatCount(s.best.Count)))),
	}
	return strings.Join(rows, "\n")
}
