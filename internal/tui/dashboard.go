package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tracker"
)

type dashboardModel struct {
	tracker  *tracker.Tracker
	store    *store.Store
	activity string
	timer    timerModel
	width    int
	height   int

	result stats.Result
	recent []store.Entry
	goal   int
}

func newDashboardModel(tr *tracker.Tracker, s *store.Store, activity string) dashboardModel {
	return dashboardModel{
		tracker:  tr,
		store:    s,
		activity: activity,
		timer:    newTimerModel(idleTimeout(s)),
		goal:     s.GetIntSetting("daily_goal", 1),
	}
}

func idleTimeout(s *store.Store) time.Duration {
	return time.Duration(s.GetIntSetting("idle_minutes", 5)) * time.Minute
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	result stats.Result
	recent []store.Entry
	goal   int
	idle   time.Duration
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		result, _ := d.tracker.Stats()
		recent, _ := d.tracker.Entries(store.EntryFilter{Limit: 5})
		return dashboardDataMsg{
			result: result,
			recent: recent,
			goal:   d.store.GetIntSetting("daily_goal", 1),
			idle:   idleTimeout(d.store),
		}
	}
}

// todayCount returns the count logged for the current day.
func (d dashboardModel) todayCount() int {
	today := store.FormatDay(time.Now())
	for _, e := range d.recent {
		if store.FormatDay(e.Date) == today {
			return e.Count
		}
	}
	return 0
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.result = msg.result
		d.recent = msg.recent
		d.goal = msg.goal
		d.timer.idleTimeout = msg.idle
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		d.timer.recordActivity()

		switch {
		case key.Matches(msg, keys.Inc):
			return d, d.adjust(1)
		case key.Matches(msg, keys.Dec):
			return d, d.adjust(-1)
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			d.timer.start()
			return d, func() tea.Msg { return sessionStartedMsg{} }
		case key.Matches(msg, keys.Stop):
			return d.stopSession()
		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		}
	}
	return d, nil
}

func (d dashboardModel) adjust(delta int) tea.Cmd {
	return func() tea.Msg {
		e, err := d.tracker.AddToday(delta)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return entrySavedMsg{entry: e}
	}
}

func (d dashboardModel) stopSession() (dashboardModel, tea.Cmd) {
	if !d.timer.running() {
		return d, nil
	}
	elapsed := d.timer.stop()
	if elapsed < time.Second {
		return d, statusCmd("Session too short, discarded")
	}
	return d, func() tea.Msg {
		e, err := d.tracker.RecordSession(elapsed)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return sessionStoppedMsg{entry: e, elapsed: elapsed}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTodayPanel(contentWidth),
		d.renderStatsGrid(contentWidth),
		d.renderPeriodsPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	count := d.todayCount()
	countLine := fmt.Sprintf("%s  %s", titleStyle.Render(d.activity+" today"), statValueStyle.Render(formatCount(count)))
	if d.goal > 0 {
		goal := mutedStyle.Render(fmt.Sprintf(" / %d goal", d.goal))
		if count >= d.goal {
			goal = successStyle.Render(fmt.Sprintf(" / %d goal ✓", d.goal))
		}
		countLine += goal
	}

	var timerLine string
	switch {
	case d.timer.running() && d.timer.paused():
		status := "⏸  PAUSED"
		if d.timer.isIdle {
			status = "⏸  IDLE"
		}
		timerLine = timerPausedStyle.Render(formatDuration(d.timer.currentElapsed())) + "  " + warningStyle.Render(status)
	case d.timer.running():
		el := d.timer.currentElapsed()
		timerLine = timerRunningStyle.Render(formatDuration(el)) + "  " +
			successStyle.Render("●  "+stats.SessionLabel(el.Minutes()))
	default:
		timerLine = timerStyle.Render("00:00:00") + "  " + mutedStyle.Render("s: start a session  +/-: adjust count")
	}

	style := panelStyle
	if d.timer.running() {
		style = activePanelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, countLine, "", timerLine))
}

func (d dashboardModel) renderStatsGrid(w int) string {
	r := d.result
	tiles := []struct {
		label string
		value string
		note  string
	}{
		{"Total", formatCount(r.Total), stats.Describe(stats.KindTotal, r)},
		{"Streak", fmt.Sprintf("%d days", r.Streak), stats.Describe(stats.KindStreak, r)},
		{"Longest", fmt.Sprintf("%d days", r.Longest), stats.Describe(stats.KindLongest, r)},
		{"Avg / day", fmt.Sprintf("%.1f", r.Avg), stats.Describe(stats.KindAvg, r)},
		{"Daily max", formatCount(r.DailyMax), stats.Describe(stats.KindDailyMax, r)},
		{"Time", stats.FormatMinutes(r.TotalDuration), "avg " + stats.FormatMinutes(r.AvgDuration)},
	}

	perRow := 3
	if w < 72 {
		perRow = 2
	}
	tileWidth := w/perRow - 2

	var rows []string
	var row []string
	for i, t := range tiles {
		content := lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(t.label),
			statValueStyle.Render(t.value),
			accentStyle.Render(t.note),
		)
		row = append(row, tileStyle.Width(tileWidth).Render(content))
		if (i+1)%perRow == 0 || i == len(tiles)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (d dashboardModel) renderPeriodsPanel(w int) string {
	r := d.result
	line := func(label string, cur, prev int, prevLabel string) string {
		change := stats.PercentChange(cur, prev)
		style := mutedStyle
		switch {
		case strings.HasPrefix(change, "+"), change == "∞%":
			style = successStyle
		case strings.HasPrefix(change, "-"):
			style = errorStyle
		}
		return fmt.Sprintf("  %-12s %6s   %s %6s   %s",
			label, formatCount(cur), mutedStyle.Render(prevLabel), formatCount(prev), style.Render(change))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Periods"),
		line("This week", r.ThisWeek, r.LastWeek, "last week"),
		line("This month", r.ThisMonth, r.LastMonth, "last month"),
	))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet. Press + to log one for today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range d.recent {
		note := ""
		if e.Note != "" {
			note = mutedStyle.Render("  " + e.Note)
		}
		rows = append(rows, fmt.Sprintf("  %s  %4s×  %8s%s",
			e.Date.Format("Mon Jan 02"), formatCount(e.Count), stats.FormatMinutes(e.TotalDuration), note))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
