package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	maxPins     *string
	regenHours  *string
	chartRange  *string
	dailyGoal   *string
	idleMinutes *string
}

func newSettingsModel(s *store.Store) settingsModel {
	mp, rh, cr, dg, im := "", "", "", "", ""
	return settingsModel{
		store:       s,
		maxPins:     &mp,
		regenHours:  &rh,
		chartRange:  &cr,
		dailyGoal:   &dg,
		idleMinutes: &im,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

// positiveInt builds a validator for whole numbers in [lo, hi].
func positiveInt(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.maxPins = s.getVal("max_pins", "5")
	*s.regenHours = s.getVal("regen_hours", "24")
	*s.chartRange = s.getVal("chart_range", "week")
	*s.dailyGoal = s.getVal("daily_goal", "1")
	*s.idleMinutes = s.getVal("idle_minutes", "5")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Max pinned feats").Value(s.maxPins).Validate(positiveInt(1, 20)),
			huh.NewInput().Title("Regenerate catalog after (hours)").Value(s.regenHours).Validate(positiveInt(1, 24*30)),
		).Title("Comparisons"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Chart range").
				Options(
					huh.NewOption("Week", "week"),
					huh.NewOption("Month", "month"),
					huh.NewOption("Year", "year"),
				).Value(s.chartRange),
			huh.NewInput().Title("Daily goal (count)").Value(s.dailyGoal).Validate(positiveInt(1, 1000)),
			huh.NewInput().Title("Idle pause after (min)").Value(s.idleMinutes).Validate(positiveInt(1, 240)),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errCmd("Error saving settings", err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	for _, kv := range []struct{ k, v string }{
		{"max_pins", *s.maxPins},
		{"regen_hours", *s.regenHours},
		{"chart_range", *s.chartRange},
		{"daily_goal", *s.dailyGoal},
		{"idle_minutes", *s.idleMinutes},
	} {
		if err := s.store.SetSetting(kv.k, kv.v); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings. Catalog age changes apply on next start.")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	n, err := strconv.Atoi(v)
	if err != nil {
		return v
	}
	switch k {
	case "regen_hours":
		return fmt.Sprintf("%d hours", n)
	case "idle_minutes":
		return fmt.Sprintf("%d min", n)
	case "daily_goal":
		return fmt.Sprintf("%d per day", n)
	case "max_pins":
		return fmt.Sprintf("%d feats", n)
	}
	return v
}
