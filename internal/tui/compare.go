package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitr/internal/compare"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/tracker"
)

type compareModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	totalMinutes float64
	comparisons  []compare.Comparison
	state        compare.State
	cursor       int

	// Catalog browser
	browsing     bool
	search       textinput.Model
	results      []compare.Feat
	resultCursor int
}

func newCompareModel(tr *tracker.Tracker) compareModel {
	ti := textinput.New()
	ti.Placeholder = "search feats"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return compareModel{
		tracker: tr,
		search:  ti,
	}
}

func (c *compareModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.search.Width = max(10, w-12)
}

func (c compareModel) capturing() bool {
	return c.browsing
}

type compareDataMsg struct {
	totalMinutes float64
	comparisons  []compare.Comparison
	state        compare.State
}

func (c compareModel) refresh() tea.Cmd {
	return func() tea.Msg {
		total, _ := c.tracker.TotalMinutes()
		return compareDataMsg{
			totalMinutes: total,
			comparisons:  c.tracker.Comparisons(total),
			state:        c.tracker.State(),
		}
	}
}

// run applies a tracker operation, then reloads.
func (c compareModel) run(op func() error, done string) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			if errors.Is(err, tracker.ErrPinLimit) {
				return statusMsg{text: "Unpin a feat first: " + err.Error(), isError: true}
			}
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: done}
	}
}

func (c compareModel) update(msg tea.Msg) (compareModel, tea.Cmd) {
	if data, ok := msg.(compareDataMsg); ok {
		c.totalMinutes = data.totalMinutes
		c.comparisons = data.comparisons
		c.state = data.state
		if c.cursor >= len(c.comparisons) {
			c.cursor = max(0, len(c.comparisons)-1)
		}
		return c, nil
	}
	if c.browsing {
		return c.updateBrowser(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.comparisons)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Pin):
			if f, ok := c.selected(); ok {
				return c, c.togglePin(f)
			}
		case key.Matches(msg, keys.MoveUp):
			return c.move(-1)
		case key.Matches(msg, keys.MoveDown):
			return c.move(1)
		case key.Matches(msg, keys.Shuffle):
			return c, c.run(c.tracker.Shuffle, "Reshuffled")
		case key.Matches(msg, keys.Regenerate):
			return c, c.run(c.tracker.Regenerate, "New feats generated")
		case key.Matches(msg, keys.Search):
			c.browsing = true
			c.search.SetValue("")
			c.results = c.tracker.Search("")
			c.resultCursor = 0
			cmd := c.search.Focus()
			return c, cmd
		}
	}
	return c, nil
}

func (c compareModel) selected() (compare.Feat, bool) {
	if c.cursor >= len(c.comparisons) {
		return compare.Feat{}, false
	}
	return c.comparisons[c.cursor].Feat, true
}

func (c compareModel) pinned(id string) bool {
	return slices.Contains(c.state.PinnedIDs, id)
}

func (c compareModel) togglePin(f compare.Feat) tea.Cmd {
	if c.pinned(f.ID) {
		return c.run(func() error { return c.tracker.Unpin(f.ID) }, "Unpinned "+f.Name)
	}
	return c.run(func() error { return c.tracker.Pin(f.ID) }, "Pinned "+f.Name)
}

// move shifts the selected pinned feat by delta within the pinned order.
func (c compareModel) move(delta int) (compareModel, tea.Cmd) {
	f, ok := c.selected()
	if !ok {
		return c, nil
	}
	pos := slices.Index(c.state.PinnedIDs, f.ID)
	if pos < 0 {
		return c, statusCmd("Only pinned feats can be reordered")
	}
	target := pos + delta
	if target < 0 || target >= len(c.state.PinnedIDs) {
		return c, nil
	}
	// Pinned feats lead the list in pin order, so the cursor follows.
	c.cursor = target
	return c, c.run(func() error { return c.tracker.Reorder(f.ID, target) }, "Moved "+f.Name)
}

func (c compareModel) updateBrowser(msg tea.Msg) (compareModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			c.browsing = false
			c.search.Blur()
			return c, c.refresh()
		case "up", "ctrl+k":
			if c.resultCursor > 0 {
				c.resultCursor--
			}
			return c, nil
		case "down", "ctrl+j":
			if c.resultCursor < len(c.results)-1 {
				c.resultCursor++
			}
			return c, nil
		case "enter":
			if c.resultCursor < len(c.results) {
				return c, c.togglePin(c.results[c.resultCursor])
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.results = c.tracker.Search(c.search.Value())
	if c.resultCursor >= len(c.results) {
		c.resultCursor = max(0, len(c.results)-1)
	}
	return c, cmd
}

func (c compareModel) view() string {
	w := c.width - 4
	if c.browsing {
		return c.renderBrowser(w)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Time Comparisons"), "  ",
		mutedStyle.Render(stats.FormatMinutes(c.totalMinutes)+" logged"),
	)

	var rows []string
	rows = append(rows, header, "")

	if len(c.comparisons) == 0 {
		rows = append(rows, mutedStyle.Render("No feats to compare yet. Press R to generate."))
	}
	for i, cmp := range c.comparisons {
		rows = append(rows, c.renderCard(cmp, i == c.cursor, w-6))
	}

	rows = append(rows, "")
	generated := "never"
	if !c.state.LastGenerated.IsZero() {
		generated = humanize.Time(c.state.LastGenerated)
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d feats in catalog, %d pinned, generated %s",
		len(c.state.Feats), len(c.state.PinnedIDs), generated)))
	rows = append(rows, mutedStyle.Render("  p: pin/unpin  K/J: reorder pins  r: reshuffle  R: regenerate  /: browse"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c compareModel) renderCard(cmp compare.Comparison, selected bool, w int) string {
	f := cmp.Feat
	marker := "  "
	if c.pinned(f.ID) {
		marker = accentStyle.Render("◆ ")
	}

	title := marker + titleStyle.Render(f.Name) + mutedStyle.Render("  "+string(f.Category))
	value := statValueStyle.Render(compare.FormatValue(cmp.Value)+"×") +
		mutedStyle.Render(fmt.Sprintf("  (%s%%)  one takes %s %s", compare.FormatValue(cmp.Percentage), compare.FormatValue(f.TimeValue), unitLabel(f)))

	lines := []string{title, value}
	if f.Description != "" {
		lines = append(lines, mutedStyle.Render(f.Description))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(w).Render(strings.Join(lines, "\n"))
}

func unitLabel(f compare.Feat) string {
	if f.Unit != "" {
		return f.Unit
	}
	return "minutes"
}

func (c compareModel) renderBrowser(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Feat Catalog"), "", c.search.View(), "")

	limit := max(3, c.height-12)
	start := 0
	if c.resultCursor >= limit {
		start = c.resultCursor - limit + 1
	}
	end := min(len(c.results), start+limit)

	if len(c.results) == 0 {
		rows = append(rows, mutedStyle.Render("  No matches"))
	}
	for i := start; i < end; i++ {
		f := c.results[i]
		cursor := "  "
		style := normalItemStyle
		if i == c.resultCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		pin := "  "
		if c.pinned(f.ID) {
			pin = "◆ "
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s%-34s %-14s %s",
			cursor, pin, f.Name, f.Category, stats.FormatMinutes(f.TimeValue))))
	}

	rows = append(rows, "", mutedStyle.Render("  type to filter  ↑/↓: move  enter: pin/unpin  esc: close"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
