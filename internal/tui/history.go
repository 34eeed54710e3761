package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tracker"
)

type historyModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	entries []store.Entry
	cursor  int
	offset  int

	formActive    bool
	form          *huh.Form
	editing       *store.Entry
	confirmDelete bool

	// Form field pointers (survive value copies)
	formDate     *string
	formCount    *string
	formDuration *string
	formNote     *string
}

func newHistoryModel(tr *tracker.Tracker) historyModel {
	date, count, dur, note := "", "", "", ""
	return historyModel{
		tracker:      tr,
		formDate:     &date,
		formCount:    &count,
		formDuration: &dur,
		formNote:     &note,
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

// capturing reports whether the view wants every key press.
func (h historyModel) capturing() bool {
	return h.formActive || h.confirmDelete
}

type historyDataMsg struct {
	entries []store.Entry
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, _ := h.tracker.Entries(store.EntryFilter{})
		return historyDataMsg{entries: entries}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case historyDataMsg:
		h.entries = msg.entries
		if h.cursor >= len(h.entries) {
			h.cursor = max(0, len(h.entries)-1)
		}
		h.scroll()
		return h, nil

	case tea.KeyMsg:
		if h.confirmDelete {
			h.confirmDelete = false
			if msg.String() == "y" && h.cursor < len(h.entries) {
				return h, h.deleteEntry(h.entries[h.cursor].Date)
			}
			return h, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
			h.scroll()
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.entries)-1 {
				h.cursor++
			}
			h.scroll()
		case key.Matches(msg, keys.New):
			return h.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(h.entries) > 0 {
				e := h.entries[h.cursor]
				return h.showForm(&e)
			}
		case key.Matches(msg, keys.Delete):
			if len(h.entries) > 0 {
				h.confirmDelete = true
			}
		}
	}
	return h, nil
}

func (h historyModel) visibleRows() int {
	return max(3, h.height-10)
}

func (h *historyModel) scroll() {
	n := h.visibleRows()
	if h.cursor < h.offset {
		h.offset = h.cursor
	}
	if h.cursor >= h.offset+n {
		h.offset = h.cursor - n + 1
	}
}

func (h historyModel) showForm(e *store.Entry) (historyModel, tea.Cmd) {
	h.editing = e
	if e == nil {
		*h.formDate = store.FormatDay(time.Now())
		*h.formCount = "1"
		*h.formDuration = "0"
		*h.formNote = ""
	} else {
		*h.formDate = store.FormatDay(e.Date)
		*h.formCount = strconv.Itoa(e.Count)
		*h.formDuration = strconv.FormatFloat(e.TotalDuration, 'f', -1, 64)
		*h.formNote = e.Note
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(h.formDate).Validate(validateDay),
			huh.NewInput().Title("Count").Value(h.formCount).Validate(validateCount),
			huh.NewInput().Title("Duration (minutes)").Value(h.formDuration).Validate(validateMinutes),
			huh.NewInput().Title("Note").Value(h.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func validateDay(s string) error {
	if _, err := store.ParseDay(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a whole number ≥ 0")
	}
	return nil
}

func validateMinutes(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return errors.New("enter minutes ≥ 0")
	}
	return nil
}

// formEntry builds an entry from the form fields.
func (h historyModel) formEntry() (store.Entry, error) {
	date, err := store.ParseDay(strings.TrimSpace(*h.formDate))
	if err != nil {
		return store.Entry{}, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(*h.formCount))
	if err != nil {
		return store.Entry{}, err
	}
	minutes, err := strconv.ParseFloat(strings.TrimSpace(*h.formDuration), 64)
	if err != nil {
		return store.Entry{}, err
	}
	return store.Entry{
		Date:          date,
		Count:         count,
		TotalDuration: minutes,
		Note:          strings.TrimSpace(*h.formNote),
	}, nil
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		return h, h.saveForm()
	}

	return h, cmd
}

func (h historyModel) saveForm() tea.Cmd {
	e, err := h.formEntry()
	if err != nil {
		return errCmd("Invalid entry", err)
	}
	prev := h.editing
	return func() tea.Msg {
		// A new or moved entry never replaces another day's entry.
		if prev == nil || store.FormatDay(prev.Date) != store.FormatDay(e.Date) {
			if _, err := h.tracker.Entry(e.Date); err == nil {
				return statusMsg{
					text:    fmt.Sprintf("An entry for %s already exists, edit it instead", store.FormatDay(e.Date)),
					isError: true,
				}
			}
		}
		saved, err := h.tracker.LogEntry(e)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		// Editing the date moves the entry.
		if prev != nil && store.FormatDay(prev.Date) != store.FormatDay(e.Date) {
			if err := h.tracker.DeleteEntry(prev.Date); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return entrySavedMsg{entry: saved}
	}
}

func (h historyModel) deleteEntry(date time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := h.tracker.DeleteEntry(date); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return entryDeletedMsg{}
	}
}

func (h historyModel) view() string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		title := titleStyle.Render("New Entry")
		if h.editing != nil {
			title = titleStyle.Render("Edit Entry")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View()),
		)
	}

	title := titleStyle.Render("History")
	if len(h.entries) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Press n to add one."),
		))
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-16s %8s %10s  %-18s %s", "Date", "Count", "Duration", "Session", "Note")))

	end := min(len(h.entries), h.offset+h.visibleRows())
	for i := h.offset; i < end; i++ {
		e := h.entries[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := ""
		if e.TotalDuration > 0 {
			label = stats.SessionLabel(e.TotalDuration / float64(max(e.Count, 1)))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-16s %8s %10s  %-18s %s",
			cursor, e.Date.Format("Mon 2006-01-02"), formatCount(e.Count),
			stats.FormatMinutes(e.TotalDuration), label, e.Note)))
	}

	rows = append(rows, "")
	if h.confirmDelete && h.cursor < len(h.entries) {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  Delete entry for %s? y/n", store.FormatDay(h.entries[h.cursor].Date))))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d entries  n: new  enter: edit  d: delete", len(h.entries))))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
