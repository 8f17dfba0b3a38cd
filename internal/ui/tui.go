// Package ui provides the interactive day view.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/repo"
	"github.com/dandori-app/dandori/internal/schedule"
	"github.com/dandori-app/dandori/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dateStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	laneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// RunDayView starts the TUI on today's date. The repository must
// already have carry-over applied; the view only reads and toggles.
func RunDayView(ctx context.Context, cfg *config.Config, r *repo.Repository) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newDayModel(cfg, r, task.FormatYMD(time.Now()))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type dayModel struct {
	cfg    *config.Config
	repo   *repo.Repository
	date   string
	cursor int

	tasks      []task.Task
	placements map[string]schedule.Placement
}

func newDayModel(cfg *config.Config, r *repo.Repository, date string) *dayModel {
	m := &dayModel{cfg: cfg, repo: r, date: date}
	m.refresh()
	return m
}

func (m *dayModel) Init() tea.Cmd {
	return nil
}

func (m *dayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "h", "left":
			m.shiftDate(-1)
		case "l", "right":
			m.shiftDate(1)
		case "t":
			m.date = task.FormatYMD(time.Now())
			m.refresh()
		case " ", "enter":
			if m.cursor < len(m.tasks) {
				// Toggle errors only on a vanished id; refresh covers it.
				m.repo.ToggleDone(m.tasks[m.cursor].ID)
				m.refresh()
			}
		}
	}
	return m, nil
}

func (m *dayModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dandori"))
	b.WriteString("  ")
	b.WriteString(dateStyle.Render(m.date))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(helpStyle.Render("no tasks for this day") + "\n")
	}
	for i, t := range m.tasks {
		b.WriteString(m.renderTask(i, &t))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move · h/l day · t today · space toggle · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *dayModel) renderTask(i int, t *task.Task) string {
	var b strings.Builder
	if i == m.cursor {
		b.WriteString(selectedStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}
	mark := "[ ]"
	if t.Done {
		mark = "[x]"
	}
	b.WriteString(mark + " ")

	if t.StartMin != nil {
		span := task.MinutesToClock(*t.StartMin)
		if t.EndMin != nil {
			span += "-" + task.MinutesToClock(*t.EndMin)
		}
		b.WriteString(timeStyle.Render(span) + " ")
	}

	title := t.Title
	if t.Done {
		title = doneStyle.Render(title)
	}
	b.WriteString(title)

	if p, ok := m.placements[t.ID]; ok && p.Lanes > 1 {
		b.WriteString(" " + laneStyle.Render(fmt.Sprintf("(lane %d/%d)", p.Lane+1, p.Lanes)))
	}
	return b.String()
}

func (m *dayModel) shiftDate(days int) {
	d, err := task.ParseYMD(m.date)
	if err != nil {
		return
	}
	m.date = task.FormatYMD(d.AddDate(0, 0, days))
	m.refresh()
}

func (m *dayModel) refresh() {
	m.tasks = m.repo.TasksOn(m.date)
	m.placements = schedule.Lanes(m.tasks)
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
