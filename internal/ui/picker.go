// Package ui provides the interactive terminal frontend for fix selection.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FixItem is one selectable fix candidate.
type FixItem struct {
	ID       string
	Headline string // short fix title
	Location string // path:line:col plus the diagnostic message
}

func (i FixItem) Title() string       { return i.Headline }
func (i FixItem) Description() string { return i.Location }
func (i FixItem) FilterValue() string { return i.Headline + " " + i.Location }

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type pickerModel struct {
	list   list.Model
	choice int
}

func newPickerModel(items []FixItem) *pickerModel {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = it
	}
	delegate := list.NewDefaultDelegate()
	l := list.New(entries, delegate, 80, 20)
	l.Title = "select a fix to apply"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return &pickerModel{list: l, choice: -1}
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if !m.list.SettingFilter() {
				m.choice = m.list.Index()
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			if !m.list.SettingFilter() {
				m.choice = -1
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	return m.list.View() + "\n" + helpStyle.Render("enter: apply  q: cancel")
}

// PickFix presents the candidates and returns the index of the chosen one,
// or -1 when the user cancelled.
func PickFix(items []FixItem) (int, error) {
	if len(items) == 0 {
		return -1, nil
	}
	model := newPickerModel(items)
	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if err != nil {
		return -1, fmt.Errorf("fix picker: %w", err)
	}
	picked, ok := final.(*pickerModel)
	if !ok {
		return -1, nil
	}
	return picked.choice, nil
}
