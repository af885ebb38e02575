// Package cliprompt renders interactive confirmation prompts for the
// mutating commands (stage, reset, up, down, clone), listing the pending
// changes and asking the operator to confirm before they are applied.
package cliprompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/podo/podo/internal/change"
)

type confirmModel struct {
	title    string
	lines    []string
	cursor   int // 0 = yes, 1 = no
	done     bool
	approved bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "left", "h", "tab":
		m.cursor = 1 - m.cursor
	case "right", "l":
		m.cursor = 1 - m.cursor
	case "y":
		m.approved = true
		m.done = true
		return m, tea.Quit
	case "n", "esc", "ctrl+c":
		m.approved = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.approved = m.cursor == 0
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, l := range m.lines {
		b.WriteString(changeStyle.Render("  " + l))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	yes, no := "Yes", "No"
	if m.cursor == 0 {
		yes = selectedStyle.Render("▶ " + yes)
		no = unselectedStyle.Render("  " + no)
	} else {
		yes = unselectedStyle.Render("  " + yes)
		no = selectedStyle.Render("▶ " + no)
	}
	b.WriteString(yes + "    " + no + "\n")
	return boxStyle.Render(b.String())
}

// ConfirmChanges renders each change's statement and prompts the operator
// to approve or reject applying them. skip bypasses the prompt entirely
// (the --yes flag).
func ConfirmChanges(title string, changes []change.Change, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	if len(changes) == 0 {
		return true, nil
	}
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = fmt.Sprintf("%d. %s", i+1, c.Render())
	}
	m := confirmModel{title: title, lines: lines}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	final := result.(confirmModel)
	return final.approved, nil
}

// Confirm asks a plain yes/no question unrelated to a change list (used by
// reset and clone, which do not have a rendered statement list to show).
func Confirm(title, detail string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	var lines []string
	if detail != "" {
		lines = []string{detail}
	}
	m := confirmModel{title: title, lines: lines}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	final := result.(confirmModel)
	return final.approved, nil
}

// PrintSuccess and PrintError give the cmd package consistent colored
// status lines without each command owning its own lipgloss styling.
func PrintSuccess(text string) string { return successStyle.Render("✓ " + text) }
func PrintError(text string) string   { return errorStyle.Render("✗ " + text) }
