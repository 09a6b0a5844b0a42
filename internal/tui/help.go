package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type helpReturnMsg struct{}

type helpModel struct{}

func newHelpModel() *helpModel {
	return &helpModel{}
}

func (m *helpModel) Init() tea.Cmd {
	return nil
}

func (m *helpModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) || msg.String() == "?" || isEnter(msg) || msg.String() == "q" {
			return m, func() tea.Msg { return helpReturnMsg{} }
		}
	}
	return m, nil
}

func (m *helpModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{
			title: "Global",
			keys: []struct{ key, desc string }{
				{"ctrl+c", "Quit immediately"},
				{"?", "Toggle this help screen"},
			},
		},
		{
			title: "Navigation",
			keys: []struct{ key, desc string }{
				{"up / k", "Move up"},
				{"down / j", "Move down"},
				{"left / h", "Previous button"},
				{"right / l", "Next button"},
				{"enter", "Confirm / select"},
				{"esc", "Go back / cancel"},
			},
		},
		{
			title: "Selection Screens",
			keys: []struct{ key, desc string }{
				{"space", "Toggle addon or firewall checkbox"},
				{"enter", "Confirm and proceed"},
			},
		},
	}

	for _, section := range sections {
		b.WriteString(categoryStyle.Render("  " + section.title))
		b.WriteString("\n")
		for _, k := range section.keys {
			b.WriteString(subtitleStyle.Render("    "+k.key) + "  " + mutedStyle.Render(k.desc))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("\n  press ?, esc, or enter to close"))
	return b.String()
}
