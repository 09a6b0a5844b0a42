package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/nodestrap/internal/config"
)

type completeModel struct {
	state  *wizardState
	cursor int // 0=Start Over, 1=Exit
}

func newCompleteModel(state *wizardState) *completeModel {
	return &completeModel{state: state}
}

func (m *completeModel) Init() tea.Cmd {
	m.cursor = 1 // Default to Exit
	return nil
}

func (m *completeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isLeft(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isRight(msg) && m.cursor < 1 {
			m.cursor++
		}
		if isEnter(msg) {
			if m.cursor == 0 {
				return m, func() tea.Msg { return resetMsg{} }
			}
			return m, tea.Quit
		}
		if msg.String() == "q" || isEsc(msg) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *completeModel) View() string {
	var b strings.Builder

	b.WriteString(successStyle.Render("  Setup Complete!"))
	b.WriteString("\n\n")

	user := m.state.user
	if user == "" {
		user = config.DefaultAppUser
	}
	dir := m.state.dir
	if dir == "" {
		dir = config.DefaultAppDir
	}

	b.WriteString(fmt.Sprintf("  Result:      %s\n", selectedStyle.Render(m.state.summary)))
	b.WriteString(fmt.Sprintf("  Domain:      %s\n", normalStyle.Render(m.state.domain)))
	b.WriteString(fmt.Sprintf("  Directory:   %s\n", normalStyle.Render(dir)))
	if m.state.reportPath != "" {
		b.WriteString(fmt.Sprintf("  Report:      %s\n", normalStyle.Render(m.state.reportPath)))
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Next Steps"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ sudo -u %s git clone <repo> %s   # deploy your application", user, dir)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ %s/deploy.sh                     # build and (re)start it", dir)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ nodestrap doctor                 # re-check the host"))
	b.WriteString("\n\n")

	buttons := []string{"Start Over", "Exit"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}

	b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select  q: quit"))
	return b.String()
}
