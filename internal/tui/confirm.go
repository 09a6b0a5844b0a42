package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/nodestrap/internal/config"
)

type confirmModel struct {
	state  *wizardState
	cursor int
}

func newConfirmModel(state *wizardState) *confirmModel {
	return &confirmModel{state: state}
}

func (m *confirmModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenAddonSelect} }
		}
		if isSpace(msg) {
			m.state.firewall = !m.state.firewall
		}
		if (isLeft(msg) || isUp(msg)) && m.cursor > 0 {
			m.cursor--
		}
		if (isRight(msg) || isDown(msg)) && m.cursor < 2 {
			m.cursor++
		}
		if isEnter(msg) {
			switch m.cursor {
			case 0: // Confirm
				return m, func() tea.Msg { return navigateMsg{to: screenPreflight} }
			case 1: // Back
				return m, func() tea.Msg { return navigateMsg{to: screenAddonSelect} }
			case 2: // Cancel
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Confirm Setup"))
	b.WriteString("\n\n")

	user := m.state.user
	if user == "" {
		user = config.DefaultAppUser
	}
	dir := m.state.dir
	if dir == "" {
		dir = config.DefaultAppDir
	}

	b.WriteString(subtitleStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  User:        %s\n", selectedStyle.Render(user)))
	b.WriteString(fmt.Sprintf("  Directory:   %s\n", selectedStyle.Render(dir)))
	b.WriteString(fmt.Sprintf("  Domain:      %s\n", selectedStyle.Render(m.state.domain)))
	b.WriteString(fmt.Sprintf("  Node.js:     %s\n", selectedStyle.Render(m.state.node)))
	b.WriteString(fmt.Sprintf("  Database:    %s\n", selectedStyle.Render(m.state.database)))
	b.WriteString(fmt.Sprintf("  Web server:  %s\n", selectedStyle.Render(m.state.webSrv)))

	if len(m.state.addons) > 0 {
		b.WriteString(fmt.Sprintf("  Addons:      %s\n", selectedStyle.Render(strings.Join(m.state.addons, ", "))))
	} else {
		b.WriteString(fmt.Sprintf("  Addons:      %s\n", mutedStyle.Render("(none)")))
	}

	firewall := checkOff
	if m.state.firewall {
		firewall = checkOn
	}
	b.WriteString(fmt.Sprintf("  %s Enable UFW firewall (allow OpenSSH and web)\n", firewall))

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Equivalent CLI Command"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ " + m.cliCommand(user, dir)))
	b.WriteString("\n\n")

	buttons := []string{"Confirm", "Back", "Cancel"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("\n  space: toggle firewall  left/right: navigate  enter: select  esc: back"))
	return b.String()
}

func (m *confirmModel) cliCommand(user, dir string) string {
	parts := []string{
		"nodestrap provision",
		"--domain " + m.state.domain,
		"--user " + user,
		"--dir " + dir,
		"--node " + m.state.node,
		"--database " + m.state.database,
		"--webserver " + m.state.webSrv,
	}
	if len(m.state.addons) > 0 {
		parts = append(parts, "--addons "+strings.Join(m.state.addons, ","))
	}
	if m.state.firewall {
		parts = append(parts, "--yes")
	}
	return strings.Join(parts, " ")
}
