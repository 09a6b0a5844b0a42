package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type addonRow struct {
	name string
	desc string
}

type addonSelectModel struct {
	state    *wizardState
	rows     []addonRow
	cursor   int
	selected map[string]bool
	depMsg   string
}

func newAddonSelectModel(state *wizardState) *addonSelectModel {
	return &addonSelectModel{
		state:    state,
		selected: map[string]bool{},
		rows: []addonRow{
			{name: "docker", desc: "Docker Engine; MongoDB runs as a pinned container with it"},
			{name: "redis", desc: "Redis server for caching and sessions"},
			{name: "tls", desc: "Let's Encrypt certificate via certbot, with HTTP redirect"},
			{name: "fail2ban", desc: "Brute-force protection for SSH"},
		},
	}
}

func (m *addonSelectModel) Init() tea.Cmd {
	for _, a := range m.state.addons {
		m.selected[a] = true
	}
	return nil
}

func (m *addonSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenWebServerSelect} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		if isSpace(msg) {
			name := m.rows[m.cursor].name
			m.depMsg = ""
			if m.selected[name] {
				delete(m.selected, name)
			} else {
				m.selected[name] = true
				if name == "docker" && m.state.database == "mongodb" {
					m.depMsg = "MongoDB will run as a Docker container"
				}
				if name == "tls" {
					m.depMsg = fmt.Sprintf("certbot will configure %s for %s", m.state.webSrv, m.state.domain)
				}
			}
		}
		if isEnter(msg) {
			m.state.addons = nil
			for name := range m.selected {
				m.state.addons = append(m.state.addons, name)
			}
			sort.Strings(m.state.addons)
			return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }
		}
	}
	return m, nil
}

func (m *addonSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select Addons"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Optional components; anything a selection needs is pulled in automatically."))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		check := checkOff
		if m.selected[row.name] {
			check = checkOn
		}

		prefix := "  "
		label := normalStyle.Render(row.name)
		if i == m.cursor {
			prefix = cursorChar
			label = selectedStyle.Render(row.name)
		}

		b.WriteString(fmt.Sprintf("  %s %s %s\n", prefix, check, label))
		b.WriteString(fmt.Sprintf("          %s\n", mutedStyle.Render(row.desc)))
	}

	if m.depMsg != "" {
		b.WriteString("\n  " + warningStyle.Render(m.depMsg))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  space: toggle  enter: confirm  esc: back"))
	return b.String()
}
