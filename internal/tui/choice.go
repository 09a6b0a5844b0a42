package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/nodestrap/internal/config"
)

type choiceOption struct {
	value string
	label string
	desc  string
}

// choiceModel is the shared single-choice screen used by the runtime,
// database, and web server questions.
type choiceModel struct {
	state   *wizardState
	cursor  int
	title   string
	desc    string
	options []choiceOption
	get     func(*wizardState) string
	set     func(*wizardState, string)
	back    screen
	next    screen
}

func (m *choiceModel) Init() tea.Cmd {
	// Restore cursor position if going back
	for i, opt := range m.options {
		if opt.value == m.get(m.state) {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *choiceModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: m.back} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.set(m.state, m.options[m.cursor].value)
			return m, func() tea.Msg { return navigateMsg{to: m.next} }
		}
	}
	return m, nil
}

func (m *choiceModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.desc))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}

func newNodeSelectModel(state *wizardState) *choiceModel {
	opts := make([]choiceOption, 0, len(config.NodeVersions))
	for _, v := range config.NodeVersions {
		desc := "Node.js " + v + ".x from NodeSource"
		if v == config.DefaultNodeVersion {
			desc += " (recommended)"
		}
		opts = append(opts, choiceOption{value: v, label: "Node.js " + v, desc: desc})
	}
	return &choiceModel{
		state:   state,
		title:   "Node.js Runtime",
		desc:    "Major version installed from the NodeSource repository.",
		options: opts,
		get:     func(s *wizardState) string { return s.node },
		set:     func(s *wizardState, v string) { s.node = v },
		back:    screenDomainInput,
		next:    screenDatabaseSelect,
	}
}

func newDatabaseSelectModel(state *wizardState) *choiceModel {
	return &choiceModel{
		state: state,
		title: "Database",
		desc:  "Database server installed alongside the application.",
		options: []choiceOption{
			{value: "postgresql", label: "PostgreSQL", desc: "Relational, with an app user and database created"},
			{value: "mysql", label: "MySQL", desc: "Relational, with an app user and database created"},
			{value: "mongodb", label: "MongoDB", desc: "Document store; runs as a container when Docker is selected"},
			{value: "none", label: "None", desc: "The application brings its own data layer"},
		},
		get:  func(s *wizardState) string { return s.database },
		set:  func(s *wizardState, v string) { s.database = v },
		back: screenNodeSelect,
		next: screenWebServerSelect,
	}
}

func newWebServerSelectModel(state *wizardState) *choiceModel {
	return &choiceModel{
		state: state,
		title: "Web Server",
		desc:  "Reverse proxy in front of the application, with websocket support.",
		options: []choiceOption{
			{value: "nginx", label: "nginx", desc: "Site in sites-available, enabled via symlink"},
			{value: "apache", label: "Apache", desc: "Virtual host with mod_proxy and mod_rewrite"},
		},
		get:  func(s *wizardState) string { return s.webSrv },
		set:  func(s *wizardState, v string) { s.webSrv = v },
		back: screenDatabaseSelect,
		next: screenAddonSelect,
	}
}
