package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/nodestrap/internal/config"
)

var (
	userRegex   = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)
	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*\.)+[a-zA-Z]{2,}$`)
)

// inputModel is the shared text-entry screen. Each instance binds one
// wizardState field via get/set and validates on enter.
type inputModel struct {
	state *wizardState
	input textinput.Model

	title    string
	desc     string
	required bool
	validate func(string) string
	get      func(*wizardState) string
	set      func(*wizardState, string)
	back     screen
	next     screen

	errMsg string
}

func (m *inputModel) Init() tea.Cmd {
	if v := m.get(m.state); v != "" {
		m.input.SetValue(v)
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *inputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: m.back} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" && m.required {
				m.errMsg = "Required"
				return m, nil
			}
			if val != "" && m.validate != nil {
				if e := m.validate(val); e != "" {
					m.errMsg = e
					return m, nil
				}
			}
			m.errMsg = ""
			m.set(m.state, val)
			return m, func() tea.Msg { return navigateMsg{to: m.next} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.desc))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: confirm  esc: back"))
	return b.String()
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func newUserInputModel(state *wizardState) *inputModel {
	return &inputModel{
		state: state,
		input: newTextInput(config.DefaultAppUser, 32),
		title: "Application User",
		desc:  "System account the application runs as. Empty keeps the default.",
		validate: func(v string) string {
			if !userRegex.MatchString(v) {
				return "Invalid user name"
			}
			return ""
		},
		get:  func(s *wizardState) string { return s.user },
		set:  func(s *wizardState, v string) { s.user = v },
		back: screenWelcome,
		next: screenDirInput,
	}
}

func newDirInputModel(state *wizardState) *inputModel {
	return &inputModel{
		state: state,
		input: newTextInput(config.DefaultAppDir, 200),
		title: "Application Directory",
		desc:  "Where the application code and artifacts live.",
		validate: func(v string) string {
			if !strings.HasPrefix(v, "/") {
				return "Must be an absolute path"
			}
			return ""
		},
		get:  func(s *wizardState) string { return s.dir },
		set:  func(s *wizardState, v string) { s.dir = v },
		back: screenUserInput,
		next: screenDomainInput,
	}
}

func newDomainInputModel(state *wizardState) *inputModel {
	return &inputModel{
		state:    state,
		input:    newTextInput("example.com", 253),
		title:    "Domain",
		desc:     "Public domain the web server answers on.",
		required: true,
		validate: func(v string) string {
			if !domainRegex.MatchString(v) {
				return "Invalid domain format"
			}
			return ""
		},
		get:  func(s *wizardState) string { return s.domain },
		set:  func(s *wizardState, v string) { s.domain = v },
		back: screenDirInput,
		next: screenNodeSelect,
	}
}
