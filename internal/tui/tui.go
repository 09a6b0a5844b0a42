// Package tui is the interactive setup wizard: one model per screen,
// a shared wizard state, and navigation messages between screens.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenWelcome screen = iota
	screenUserInput
	screenDirInput
	screenDomainInput
	screenNodeSelect
	screenDatabaseSelect
	screenWebServerSelect
	screenAddonSelect
	screenConfirm
	screenPreflight
	screenProgress
	screenComplete
	screenHelp
)

type navigateMsg struct {
	to screen
}

type resetMsg struct{}

// wizardState collects raw answers as the operator moves through the
// screens; they only become a Configuration on the confirm screen.
type wizardState struct {
	user     string
	dir      string
	domain   string
	node     string
	database string
	webSrv   string
	addons   []string
	firewall bool

	summary    string
	reportPath string
}

type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

type rootModel struct {
	current  screen
	previous screen
	state    *wizardState
	screens  map[screen]screenModel
	width    int
	height   int
	quitting bool
}

// Run starts the wizard and blocks until it exits.
func Run(ctx context.Context) error {
	state := &wizardState{}
	screens := map[screen]screenModel{
		screenWelcome:         newWelcomeModel(),
		screenUserInput:       newUserInputModel(state),
		screenDirInput:        newDirInputModel(state),
		screenDomainInput:     newDomainInputModel(state),
		screenNodeSelect:      newNodeSelectModel(state),
		screenDatabaseSelect:  newDatabaseSelectModel(state),
		screenWebServerSelect: newWebServerSelectModel(state),
		screenAddonSelect:     newAddonSelectModel(state),
		screenConfirm:         newConfirmModel(state),
		screenPreflight:       newPreflightModel(ctx, state),
		screenProgress:        newProgressModel(ctx, state),
		screenComplete:        newCompleteModel(state),
		screenHelp:            newHelpModel(),
	}

	m := rootModel{
		current: screenWelcome,
		state:   state,
		screens: screens,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m rootModel) Init() tea.Cmd {
	return m.screens[m.current].Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			// A run in flight is cancelled, not abandoned: the
			// executor rolls back and the quit happens on runDoneMsg.
			if p, ok := m.screens[screenProgress].(*progressModel); ok && m.current == screenProgress && p.abort() {
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		}
		// Help overlay accessible via '?' from any non-progress screen
		if msg.String() == "?" && m.current != screenProgress && m.current != screenHelp {
			m.previous = m.current
			m.current = screenHelp
			return m, m.screens[m.current].Init()
		}

	case navigateMsg:
		m.current = msg.to
		s := m.screens[m.current]
		return m, s.Init()

	case resetMsg:
		*m.state = wizardState{}
		// Recreate addon select to clear selections
		m.screens[screenAddonSelect] = newAddonSelectModel(m.state)
		m.current = screenUserInput
		return m, m.screens[m.current].Init()

	case helpReturnMsg:
		m.current = m.previous
		return m, nil
	}

	s := m.screens[m.current]
	newScreen, cmd := s.Update(msg)
	m.screens[m.current] = newScreen
	return m, cmd
}

func (m rootModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.screens[m.current]
	content := s.View()

	// Step indicator for the answer screens only
	if m.current >= screenUserInput && m.current <= screenConfirm {
		step := int(m.current)
		total := int(screenConfirm)
		progress := mutedStyle.Render(fmt.Sprintf("Step %d of %d", step, total))
		content = content + "\n" + progress
	}

	return content
}
