package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/nodestrap/internal/catalog"
	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepApplied
	stepSkipped
	stepFailed
	stepRolledBack
)

type progressRow struct {
	id     string
	label  string
	status stepStatus
	errMsg string
}

// chanObserver forwards executor events into the bubbletea loop.
type chanObserver struct {
	ch chan tea.Msg
}

type stepStartedMsg struct{ id string }
type stepFinishedMsg struct{ res engine.StepResult }
type rollbackMsg struct {
	id  string
	err error
}
type runDoneMsg struct{ report *engine.Report }

func (o chanObserver) StepStarted(id, label string) { o.ch <- stepStartedMsg{id: id} }
func (o chanObserver) StepFinished(res engine.StepResult) {
	o.ch <- stepFinishedMsg{res: res}
}
func (o chanObserver) RollbackStarted(id string) {}
func (o chanObserver) RollbackFinished(id string, err error) {
	o.ch <- rollbackMsg{id: id, err: err}
}

const wizardReportPath = "nodestrap-report.yaml"

type progressModel struct {
	ctx       context.Context
	cancel    context.CancelFunc
	state     *wizardState
	spinner   spinner.Model
	rows      []progressRow
	index     map[string]int
	events    chan tea.Msg
	done      bool
	cancelled bool
	errMsg    string
}

func newProgressModel(ctx context.Context, state *wizardState) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &progressModel{
		ctx:     ctx,
		state:   state,
		spinner: sp,
	}
}

func (m *progressModel) Init() tea.Cmd {
	m.rows = nil
	m.index = map[string]int{}
	m.done = false
	m.cancelled = false
	m.errMsg = ""
	m.events = make(chan tea.Msg, 16)

	cfg, err := config.Resolve(config.Answers{
		AppUser:     m.state.user,
		AppDir:      m.state.dir,
		Domain:      m.state.domain,
		NodeVersion: m.state.node,
		Database:    m.state.database,
		WebServer:   m.state.webSrv,
		Addons:      m.state.addons,
		Firewall:    m.state.firewall,
	})
	if err != nil {
		m.done = true
		m.errMsg = err.Error()
		return nil
	}

	reg := catalog.Build()
	plan, err := engine.Plan(cfg, reg)
	if err != nil {
		m.done = true
		m.errMsg = err.Error()
		return nil
	}

	for _, id := range plan.StepIDs {
		label := id
		if s, ok := reg.Step(id); ok {
			label = s.Label
		}
		m.index[id] = len(m.rows)
		m.rows = append(m.rows, progressRow{id: id, label: label})
	}

	exec := engine.NewExecutor(reg, engine.Options{
		Observer: chanObserver{ch: m.events},
	})
	rc := &engine.RunContext{
		Runner: host.NewExecRunner(),
		FS:     host.NewOSFS(),
		Config: cfg,
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	go func() {
		report := exec.Execute(runCtx, plan, rc)
		m.events <- runDoneMsg{report: report}
	}()

	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// abort cancels the in-flight run and reports whether one was
// cancelled. The executor sees the cancellation between steps, rolls
// back, and the terminal runDoneMsg still arrives.
func (m *progressModel) abort() bool {
	if m.done || m.cancel == nil {
		return false
	}
	m.cancelled = true
	m.cancel()
	return true
}

func (m *progressModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *progressModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepStartedMsg:
		if i, ok := m.index[msg.id]; ok {
			m.rows[i].status = stepRunning
		}
		return m, m.waitForEvent()

	case stepFinishedMsg:
		if i, ok := m.index[msg.res.ID]; ok {
			switch msg.res.Outcome {
			case engine.OutcomeApplied:
				m.rows[i].status = stepApplied
			case engine.OutcomeSkipped:
				m.rows[i].status = stepSkipped
			case engine.OutcomeFailed:
				m.rows[i].status = stepFailed
				m.rows[i].errMsg = msg.res.Err
			}
		}
		return m, m.waitForEvent()

	case rollbackMsg:
		if i, ok := m.index[msg.id]; ok {
			m.rows[i].status = stepRolledBack
			if msg.err != nil {
				m.rows[i].errMsg = msg.err.Error()
			}
		}
		return m, m.waitForEvent()

	case runDoneMsg:
		m.done = true
		m.state.summary = msg.report.Summary()
		m.state.reportPath = wizardReportPath
		if err := msg.report.Save(wizardReportPath); err != nil {
			m.state.reportPath = ""
		}
		if m.cancelled {
			return m, tea.Quit
		}
		if msg.report.Status() == engine.StatusProvisioned {
			return m, func() tea.Msg { return navigateMsg{to: screenComplete} }
		}
		m.errMsg = msg.report.Summary()
		return m, nil

	case tea.KeyMsg:
		if m.done && m.errMsg != "" {
			if isEnter(msg) || isEsc(msg) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Provisioning"))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		var icon string
		switch row.status {
		case stepPending:
			icon = mutedStyle.Render("  ")
		case stepRunning:
			icon = m.spinner.View()
		case stepApplied:
			icon = successStyle.Render("OK")
		case stepSkipped:
			icon = mutedStyle.Render("--")
		case stepFailed:
			icon = errorStyle.Render("XX")
		case stepRolledBack:
			icon = warningStyle.Render("<<")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, normalStyle.Render(row.label)))
		if row.errMsg != "" {
			b.WriteString(fmt.Sprintf("       %s\n", errorStyle.Render(row.errMsg)))
		}
	}

	if m.cancelled && !m.done {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("  interrupt received, rolling back applied steps..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + m.errMsg))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\n  press enter or esc to exit"))
	}

	return b.String()
}
