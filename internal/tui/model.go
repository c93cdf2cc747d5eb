// Package tui implements the live terminal dashboard. It is a pure consumer
// of the monitoring aggregator: every keystroke mutates the selection store
// or the window preset, and the view re-renders from the next settled
// overview snapshot.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/monitor"
	"github.com/shelfwatch/shelfwatch/internal/selection"
)

// refreshEvery drives the passive snapshot poll while the dashboard is open.
const refreshEvery = 30 * time.Second

// Config holds the dashboard dependencies.
type Config struct {
	Aggregator *monitor.Aggregator
	Selection  *selection.Store
}

type overviewMsg monitor.Overview

type triggeredMsg struct {
	jobID string
	err   error
}

type tickMsg time.Time

// Model holds the dashboard TUI state.
type Model struct {
	aggregator *monitor.Aggregator
	selection  *selection.Store
	keymap     KeyMap
	spinner    spinner.Model

	overview monitor.Overview
	notice   string
	cursor   int
	width    int
	height   int
	loaded   bool
	loading  bool
	quitting bool
}

// newModel creates the dashboard model.
func newModel(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		aggregator: cfg.Aggregator,
		selection:  cfg.Selection,
		keymap:     DefaultKeyMap(),
		spinner:    sp,
		loading:    true,
	}
}

// Init starts the first snapshot and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.snapshotCmd(), tickCmd())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case overviewMsg:
		m.overview = monitor.Overview(msg)
		m.loaded = true
		m.loading = false
		m.clampCursor()
		return m, nil

	case triggeredMsg:
		if msg.err != nil {
			m.notice = "trigger failed: " + msg.err.Error()
		} else {
			m.notice = "monitoring run queued (job " + msg.jobID + ")"
		}
		return m, m.snapshotCmd()

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, km.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, km.Down):
		if m.cursor < len(m.activeRetailers())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, km.Select):
		retailers := m.activeRetailers()
		if m.cursor >= len(retailers) {
			return m, nil
		}
		code := retailers[m.cursor].Code
		if m.overview.Selection.Mode == selection.ModeMulti {
			m.selection.ToggleMultiMember(code)
		} else {
			m.selection.SetSingle(code)
		}
		m.loading = true
		return m, m.snapshotCmd()

	case key.Matches(msg, km.ToggleMode):
		m.selection.SetMode(m.overview.Selection.Mode != selection.ModeMulti)
		m.loading = true
		return m, m.snapshotCmd()

	case key.Matches(msg, km.WindowDay):
		m.aggregator.SetWindowPreset(model.WindowDay)
		m.loading = true
		return m, m.snapshotCmd()

	case key.Matches(msg, km.WindowWeek):
		m.aggregator.SetWindowPreset(model.WindowWeek)
		m.loading = true
		return m, m.snapshotCmd()

	case key.Matches(msg, km.WindowMonth):
		m.aggregator.SetWindowPreset(model.WindowMonth)
		m.loading = true
		return m, m.snapshotCmd()

	case key.Matches(msg, km.Trigger):
		scope := ""
		if m.overview.Selection.Mode == selection.ModeSingle {
			scope = m.overview.Selection.Single
		}
		return m, m.triggerCmd(scope)

	case key.Matches(msg, km.Refresh):
		m.aggregator.RetryAll()
		m.loading = true
		return m, m.snapshotCmd()
	}

	return m, nil
}

func (m Model) activeRetailers() []model.Retailer {
	return m.selection.ActiveRetailers()
}

func (m *Model) clampCursor() {
	if n := len(m.activeRetailers()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	agg := m.aggregator
	return func() tea.Msg {
		return overviewMsg(agg.Snapshot(context.Background()))
	}
}

func (m Model) triggerCmd(scope string) tea.Cmd {
	agg := m.aggregator
	return func() tea.Msg {
		ack, err := agg.TriggerMonitoring(context.Background(), scope)
		if err != nil {
			return triggeredMsg{err: err}
		}
		return triggeredMsg{jobID: ack.JobID}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
