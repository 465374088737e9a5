package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		m.optimizeModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case TickMsg:
		m.spinner.Next()
		m.optimizeModel.Tick()
		return m, tickCmd()

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.InputLoadedMsg:
		m.loaded = msg.Input
		m.parametersModel.SetInput(msg.Input)
		return m.recalculate(msg.Input, false)

	case tuimsg.ParametersAppliedMsg:
		return m.recalculate(msg.Input, true)

	case tuimsg.ParametersResetMsg:
		if m.loaded == nil {
			return m, nil
		}
		m.parametersModel.SetInput(m.loaded)
		return m.recalculate(m.loaded, false)

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.report = msg.Report
		m.homeModel.SetReport(msg.Report)
		m.resultsModel.SetReport(msg.Report)
		m.optimizeModel.SetReport(m.current, msg.Report)
		return m, nil

	case tuimsg.ComparisonRequestedMsg:
		if m.current == nil {
			m.compareModel.SetComparing(false)
			return m, nil
		}
		return m, compareCmd(m.engine, m.reference.Snapshot(), m.current, msg.Templates)

	case tuimsg.ComparisonCompleteMsg:
		if msg.Err != nil {
			m.compareModel.SetComparing(false)
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetResults(msg.Set)
		return m, nil

	case tuimsg.OptimizationRequestedMsg:
		if m.current == nil {
			m.optimizeModel.SetResult(tuimsg.OptimizationCompleteMsg{Target: msg.Target})
			return m, nil
		}
		return m, optimizeCmd(m.engine, m.reference.Snapshot(), m.current, msg.Target)

	case tuimsg.OptimizationCompleteMsg:
		m.optimizeModel.SetResult(msg)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// recalculate makes input the current one and projects it
func (m Model) recalculate(input *domain.ProjectionInput, modified bool) (tea.Model, tea.Cmd) {
	m.current = input
	m.report = nil
	m.loading = true
	m.loadingMessage = "Calculating..."
	m.homeModel.SetInput(input, modified)
	m.homeModel.SetReport(nil)
	return m, calculateCmd(m.engine, m.reference.Snapshot(), input)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// Any key dismisses the error
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m.navigate(SceneHelp)

	case "esc":
		if m.currentScene == SceneHome {
			return m, nil
		}
		if m.previousScene != m.currentScene && m.previousScene != SceneHelp {
			return m.navigate(m.previousScene)
		}
		return m.navigate(SceneHome)

	case "h":
		return m.navigate(SceneHome)
	case "p":
		return m.navigate(SceneParameters)
	case "r":
		return m.navigate(SceneResults)
	case "c":
		return m.navigate(SceneCompare)
	case "o":
		return m.navigate(SceneOptimize)
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if scene == m.currentScene {
		return m, nil
	}
	return m, func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneOptimize:
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
	}
	return m, cmd
}
