package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneParameters
	SceneResults
	SceneCompare
	SceneOptimize
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneCompare:
		return "Compare"
	case SceneOptimize:
		return "Target"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// TickMsg advances the loading spinner
type TickMsg struct{}
