// Package game provides the interactive sewer viewer loop and its state.
package game

// State represents what the viewer is showing.
type State int

const (
	// StateView shows a generated sewer.
	StateView State = iota
	// StateFailed shows the error from the last generation.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateView:
		return "view"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
