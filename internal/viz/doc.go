// Package viz renders solve results for the terminal.
//
// The package builds on lipgloss and Bubble Tea:
//
//   - [RenderResult]: boxed panels with roots and departure functions
//   - [App]: interactive form to pick a model and molecule and solve
//   - [Canvas]: Braille-based pixel canvas used for the isotherm preview
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	j/k   - Move selection
//	Enter - Select or edit a field
//	h/l   - Nudge the selected value
//	S     - Solve
//	R     - Replay the last solved inputs
//	I     - Toggle the isotherm preview
//	T     - Cycle color themes
//	Esc   - Back
//
// The last solved inputs are held in memory for the session only.
package viz
