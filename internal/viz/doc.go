// Package viz draws mass-spring scenes in the terminal and as SVG.
//
// Scenes are rendered onto a Braille [Canvas] through a [Viewport] that maps
// the world xy plane to dots. [Model] is a Bubble Tea program that steps a
// scene live.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene
//	V     - Cycle integrator
//	G     - Toggle gravity
//	+/-   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
