// Package viz renders benchmark reports and a live side-by-side view of the
// two particle layouts in the terminal.
//
//   - [RenderReport], [RenderSpeedups]: lipgloss tables
//   - [Chart]: asciigraph plot of ns/particle against particle count
//   - [LiveModel]: Bubble Tea program stepping an AoS and an SoA system
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild both systems
//	Q     - Quit
package viz
