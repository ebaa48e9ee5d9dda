// Package viz renders simulation snapshots.
//
// Every renderer maps world coordinates with the same linear remap of
// [-SimRadius, +SimRadius] onto [0, size] (see [Mapper]) and clips points
// falling outside [0, size):
//
//   - [Raster]: grayscale frames written as PNG files or an animated GIF
//   - [Canvas]: Braille-based pixel canvas for terminal output
//   - [LiveModel]: Bubble Tea program stepping the engine on a timer
//   - [SnapshotSVG]: one snapshot as an SVG scatter plot
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
