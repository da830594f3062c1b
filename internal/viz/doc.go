// Package viz runs simulations in a terminal using Bubble Tea.
//
//   - [Canvas]: braille dot grid implementing gfx.Painter, so simulations
//     draw into the terminal through the same context they use elsewhere
//   - [Live]: one simulation driver with a parameter sidebar
//   - [Menu]: simulation and preset picker in front of [Live]
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the run
//	C     - Toggle challenge mode
//	Tab   - Select parameter
//	Up/Dn - Tune selected parameter
//	N     - Next simulation
//	T     - Cycle themes
//
// Mouse drags reach the simulation's on-canvas handles.
package viz
