// Package gfx provides the 2D drawing context shared by every renderer.
//
// The model follows the HTML canvas API closely enough that drawing code
// reads the same regardless of the backend:
//
//   - [Context]: transform stack, path building, fill/stroke, text
//   - [Canvas2D]: the Context implementation, built on a [Painter]
//   - [Painter]: the minimal device-space backend (polyline, polygon, text)
//   - [Recorder]: an in-memory Painter that records the draw sequence
//
// Backends only implement [Painter]. Coordinates handed to a Painter are
// device pixels: the current transform has already been applied, and any
// path containing a NaN or infinite coordinate is dropped before it gets
// there.
package gfx
