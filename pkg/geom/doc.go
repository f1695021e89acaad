// Package geom provides integer rectangle arithmetic used to map grid cells
// onto the display.
//
// Rectangles are half-open: a [Rect] covers the pixels in
// [X, X+W) x [Y, Y+H).
package geom
