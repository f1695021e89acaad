package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a subdivision is requested with a
// non-positive number of columns or rows.
var ErrInvalidArgument = errors.New("invalid argument")

// Point is a position in pixel (or terminal cell) coordinates.
type Point struct {
	X int `json:"x" jsonschema:"title=X"`
	Y int `json:"y" jsonschema:"title=Y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect describes a rectangle using a top-left origin and a size.
type Rect struct {
	// X is the left edge.
	X int `json:"x" jsonschema:"title=X"`
	// Y is the top edge.
	Y int `json:"y" jsonschema:"title=Y"`
	// W is the width.
	W int `json:"width" jsonschema:"title=Width,minimum=0"`
	// H is the height.
	H int `json:"height" jsonschema:"title=Height,minimum=0"`
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints returns the rectangle spanned by two arbitrary corner points.
// Each axis is normalized independently, so the result never has a negative
// width or height.
func RectFromPoints(p0, p1 Point) Rect {
	left, right := min(p0.X, p1.X), max(p0.X, p1.X)
	top, bottom := min(p0.Y, p1.Y), max(p0.Y, p1.Y)

	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner (exclusive).
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns W*H, or 0 for empty rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}

	return r.W * r.H
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersects reports whether r and o share at least one pixel.
// Empty rectangles never intersect anything.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}

	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	lo := Point{X: min(r.X, o.X), Y: min(r.Y, o.Y)}
	rMax, oMax := r.Max(), o.Max()
	hi := Point{X: max(rMax.X, oMax.X), Y: max(rMax.Y, oMax.Y)}

	return Rect{X: lo.X, Y: lo.Y, W: hi.X - lo.X, H: hi.Y - lo.Y}
}

// Shrink removes m from every side of r. A negative m grows the rectangle.
func (r Rect) Shrink(m int) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, W: r.W - 2*m, H: r.H - 2*m}
}

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	r.X += p.X
	r.Y += p.Y

	return r
}

// String formats the rectangle as an X11 geometry string, e.g. "800x600+10+20".
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", r.W, r.H, r.X, r.Y)
}

// BoundingRect returns the smallest rectangle containing a and b. When either
// argument is nil, the other one is returned unchanged.
func BoundingRect(a, b *Rect) *Rect {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	u := a.Union(*b)

	return &u
}

// Subdivide splits bounds into a rows x cols grid of equally sized cells.
// The result is indexed as grid[y][x]. Cells are floor(W/cols) by
// floor(H/rows); remainder pixels on the right and bottom edges are not
// covered by any cell.
func Subdivide(bounds Rect, cols, rows int) ([][]Rect, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: subdivide %dx%d", ErrInvalidArgument, cols, rows)
	}

	dx := bounds.W / cols
	dy := bounds.H / rows

	cells := make([][]Rect, rows)
	for y := range rows {
		cells[y] = make([]Rect, cols)
		for x := range cols {
			cells[y][x] = Rect{
				X: bounds.X + dx*x,
				Y: bounds.Y + dy*y,
				W: dx,
				H: dy,
			}
		}
	}

	return cells, nil
}
