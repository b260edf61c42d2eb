// Package physics provides axis-aligned bounding boxes and overlap tests.
package physics

import "math"

// Box is an axis-aligned bounding box in field coordinates.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right one.
type Box struct {
	X1, Y1 float64
	X2, Y2 float64
}

// NewBox creates a box from its top-left corner and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 {
	return (b.X1 + b.X2) / 2
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

// ResizeX returns the box with the given width, keeping the horizontal
// center fixed.
func (b Box) ResizeX(width float64) Box {
	cx := b.CenterX()
	half := width / 2
	return Box{X1: cx - half, Y1: b.Y1, X2: cx + half, Y2: b.Y2}
}

// ClampX shifts the box horizontally so it lies within [minX, maxX].
// A box wider than the range is aligned to minX.
func (b Box) ClampX(minX, maxX float64) Box {
	if b.X1 < minX {
		return b.Translate(minX-b.X1, 0)
	}
	if b.X2 > maxX {
		shifted := b.Translate(maxX-b.X2, 0)
		if shifted.X1 < minX {
			return shifted.Translate(minX-shifted.X1, 0)
		}
		return shifted
	}
	return b
}

// Overlaps reports whether two boxes touch or intersect.
// Edges are inclusive: boxes sharing only a border overlap.
func Overlaps(a, b Box) bool {
	return a.X2 >= b.X1 && a.X1 <= b.X2 && a.Y2 >= b.Y1 && a.Y1 <= b.Y2
}

// BoundsOf returns the smallest box containing all points.
// An empty slice yields the zero box.
func BoundsOf(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	box := Box{
		X1: math.Inf(1), Y1: math.Inf(1),
		X2: math.Inf(-1), Y2: math.Inf(-1),
	}
	for _, p := range points {
		box.X1 = math.Min(box.X1, p.X)
		box.Y1 = math.Min(box.Y1, p.Y)
		box.X2 = math.Max(box.X2, p.X)
		box.Y2 = math.Max(box.Y2, p.Y)
	}
	return box
}

// Point is a 2D coordinate in field space.
type Point struct {
	X, Y float64
}
