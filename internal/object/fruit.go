package object

import (
	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/physics"
)

// Shape is the outline a fruit is drawn with.
type Shape int

const (
	ShapeOval Shape = iota
	ShapeRect
	ShapeTriangle
)

// Shapes lists every shape in spawn order.
var Shapes = []Shape{ShapeOval, ShapeRect, ShapeTriangle}

func (s Shape) String() string {
	switch s {
	case ShapeOval:
		return "oval"
	case ShapeRect:
		return "rect"
	case ShapeTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Fruit is the falling entity. X and Y are the top-left corner of its
// size×size cell.
type Fruit struct {
	Kind  catalog.FruitSpec
	Shape Shape
	X, Y  float64
	Size  float64
}

// NewFruit creates a fruit at the top of the field.
func NewFruit(kind catalog.FruitSpec, shape Shape, x, size float64) *Fruit {
	return &Fruit{
		Kind:  kind,
		Shape: shape,
		X:     x,
		Y:     0,
		Size:  size,
	}
}

// Fall moves the fruit down by dy.
func (f *Fruit) Fall(dy float64) {
	f.Y += dy
}

// Vertices returns the triangle outline: apex at the top centre, base along
// the bottom edge. Only meaningful for ShapeTriangle.
func (f *Fruit) Vertices() []physics.Point {
	return []physics.Point{
		{X: f.X + f.Size/2, Y: f.Y},
		{X: f.X, Y: f.Y + f.Size},
		{X: f.X + f.Size, Y: f.Y + f.Size},
	}
}

// Box returns the fruit's bounding box. Ovals and rectangles use their cell;
// the triangle uses the min/max over its vertices.
func (f *Fruit) Box() physics.Box {
	if f.Shape == ShapeTriangle {
		return physics.BoundsOf(f.Vertices())
	}
	return physics.NewBox(f.X, f.Y, f.Size, f.Size)
}

// Draw renders the fruit in its catalog colour.
func (f *Fruit) Draw(ctx DrawContext) error {
	col := f.Kind.RGB()
	switch f.Shape {
	case ShapeOval:
		ctx.Canvas.FillEllipse(f.X, f.Y, f.X+f.Size, f.Y+f.Size, col)
	case ShapeRect:
		ctx.Canvas.FillRect(f.X, f.Y, f.X+f.Size, f.Y+f.Size, col)
	case ShapeTriangle:
		verts := f.Vertices()
		points := make([]draw.Point, len(verts))
		for i, v := range verts {
			points[i] = draw.Point{X: v.X, Y: v.Y}
		}
		ctx.Canvas.DrawPolygon(points, col, true)
	}
	return nil
}
