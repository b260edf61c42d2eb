package object

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/physics"
)

// Basket is the player-controlled catcher. Its box always lies within
// [MinX, MaxX] horizontally.
type Basket struct {
	Box      physics.Box
	Expanded bool
	Color    colorful.Color

	MinX, MaxX float64
}

// NewBasket creates a basket of the given size, centered horizontally in
// [minX, maxX] with its top edge at y.
func NewBasket(minX, maxX, y, width, height float64, col colorful.Color) *Basket {
	x := minX + (maxX-minX-width)/2
	return &Basket{
		Box:   physics.NewBox(x, y, width, height),
		Color: col,
		MinX:  minX,
		MaxX:  maxX,
	}
}

// Move shifts the basket horizontally, stopping at the field edges.
func (b *Basket) Move(dx float64) {
	b.Box = b.Box.Translate(dx, 0).ClampX(b.MinX, b.MaxX)
}

// Expand widens the basket by factor about its centre. Returns false and
// changes nothing if it is already expanded.
func (b *Basket) Expand(factor float64) bool {
	if b.Expanded {
		return false
	}
	b.Box = b.Box.ResizeX(b.Box.Width() * factor).ClampX(b.MinX, b.MaxX)
	b.Expanded = true
	return true
}

// Revert undoes Expand with the exact inverse factor. Returns false if the
// basket is not expanded.
func (b *Basket) Revert(factor float64) bool {
	if !b.Expanded {
		return false
	}
	b.Box = b.Box.ResizeX(b.Box.Width() / factor).ClampX(b.MinX, b.MaxX)
	b.Expanded = false
	return true
}

// Draw renders the basket as a filled bar.
func (b *Basket) Draw(ctx DrawContext) error {
	ctx.Canvas.FillRect(b.Box.X1, b.Box.Y1, b.Box.X2, b.Box.Y2, b.Color)
	return nil
}
