package object

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/draw"
)

// Text is a simple drawable text object.
// Coordinates are 1-based terminal positions.
type Text struct {
	X     int
	Y     int
	Value string

	Fg, Bg colorful.Color
	Styled bool // Apply Fg/Bg; otherwise the terminal's current colours are used
}

// Draw writes the text at its position using ANSI cursor movement.
func (t Text) Draw(w io.Writer) error {
	if t.Value == "" {
		return nil
	}
	x := t.X
	y := t.Y
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	value := t.Value
	if t.Styled {
		value = draw.Fg(t.Fg) + draw.Bg(t.Bg) + value + draw.ResetStyle
	}
	if _, err := fmt.Fprintf(w, "\033[%d;%dH%s", y, x, value); err != nil {
		return err
	}
	return nil
}

// Centered returns a copy of the text horizontally centered in a span of
// width columns starting at column left.
func (t Text) Centered(left, width int) Text {
	t.X = left + draw.CenterCol(width, t.Value) - 1
	return t
}
