package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a colour buffer with 2x vertical resolution using half-block characters.
// Each terminal cell holds two sub-pixels: the upper one is drawn with the
// foreground colour, the lower one with the background colour.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int              // Actual terminal columns
	termHeight     int              // Actual terminal rows
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	numBuf          [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]colorful.Color, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear fills every pixel with the background colour.
func (c *Canvas) Clear(bg colorful.Color) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
}

// At returns the colour of a sub-pixel in actual terminal coordinates.
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return colorful.Color{}
	}
	return c.pixels[y*c.termWidth+x]
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col colorful.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, col colorful.Color) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, col)
}

// FillRect fills the logical rectangle spanning (x1, y1) to (x2, y2).
func (c *Canvas) FillRect(x1, y1, x2, y2 float64, col colorful.Color) {
	px1, px2 := c.spanX(x1, x2)
	py1, py2 := c.spanY(y1, y2)
	for y := py1; y <= py2; y++ {
		for x := px1; x <= px2; x++ {
			c.setPixel(x, y, col)
		}
	}
}

// FillEllipse fills the ellipse inscribed in the logical rectangle
// spanning (x1, y1) to (x2, y2).
func (c *Canvas) FillEllipse(x1, y1, x2, y2 float64, col colorful.Color) {
	cx := (x1 + x2) / 2 * c.scaleX
	cy := (y1 + y2) / 2 * c.scaleY
	rx := (x2 - x1) / 2 * c.scaleX
	ry := (y2 - y1) / 2 * c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}

	px1, px2 := c.spanX(x1, x2)
	py1, py2 := c.spanY(y1, y2)
	for y := py1; y <= py2; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := px1; x <= px2; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y, col)
			}
		}
	}
	// Tiny ellipses may not cover any pixel center.
	c.setPixel(int(cx), int(cy), col)
}

func (c *Canvas) spanX(x1, x2 float64) (int, int) {
	return int(math.Floor(x1 * c.scaleX)), int(math.Ceil(x2*c.scaleX)) - 1
}

func (c *Canvas) spanY(y1, y2 float64) (int, int) {
	return int(math.Floor(y1 * c.scaleY)), int(math.Ceil(y2*c.scaleY)) - 1
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, col colorful.Color, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon using scanline algorithm in pixel space.
func (c *Canvas) fillPolygon(points []Point, col colorful.Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Stays under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using upper half-blocks in 24-bit colour.
// Colour escapes are only emitted when they change along a row.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	for row := 0; row < c.termHeight; row++ {
		c.moveTo(row+1+c.offsetRow, 1+c.offsetCol)

		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		var lastFg, lastBg rgb
		first := true

		for col := 0; col < c.termWidth; col++ {
			fg := toRGB(c.pixels[topOffset+col])
			bg := toRGB(c.pixels[bottomOffset+col])

			if first || fg != lastFg {
				c.writeColor(38, fg)
				lastFg = fg
			}
			if first || bg != lastBg {
				c.writeColor(48, bg)
				lastBg = bg
			}
			first = false
			c.renderBuf.WriteRune(BlockUpperHalf)
		}
		c.renderBuf.WriteString(ResetStyle)
	}

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveTo(row, col int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends an SGR truecolor sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) writeColor(layer int, v rgb) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(v.b), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when there is room
// for it on both axes.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*6 + c.termHeight*24)

	line := strings.Repeat("─", c.termWidth)
	buf.WriteString(MoveTo(left, top) + "┌" + line + "┐")
	buf.WriteString(MoveTo(left, bottom) + "└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		buf.WriteString(MoveTo(left, row) + "│" + MoveTo(right, row) + "│")
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

type rgb struct {
	r, g, b uint8
}

func toRGB(col colorful.Color) rgb {
	r, g, b := col.Clamped().RGB255()
	return rgb{r, g, b}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
