package draw

import "github.com/mattn/go-runewidth"

// Fit truncates s so it occupies at most width terminal columns.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// CenterCol returns the 1-based column at which s starts when centered in a
// span of width columns beginning at column 1.
func CenterCol(width int, s string) int {
	col := (width-runewidth.StringWidth(s))/2 + 1
	if col < 1 {
		col = 1
	}
	return col
}

// PadRight pads s with spaces to exactly width columns, truncating if needed.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Fit(s, width), width)
}
