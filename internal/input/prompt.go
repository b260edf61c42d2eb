package input

import (
	"strings"
	"unicode/utf8"
)

// LineEditor accumulates typed runes into a single-line answer.
type LineEditor struct {
	buf   []rune
	limit int
	done  bool
}

// NewLineEditor creates an editor accepting at most limit runes.
// A non-positive limit means no limit.
func NewLineEditor(initial string, limit int) *LineEditor {
	e := &LineEditor{limit: limit}
	for _, r := range initial {
		e.insert(r)
	}
	return e
}

// Feed applies events to the line. Enter completes it and the events after
// it are returned untouched for whoever reads input next.
func (e *LineEditor) Feed(events []Event) []Event {
	for i, ev := range events {
		if e.done {
			return events[i:]
		}
		switch {
		case ev.Key == KeyEnter:
			e.done = true
		case ev.Key == KeyBackspace:
			if len(e.buf) > 0 {
				e.buf = e.buf[:len(e.buf)-1]
			}
		case ev.Rune != 0:
			e.insert(ev.Rune)
		}
	}
	return nil
}

func (e *LineEditor) insert(r rune) {
	if r == utf8.RuneError || r < ' ' {
		return
	}
	if e.limit > 0 && len(e.buf) >= e.limit {
		return
	}
	e.buf = append(e.buf, r)
}

// Done reports whether Enter has been pressed.
func (e *LineEditor) Done() bool {
	return e.done
}

// Text returns the current line.
func (e *LineEditor) Text() string {
	return string(e.buf)
}

// Value returns the line with surrounding spaces removed, or def if nothing
// remains.
func (e *LineEditor) Value(def string) string {
	v := strings.TrimSpace(string(e.buf))
	if v == "" {
		return def
	}
	return v
}
