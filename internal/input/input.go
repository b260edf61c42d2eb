// Package input turns a raw terminal byte stream into discrete key events.
package input

import (
	"bufio"
	"time"
	"unicode"
	"unicode/utf8"
)

// Key identifies the action a key press maps to.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPause
	KeyQuit
	KeyReplay
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyInterrupt // Ctrl-C
)

// Event is one key press. Rune holds the typed character for printable keys,
// so the same press can drive both gameplay and text prompts.
type Event struct {
	Key  Key
	Rune rune
}

// Input holds the events received since the previous read.
type Input struct {
	Events []Event
	Closed bool // The underlying reader hit EOF or an error
}

// Has reports whether any event maps to k.
func (in Input) Has(k Key) bool {
	for _, e := range in.Events {
		if e.Key == k {
			return true
		}
	}
	return false
}

// EscapeDelay is how long a trailing ESC or partial escape sequence is held
// back waiting for the rest of the sequence. Once it expires the bytes are
// taken as a plain Escape press followed by whatever came after it.
const EscapeDelay = 50 * time.Millisecond

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool

	// Incomplete sequence carried over from the previous read.
	pending      []byte
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking and
// parses them into events. An escape sequence split across reads is joined
// with its remainder on a later read.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	buf := append([]byte(nil), s.pending...)
	held := len(buf)

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	events, rest := parse(buf)
	s.pending = nil
	if len(rest) == 0 {
		return Input{Events: events, Closed: s.closed}
	}

	if len(buf) > held {
		s.pendingSince = now
	}
	if s.closed || now.Sub(s.pendingSince) >= EscapeDelay {
		events = append(events, flush(rest)...)
	} else {
		s.pending = rest
	}
	return Input{Events: events, Closed: s.closed}
}

// Parse converts raw terminal bytes into events. Arrow keys arrive as
// CSI (ESC [ A..D) or SS3 (ESC O A..D) sequences; other sequences are
// dropped. Multi-byte UTF-8 characters become rune events. Parse treats buf
// as complete: a trailing ESC is an Escape press.
func Parse(buf []byte) []Event {
	events, rest := parse(buf)
	return append(events, flush(rest)...)
}

// parse converts buf into events and returns the trailing bytes that may be
// the start of a longer sequence.
func parse(buf []byte) ([]Event, []byte) {
	var events []Event
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+1 == len(buf) {
				return events, buf[i:]
			}
			if next := buf[i+1]; next == '[' || next == 'O' {
				end := sequenceEnd(buf, i+2, next == 'O')
				if end < 0 {
					return events, buf[i:]
				}
				if k := arrowKey(buf[end]); k != KeyNone {
					events = append(events, Event{Key: k})
				}
				i = end
				continue
			}
			events = append(events, Event{Key: KeyEscape})
			continue
		}

		if b >= utf8.RuneSelf {
			if !utf8.FullRune(buf[i:]) {
				return events, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				events = append(events, Event{Rune: r})
			}
			i += size - 1
			continue
		}

		if e, ok := byteEvent(b); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// sequenceEnd returns the index of the final byte of an escape sequence whose
// body starts at i, or -1 if buf ends first. SS3 sequences are one byte long;
// CSI sequences run through parameter bytes up to a byte in 0x40-0x7e.
func sequenceEnd(buf []byte, i int, ss3 bool) int {
	if ss3 {
		if i < len(buf) {
			return i
		}
		return -1
	}
	for ; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i
		}
	}
	return -1
}

func arrowKey(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

// flush resolves bytes held back by parse once no more input is coming.
// A held ESC is a plain Escape press; bytes after it are ordinary keys.
func flush(rest []byte) []Event {
	if len(rest) == 0 || rest[0] != '\x1b' {
		return nil
	}
	events := []Event{{Key: KeyEscape}}
	for _, b := range rest[1:] {
		if b >= utf8.RuneSelf {
			continue
		}
		if e, ok := byteEvent(b); ok {
			events = append(events, e)
		}
	}
	return events
}

// byteEvent maps a single ASCII byte to an event.
func byteEvent(b byte) (Event, bool) {
	switch b {
	case '\n', '\r':
		return Event{Key: KeyEnter}, true
	case '\b', '\x7f':
		return Event{Key: KeyBackspace}, true
	case '\x1b':
		return Event{Key: KeyEscape}, true
	case '\x03':
		return Event{Key: KeyInterrupt}, true
	}

	if b < ' ' {
		return Event{}, false
	}

	e := Event{Rune: rune(b)}
	switch b {
	case 'a', 'A', 'h', 'H':
		e.Key = KeyLeft
	case 'd', 'D', 'l', 'L':
		e.Key = KeyRight
	case 'p', 'P', ' ':
		e.Key = KeyPause
	case 'q', 'Q':
		e.Key = KeyQuit
	case 'r', 'R':
		e.Key = KeyReplay
	}
	return e, true
}
