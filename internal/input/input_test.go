package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Event
	}{
		{"Arrow keys", "\x1b[D\x1b[C", []Event{{Key: KeyLeft}, {Key: KeyRight}}},
		{"Letters move", "aD", []Event{{Key: KeyLeft, Rune: 'a'}, {Key: KeyRight, Rune: 'D'}}},
		{"Pause keys", "p ", []Event{{Key: KeyPause, Rune: 'p'}, {Key: KeyPause, Rune: ' '}}},
		{"Quit and replay", "qR", []Event{{Key: KeyQuit, Rune: 'q'}, {Key: KeyReplay, Rune: 'R'}}},
		{"Enter variants", "\r\n", []Event{{Key: KeyEnter}, {Key: KeyEnter}}},
		{"Backspace variants", "\b\x7f", []Event{{Key: KeyBackspace}, {Key: KeyBackspace}}},
		{"Lone escape", "\x1b", []Event{{Key: KeyEscape}}},
		{"Ctrl-C", "\x03", []Event{{Key: KeyInterrupt}}},
		{"Plain rune", "z", []Event{{Rune: 'z'}}},
		{"UTF-8 rune", "é", []Event{{Rune: 'é'}}},
		{"Control bytes dropped", "\x01\x02", nil},
		{"Modified arrow", "\x1b[1;5D", []Event{{Key: KeyLeft}}},
		{"Application mode arrow", "\x1bOC", []Event{{Key: KeyRight}}},
		{"Unknown sequence dropped", "\x1b[Hq", []Event{{Key: KeyQuit, Rune: 'q'}}},
		{"Escape then key", "\x1bq", []Event{{Key: KeyEscape}, {Key: KeyQuit, Rune: 'q'}}},
		{"Double escape", "\x1b\x1b", []Event{{Key: KeyEscape}, {Key: KeyEscape}}},
		{"Unfinished sequence", "\x1b[", []Event{{Key: KeyEscape}, {Rune: '['}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.in))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d events, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Event %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestInputHas(t *testing.T) {
	in := Input{Events: Parse([]byte("a\x1b[Dd"))}
	if !in.Has(KeyLeft) || !in.Has(KeyRight) {
		t.Errorf("Expected left and right presses, got %+v", in.Events)
	}
	if in.Has(KeyPause) {
		t.Error("Expected no pause press")
	}
}

func newTestStream() *Stream {
	return &Stream{ch: make(chan byte, 16)}
}

func (s *Stream) send(bs string) {
	for i := 0; i < len(bs); i++ {
		s.ch <- bs[i]
	}
}

func TestReadInputJoinsSplitSequence(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		want   Event
	}{
		{"After ESC", "\x1b", "[D", Event{Key: KeyLeft}},
		{"After CSI", "\x1b[", "C", Event{Key: KeyRight}},
		{"Inside parameters", "a\x1b[1;", "5D", Event{Key: KeyLeft}},
		{"Split UTF-8 rune", "\xc3", "\xa9", Event{Rune: 'é'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStream()
			start := time.Now()

			s.send(tt.first)
			for _, e := range s.read(start).Events {
				if e.Key == KeyEscape || e.Rune == '[' {
					t.Fatalf("Expected partial sequence held back, got %+v", e)
				}
			}

			s.send(tt.second)
			got := s.read(start.Add(20 * time.Millisecond)).Events
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Expected [%+v], got %+v", tt.want, got)
			}
		})
	}
}

func TestReadInputFlushesLoneEscape(t *testing.T) {
	s := newTestStream()
	start := time.Now()

	s.send("\x1b")
	if got := s.read(start).Events; len(got) != 0 {
		t.Fatalf("Expected escape held back, got %+v", got)
	}
	if got := s.read(start.Add(EscapeDelay - time.Millisecond)).Events; len(got) != 0 {
		t.Fatalf("Expected escape held until the delay passes, got %+v", got)
	}

	got := s.read(start.Add(EscapeDelay)).Events
	if len(got) != 1 || got[0].Key != KeyEscape {
		t.Errorf("Expected a single Escape press, got %+v", got)
	}
	if again := s.read(start.Add(2 * EscapeDelay)).Events; len(again) != 0 {
		t.Errorf("Expected escape reported once, got %+v", again)
	}
}

func TestReadInputFlushesOnClose(t *testing.T) {
	s := newTestStream()
	s.send("\x1b")
	close(s.ch)

	in := s.read(time.Now())
	if !in.Closed {
		t.Error("Expected stream closed")
	}
	if len(in.Events) != 1 || in.Events[0].Key != KeyEscape {
		t.Errorf("Expected pending escape flushed on close, got %+v", in.Events)
	}
}

func TestReadInputDrainsStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("ap")))

	var events []Event
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		events = append(events, in.Events...)
		if in.Closed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if len(events) != 2 || events[0].Key != KeyLeft || events[1].Key != KeyPause {
		t.Errorf("Expected left then pause, got %+v", events)
	}
	if !ReadInput(s).Closed {
		t.Error("Expected stream to report closed after EOF")
	}
}

func TestLineEditor(t *testing.T) {
	e := NewLineEditor("", 5)
	e.Feed(Parse([]byte("Alicia")))
	if got := e.Text(); got != "Alici" {
		t.Errorf("Expected input capped at 5 runes, got %q", got)
	}

	e.Feed(Parse([]byte("\x7f\x7fe")))
	if got := e.Text(); got != "Alie" {
		t.Errorf("Expected backspace to remove runes, got %q", got)
	}
	if e.Done() {
		t.Error("Expected editor not done before Enter")
	}

	rest := e.Feed(Parse([]byte("\rzz")))
	if !e.Done() {
		t.Error("Expected editor done after Enter")
	}
	if got := e.Text(); got != "Alie" {
		t.Errorf("Expected input after Enter to be ignored, got %q", got)
	}
	if len(rest) != 2 || rest[0].Rune != 'z' {
		t.Errorf("Expected events after Enter returned, got %+v", rest)
	}
	if again := e.Feed(Parse([]byte("x"))); len(again) != 1 {
		t.Errorf("Expected finished editor to pass events through, got %+v", again)
	}
}

func TestLineEditorValue(t *testing.T) {
	e := NewLineEditor("Medium", 0)
	if got := e.Value("x"); got != "Medium" {
		t.Errorf("Expected initial value, got %q", got)
	}

	blank := NewLineEditor("   ", 0)
	if got := blank.Value("Guest"); got != "Guest" {
		t.Errorf("Expected default for blank input, got %q", got)
	}
}
