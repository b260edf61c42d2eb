package game

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/leaderboard"
	"github.com/tomz197/fruitcatcher/internal/object"
)

// State is the session lifecycle phase.
type State int

const (
	StateInitializing State = iota
	StateRunning
	StatePaused
	StateGameOver // Lives ran out; final
	StateQuit     // Abandoned by the player; final, nothing recorded
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Finished reports whether the state is terminal.
func (s State) Finished() bool {
	return s == StateGameOver || s == StateQuit
}

// Music is the background audio hook. Implementations must tolerate any call
// order; the session never depends on playback succeeding.
type Music interface {
	Play()
	Pause()
	Resume()
}

// NopMusic is a silent Music.
type NopMusic struct{}

func (NopMusic) Play()   {}
func (NopMusic) Pause()  {}
func (NopMusic) Resume() {}

// Board is the leaderboard collaborator. *leaderboard.Store satisfies it.
type Board interface {
	Load() leaderboard.Snapshot
	Submit(rec leaderboard.Record) (leaderboard.Snapshot, error)
}

// EventKind identifies a notable moment for the front end.
type EventKind int

const (
	EventCatch EventKind = iota
	EventMiss
	EventPowerUp
	EventLevelUp
	EventGameOver
)

// Event is emitted synchronously from inside the session, after the state
// change it describes.
type Event struct {
	Kind   EventKind
	Fruit  object.Fruit // The fruit involved, for catch and miss
	Points int          // Points earned, for catch
	Level  int          // New level, for level up
}

// View is a snapshot of everything the front end draws.
type View struct {
	State      State
	Name       string
	Difficulty string

	Score     int
	HighScore int
	Level     int
	Lives     int
	MaxLives  int
	Misses    int
	Combo     int
	Caught    int
	Elapsed   int // Whole seconds
	Speed     float64

	Fruit      *object.Fruit // nil when nothing is in flight
	Basket     object.Basket
	Background colorful.Color

	Expanded     bool
	ExpandLeft   time.Duration
	DoublePoints bool
	DoubleLeft   time.Duration

	Notice string // Transient message such as "Level 2 Reached!"
}

// Result is the outcome of a finished session.
type Result struct {
	Name        string
	Difficulty  string
	Score       int
	Level       int
	Caught      int
	Elapsed     int
	HighScore   int
	Leaderboard []leaderboard.Record
	Recorded    bool  // The score was submitted to the leaderboard
	SaveErr     error // Persisting the leaderboard failed; the result is still valid
}
