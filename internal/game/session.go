// Package game implements a Fruit Catcher session: the falling fruit loop,
// scoring, power-ups, level progression and the session lifecycle.
//
// A Session is driven entirely by a schedule.Scheduler and by key handlers
// called on the same goroutine. Nothing in this package starts goroutines or
// reads the wall clock, so a session can be replayed exactly in tests.
package game

import (
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
	"github.com/tomz197/fruitcatcher/internal/object"
	"github.com/tomz197/fruitcatcher/internal/schedule"
)

// Options configures a new session. Zero fields get defaults.
type Options struct {
	Catalog    *catalog.Catalog
	Name       string
	Difficulty catalog.Difficulty
	Scheduler  *schedule.Scheduler
	Rand       *rand.Rand
	Music      Music
	Board      Board
	OnEvent    func(Event)
}

// Session is one game from start to game over.
// It is not safe for concurrent use.
type Session struct {
	cat     *catalog.Catalog
	sched   *schedule.Scheduler
	spawner *object.FruitSpawner
	music   Music
	board   Board
	onEvent func(Event)

	name       string
	difficulty catalog.Difficulty

	state     State
	score     int
	highScore int
	level     int
	speed     float64
	lives     int
	misses    int
	combo     int
	caught    int
	elapsed   int

	fruit  *object.Fruit
	basket *object.Basket

	doublePoints bool
	notice       string
	background   colorful.Color
	fade         fade

	tickTimer   *schedule.Timer
	clockTimer  *schedule.Timer
	expandTimer *schedule.Timer
	doubleTimer *schedule.Timer
	noticeTimer *schedule.Timer

	result Result
}

// NewSession creates a session in the Initializing state. Call Start to begin.
func NewSession(opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.New()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Music == nil {
		opts.Music = NopMusic{}
	}
	if opts.Board == nil {
		opts.Board = leaderboard.NewStore(nil)
	}
	if opts.Difficulty.Factor < 1 {
		opts.Difficulty = opts.Catalog.ParseDifficulty("")
	}

	spawner := object.NewFruitSpawner(opts.Catalog.Fruits, opts.Rand,
		config.FieldWidth, config.FruitSize, config.SpawnMargin)

	s := &Session{
		cat:        opts.Catalog,
		sched:      opts.Scheduler,
		spawner:    spawner,
		music:      opts.Music,
		board:      opts.Board,
		onEvent:    opts.OnEvent,
		name:       catalog.PlayerName(opts.Name, config.DefaultName),
		difficulty: opts.Difficulty,
		state:      StateInitializing,
	}
	s.reset()
	return s
}

// reset puts every counter at its initial value.
func (s *Session) reset() {
	first := s.cat.Levels[0]
	s.score = 0
	s.level = first.Level
	s.speed = first.Speed * s.difficulty.Factor
	s.lives = config.InitialLives
	s.misses = 0
	s.combo = 0
	s.caught = 0
	s.elapsed = 0
	s.fruit = nil
	s.doublePoints = false
	s.notice = ""
	s.background = s.cat.Background(first.Level)
	s.basket = object.NewBasket(0, config.FieldWidth,
		config.FieldHeight-config.BasketFloorGap-config.BasketHeight,
		config.BasketWidth, config.BasketHeight, s.cat.Basket())
}

// Start loads the prior high score, starts the clocks and music, and drops
// the first fruit. Only valid once, from Initializing.
func (s *Session) Start() {
	if s.state != StateInitializing {
		return
	}

	s.highScore = s.board.Load().HighScore
	s.clockTimer = s.sched.After(config.ClockInterval, s.clockTick)
	s.music.Play()
	s.spawn()
	s.state = StateRunning
	s.scheduleTick()
}

func (s *Session) clockTick() {
	if s.state.Finished() {
		return
	}
	s.elapsed++
	s.clockTimer = s.sched.After(config.ClockInterval, s.clockTick)
}

// TogglePause switches between Running and Paused. Pausing cancels the
// pending fall tick, so the fruit stays exactly where it is until resumed.
func (s *Session) TogglePause() {
	switch s.state {
	case StateRunning:
		s.state = StatePaused
		s.tickTimer.Stop()
		s.tickTimer = nil
		s.music.Pause()
	case StatePaused:
		s.state = StateRunning
		s.scheduleTick()
		s.music.Resume()
	}
}

// MoveLeft shifts the basket one step left, stopping at the field edge.
// Moves are accepted while paused.
func (s *Session) MoveLeft() {
	s.moveBasket(-config.BasketStep)
}

// MoveRight shifts the basket one step right, stopping at the field edge.
func (s *Session) MoveRight() {
	s.moveBasket(config.BasketStep)
}

func (s *Session) moveBasket(dx float64) {
	if s.state != StateRunning && s.state != StatePaused {
		return
	}
	s.basket.Move(dx)
}

// Quit abandons the session without recording a score.
func (s *Session) Quit() {
	if s.state.Finished() {
		return
	}
	s.stopTimers()
	s.music.Pause()
	s.fruit = nil
	s.state = StateQuit
	s.result = s.buildResult()
}

// gameOver finalizes the session once lives are exhausted.
func (s *Session) gameOver() {
	s.stopTimers()
	s.fruit = nil
	s.state = StateGameOver
	s.highScore = max(s.highScore, s.score)
	s.music.Pause()

	s.result = s.buildResult()
	snap, err := s.board.Submit(leaderboard.Record{Name: s.name, Score: s.score})
	s.result.Recorded = true
	s.result.SaveErr = err
	s.result.Leaderboard = snap.Scores
	s.result.HighScore = max(s.highScore, snap.HighScore)
	s.highScore = s.result.HighScore

	s.emit(Event{Kind: EventGameOver, Level: s.level})
}

func (s *Session) buildResult() Result {
	return Result{
		Name:       s.name,
		Difficulty: s.difficulty.Name,
		Score:      s.score,
		Level:      s.level,
		Caught:     s.caught,
		Elapsed:    s.elapsed,
		HighScore:  max(s.highScore, s.score),
	}
}

func (s *Session) stopTimers() {
	for _, t := range []**schedule.Timer{&s.tickTimer, &s.clockTimer, &s.expandTimer, &s.doubleTimer, &s.noticeTimer} {
		(*t).Stop()
		*t = nil
	}
	s.fade.stop()
}

func (s *Session) emit(e Event) {
	if s.onEvent != nil {
		s.onEvent(e)
	}
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Lives returns the remaining lives.
func (s *Session) Lives() int {
	return s.lives
}

// Level returns the current level number.
func (s *Session) Level() int {
	return s.level
}

// Result returns the outcome once the session has finished.
func (s *Session) Result() (Result, bool) {
	if !s.state.Finished() {
		return Result{}, false
	}
	return s.result, true
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	v := View{
		State:        s.state,
		Name:         s.name,
		Difficulty:   s.difficulty.Name,
		Score:        s.score,
		HighScore:    max(s.highScore, s.score),
		Level:        s.level,
		Lives:        s.lives,
		MaxLives:     config.MaxLives,
		Misses:       s.misses,
		Combo:        s.combo,
		Caught:       s.caught,
		Elapsed:      s.elapsed,
		Speed:        s.speed,
		Basket:       *s.basket,
		Background:   s.background,
		Expanded:     s.basket.Expanded,
		ExpandLeft:   s.expandTimer.Remaining(),
		DoublePoints: s.doublePoints,
		DoubleLeft:   s.doubleTimer.Remaining(),
		Notice:       s.notice,
	}
	if s.fruit != nil {
		f := *s.fruit
		v.Fruit = &f
	}
	return v
}
