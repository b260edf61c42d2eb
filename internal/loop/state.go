package loop

import (
	"time"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/game"
	"github.com/tomz197/fruitcatcher/internal/input"
	"github.com/tomz197/fruitcatcher/internal/object"
	"github.com/tomz197/fruitcatcher/internal/schedule"
)

// Phase is the screen a client is on.
type Phase int

const (
	PhaseName       Phase = iota // Asking for the player name
	PhaseDifficulty              // Asking for the difficulty
	PhasePlaying                 // A session is running or paused
	PhaseGameOver                // Final score and leaderboard, replay prompt
	PhaseShutdown                // Server is shutting down
)

// ClientState holds everything a client tracks between frames.
type ClientState struct {
	Phase     Phase
	prevPhase Phase
	Running   bool

	nameEditor       *input.LineEditor
	difficultyEditor *input.LineEditor

	Name       string
	Difficulty catalog.Difficulty

	Session *game.Session
	sched   *schedule.Scheduler
	Result  game.Result

	particles []object.Object
	toSpawn   []object.Object

	delta         time.Duration
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool
}

// NewClientState creates a client waiting at the name prompt.
func NewClientState(defaultName string, nameLimit int) *ClientState {
	return &ClientState{
		Phase:            PhaseName,
		prevPhase:        PhaseName,
		Running:          true,
		nameEditor:       input.NewLineEditor(defaultName, nameLimit),
		difficultyEditor: input.NewLineEditor("", 0),
	}
}

// Spawn queues a particle to be added after the current update.
// Implements object.Spawner.
func (s *ClientState) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued particles.
func (s *ClientState) FlushSpawned() {
	s.particles = append(s.particles, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
}

// clearParticles releases every live particle back to its pool.
func (s *ClientState) clearParticles() {
	for _, p := range s.particles {
		object.ReleaseObject(p)
	}
	for _, p := range s.toSpawn {
		object.ReleaseObject(p)
	}
	s.particles = s.particles[:0]
	s.toSpawn = s.toSpawn[:0]
}
