package loop

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/game"
	"github.com/tomz197/fruitcatcher/internal/input"
	"github.com/tomz197/fruitcatcher/internal/object"
	"github.com/tomz197/fruitcatcher/internal/schedule"
)

// Particle effects
const (
	catchParticles   = 12
	catchSpeed       = 150.0 // Field units per second
	catchLifetime    = 0.6   // Seconds
	powerUpParticles = 24
	missParticles    = 10
)

var sparkle = colorful.Color{R: 1, G: 1, B: 1}

// startSession starts a new session with the chosen name and difficulty.
// Used for the first game and for every replay.
func (c *Client) startSession() {
	c.state.clearParticles()
	c.state.sched = schedule.New()
	c.state.Session = game.NewSession(game.Options{
		Catalog:    c.opts.Catalog,
		Name:       c.state.Name,
		Difficulty: c.state.Difficulty,
		Scheduler:  c.state.sched,
		Rand:       c.opts.Rand,
		Music:      c.opts.Music,
		Board:      c.opts.Board,
		OnEvent:    c.onGameEvent,
	})
	c.state.Session.Start()
	c.state.Result = game.Result{}
	c.state.Phase = PhasePlaying

	c.logger.Info("Session started", "user", c.state.Name, "difficulty", c.state.Difficulty.Name)
}

// feedPlaying applies gameplay keys in the order they were pressed.
func (c *Client) feedPlaying(events []input.Event) []input.Event {
	s := c.state.Session
	for i, ev := range events {
		switch ev.Key {
		case input.KeyLeft:
			s.MoveLeft()
		case input.KeyRight:
			s.MoveRight()
		case input.KeyPause:
			s.TogglePause()
		case input.KeyQuit, input.KeyEscape:
			s.Quit()
			c.logger.Info("Session abandoned", "user", c.state.Name, "score", s.Score())
			c.state.Running = false
			return events[i+1:]
		}
	}
	return nil
}

// updatePlayingState advances the session clock by the frame delta and
// switches to the game over screen once the session ends.
func (c *Client) updatePlayingState() {
	c.state.sched.Advance(c.state.delta)

	if c.state.Session.State() == game.StateGameOver {
		c.finishSession()
	}
}

func (c *Client) finishSession() {
	res, _ := c.state.Session.Result()
	c.state.Result = res
	c.state.Phase = PhaseGameOver
	c.board = c.opts.Board.Load()

	if res.SaveErr != nil {
		c.logger.Warn("Leaderboard not saved", "err", res.SaveErr)
	}
	c.logger.Info("Game over",
		"user", res.Name,
		"difficulty", res.Difficulty,
		"score", res.Score,
		"level", res.Level,
		"caught", res.Caught,
		"elapsed", res.Elapsed,
	)
}

// onGameEvent turns session events into particle effects.
func (c *Client) onGameEvent(e game.Event) {
	bg := c.state.Session.View().Background
	box := e.Fruit.Box()

	switch e.Kind {
	case game.EventCatch:
		object.SpawnCatchBurst(box.CenterX(), box.Y2, catchParticles, catchSpeed, catchLifetime,
			e.Fruit.Kind.RGB(), bg, c.state)
	case game.EventPowerUp:
		object.SpawnCatchBurst(box.CenterX(), box.Y2, powerUpParticles, catchSpeed*1.5, catchLifetime*1.5,
			sparkle, bg, c.state)
	case game.EventMiss:
		object.SpawnMissSplash(box.CenterX(), config.FieldHeight-1, missParticles,
			e.Fruit.Kind.RGB(), bg, c.state)
	}
}

// updateParticles updates all particles and releases the expired ones.
func (c *Client) updateParticles() {
	ctx := object.UpdateContext{
		Delta:   c.state.delta,
		Spawner: c.state,
	}

	kept := c.state.particles[:0]
	for _, p := range c.state.particles {
		remove, err := p.Update(ctx)
		if err != nil || remove {
			object.ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	c.state.particles = kept

	c.state.FlushSpawned()
}
