package game

import (
	"fmt"

	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/physics"
)

// spawn places a new fruit in the single in-flight slot.
func (s *Session) spawn() {
	if s.fruit != nil {
		panic(fmt.Sprintf("game: spawn with a %s fruit still in flight", s.fruit.Kind.Name))
	}
	s.fruit = s.spawner.Spawn()
}

func (s *Session) scheduleTick() {
	s.tickTimer = s.sched.After(config.TickInterval, s.tick)
}

// tick advances the fruit one step and resolves it against the floor and the
// basket, in that order: a fruit that reaches the floor is missed even if it
// also touches the basket.
func (s *Session) tick() {
	s.tickTimer = nil
	if s.state != StateRunning || s.fruit == nil {
		return
	}

	s.fruit.Fall(s.speed)
	box := s.fruit.Box()

	switch {
	case box.Y2 >= config.FieldHeight:
		s.miss()
	case physics.Overlaps(box, s.basket.Box):
		s.catch()
	}

	if s.state == StateRunning {
		s.scheduleTick()
	}
}

func (s *Session) miss() {
	missed := *s.fruit
	s.fruit = nil
	s.misses++
	s.lives = max(s.lives-1, 0)
	s.combo = 0
	s.emit(Event{Kind: EventMiss, Fruit: missed})

	if s.lives <= 0 {
		s.gameOver()
		return
	}
	s.spawn()
}

func (s *Session) catch() {
	caught := *s.fruit
	s.fruit = nil

	points := s.award(caught.Kind.Points)
	s.emit(Event{Kind: EventCatch, Fruit: caught, Points: points})

	if s.applyPower(caught.Kind.Power) {
		s.emit(Event{Kind: EventPowerUp, Fruit: caught})
	}
	s.checkLevel()
	s.spawn()
}
