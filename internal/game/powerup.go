package game

import (
	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/config"
)

// award adds a caught fruit's points, doubled while double points is active,
// and bumps the combo and catch counters. Returns the points earned.
func (s *Session) award(base int) int {
	earned := base
	if s.doublePoints {
		earned *= 2
	}
	s.score += earned
	s.combo++
	s.caught++
	return earned
}

// applyPower triggers a fruit's power. Returns true if it had any effect;
// re-triggering an active timed power does nothing.
func (s *Session) applyPower(p catalog.Power) bool {
	switch p {
	case catalog.PowerExtraLife:
		if s.lives >= config.MaxLives {
			return false
		}
		s.lives++
		return true

	case catalog.PowerExpand:
		if !s.basket.Expand(config.ExpandFactor) {
			return false
		}
		s.expandTimer = s.sched.After(config.PowerUpDuration, s.revertBasket)
		return true

	case catalog.PowerDoublePoints:
		if s.doublePoints {
			return false
		}
		s.doublePoints = true
		s.doubleTimer = s.sched.After(config.PowerUpDuration, s.endDoublePoints)
		return true
	}
	return false
}

func (s *Session) revertBasket() {
	s.expandTimer = nil
	s.basket.Revert(config.ExpandFactor)
}

func (s *Session) endDoublePoints() {
	s.doubleTimer = nil
	s.doublePoints = false
}
