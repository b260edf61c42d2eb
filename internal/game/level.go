package game

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/schedule"
)

// checkLevel promotes the session when the score has crossed into a higher
// row of the level table. Scores past the last row stay on the last level.
func (s *Session) checkLevel() {
	row := s.cat.LevelFor(s.score)
	if row.Level <= s.level {
		return
	}

	s.level = row.Level
	s.speed = row.Speed * s.difficulty.Factor
	s.fadeTo(s.cat.Background(row.Level))
	s.showNotice(fmt.Sprintf("Level %d Reached!", row.Level))
	s.emit(Event{Kind: EventLevelUp, Level: row.Level})
}

func (s *Session) showNotice(msg string) {
	s.noticeTimer.Stop()
	s.notice = msg
	s.noticeTimer = s.sched.After(config.LevelNoticeLength, func() {
		s.noticeTimer = nil
		s.notice = ""
	})
}

// fade is a background colour transition in fixed steps.
type fade struct {
	from, to colorful.Color
	step     int
	timer    *schedule.Timer
}

func (f *fade) stop() {
	f.timer.Stop()
	f.timer = nil
}

// fadeTo starts a transition from the current background to target. Step 0
// is painted immediately and the target is reached FadeSteps intervals later.
// A transition already running is replaced and the new one starts from
// wherever the old one had got to.
func (s *Session) fadeTo(target colorful.Color) {
	s.fade.stop()
	s.fade.from = s.background
	s.fade.to = target
	s.fade.step = 0
	s.fadeStep()
}

func (s *Session) fadeStep() {
	s.fade.timer = nil
	if s.fade.step >= config.FadeSteps {
		s.background = s.fade.to
		return
	}
	t := float64(s.fade.step) / config.FadeSteps
	s.background = s.fade.from.BlendRgb(s.fade.to, t)
	s.fade.step++
	s.fade.timer = s.sched.After(config.FadeStepInterval, s.fadeStep)
}
