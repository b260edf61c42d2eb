package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/game"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
	"github.com/tomz197/fruitcatcher/internal/object"
)

const basketBlinkFrequency = 8.0 // Hz, while the wide basket is about to expire

var (
	bannerFg = colorful.Color{R: 1, G: 1, B: 1}
	bannerBg = colorful.Color{R: 0.1, G: 0.1, B: 0.1}
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear so text
	// from the previous screen doesn't persist.
	stateChanged := c.state.Phase != c.state.prevPhase
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		draw.ClearScreen(c.chunkWriter)
		c.state.prevPhase = c.state.Phase
		c.state.wasInactive = c.state.isInactive
	}

	if c.state.Phase == PhasePlaying {
		if err := c.drawField(); err != nil {
			return err
		}
	}
	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawField renders the play field: background, particles, fruit and basket.
func (c *Client) drawField() error {
	v := c.state.Session.View()
	c.canvas.Clear(v.Background)

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
	}

	for _, p := range c.state.particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	if v.Fruit != nil {
		if err := v.Fruit.Draw(ctx); err != nil {
			return err
		}
	}

	basket := v.Basket
	if v.Expanded && v.ExpandLeft < time.Second &&
		!object.ShouldRenderBlink(v.ExpandLeft.Seconds(), basketBlinkFrequency) {
		basket.Color = basket.Color.BlendLab(bannerFg, 0.5)
	}
	if err := basket.Draw(ctx); err != nil {
		return err
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	return nil
}

// drawUI draws the text for the current screen.
func (c *Client) drawUI() {
	centerY := c.layout.fieldRows / 2

	if c.state.Phase == PhaseShutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.Phase {
	case PhaseName:
		c.drawNamePrompt(centerY)
	case PhaseDifficulty:
		c.drawDifficultyPrompt(centerY)
	case PhasePlaying:
		c.drawPlayingHUD(c.state.Session.View())
	case PhaseGameOver:
		c.drawGameOverScreen(centerY)
	}
}

// writeBlock writes lines centered as a block around row centerY. Every line
// is padded to the block width so shorter text overwrites longer text from
// the previous frame.
func (c *Client) writeBlock(centerY int, lines []string) {
	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	width = min(width, c.layout.totalCols)

	col := (c.layout.totalCols-width)/2 + 1
	top := max(centerY-len(lines)/2, 1)
	for i, line := range lines {
		c.chunkWriter.WriteAt(col, top+i, centerIn(line, width))
	}
}

// centerIn pads line on both sides to exactly width columns.
func centerIn(line string, width int) string {
	pad := (width - runewidth.StringWidth(line)) / 2
	if pad > 0 {
		line = strings.Repeat(" ", pad) + line
	}
	return draw.PadRight(line, width)
}

var titleArt = []string{
	` ___         _ _      ___      _      _             `,
	`| __| _ _  _(_) |_   / __|__ _| |_ __| |_  ___ _ _  `,
	`| _| '_| || | |  _| | (__/ _' |  _/ _| ' \/ -_) '_| `,
	`|_||_|  \_,_|_|\__|  \___\__,_|\__\__|_||_\___|_|   `,
}

// titleLines returns the title art when it fits, else a plain title.
func (c *Client) titleLines() []string {
	if runewidth.StringWidth(titleArt[0]) <= c.layout.totalCols {
		return titleArt
	}
	return []string{"F R U I T   C A T C H E R"}
}

// promptLine renders an editable answer with a trailing cursor at a fixed width.
func promptLine(text string, width int) string {
	return "> " + draw.PadRight(text+"_", width+1)
}

// drawNamePrompt draws the title screen asking for the player name.
func (c *Client) drawNamePrompt(centerY int) {
	lines := append([]string{}, c.titleLines()...)
	lines = append(lines,
		"",
		"Catch the falling fruit before it hits the ground",
		"",
		"Enter your name:",
		promptLine(c.state.nameEditor.Text(), config.MaxNameLength),
		"",
		"Enter to confirm   Ctrl-C to leave",
		"",
	)
	lines = append(lines, leaderboardLines(c.board)...)
	c.writeBlock(centerY, lines)
}

// drawDifficultyPrompt lists the difficulties and reads the choice.
func (c *Client) drawDifficultyPrompt(centerY int) {
	cat := c.opts.Catalog
	lines := []string{
		"Hello, " + draw.Fit(c.state.Name, config.MaxNameLength) + "!",
		"",
		"Choose a difficulty:",
		"",
	}
	for i, d := range cat.Difficulties {
		lines = append(lines, fmt.Sprintf("%d. %-8s speed x%.1f", i+1, d.Name, d.Factor))
	}
	lines = append(lines,
		"",
		promptLine(c.state.difficultyEditor.Text(), config.MaxNameLength),
		"",
		"Type a number or "+strings.Join(cat.DifficultyNames(), "/"),
		"Enter for "+cat.DefaultDifficulty,
	)
	c.writeBlock(centerY, lines)
}

// drawPlayingHUD draws the side panel and the banners over the field.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(v game.View) {
	if c.layout.hudCol > 0 {
		for i, line := range c.hudLines(v) {
			c.chunkWriter.WriteAt(c.layout.hudCol, i+1, draw.PadRight(line, hudWidth))
		}
	} else {
		status := fmt.Sprintf(" Score %d  Lives %d  Level %d ", v.Score, v.Lives, v.Level)
		c.drawBanner(1, status)
	}

	if v.Notice != "" {
		c.drawBanner(3, " "+v.Notice+" ")
	}
	if v.State == game.StatePaused {
		c.drawBanner(c.layout.fieldRows/2, "  PAUSED - press P to resume  ")
	}
}

// drawBanner writes styled text centered over the field at the given row.
func (c *Client) drawBanner(row int, text string) {
	l := c.layout
	txt := object.Text{
		Y:      l.offsetRow + row,
		Value:  draw.Fit(text, l.fieldCols),
		Fg:     bannerFg,
		Bg:     bannerBg,
		Styled: true,
	}.Centered(l.offsetCol+1, l.fieldCols)
	txt.Draw(c.chunkWriter)
}

// hudLines returns the side panel. The line count is fixed so every row is
// rewritten each frame.
func (c *Client) hudLines(v game.View) []string {
	lines := []string{
		"FRUIT CATCHER",
		"",
		"Player  " + v.Name,
		"Mode    " + v.Difficulty,
		"",
		fmt.Sprintf("Score   %d", v.Score),
		fmt.Sprintf("Best    %d", v.HighScore),
		fmt.Sprintf("Level   %d", v.Level),
		"Lives   " + hearts(v.Lives, v.MaxLives),
		fmt.Sprintf("Misses  %d", v.Misses),
		fmt.Sprintf("Caught  %d", v.Caught),
		fmt.Sprintf("Combo   %d", v.Combo),
		"Time    " + clock(v.Elapsed),
		"",
		"",
		"",
		"",
		"Left   A / H / <-",
		"Right  D / L / ->",
		"Pause  P / Space",
		"Quit   Q",
		"",
	}
	if v.Expanded {
		lines[14] = fmt.Sprintf("Wide basket %4.1fs", v.ExpandLeft.Seconds())
	}
	if v.DoublePoints {
		lines[15] = fmt.Sprintf("Double pts  %4.1fs", v.DoubleLeft.Seconds())
	}
	if players := c.hub.Players(); players > 1 {
		lines[len(lines)-1] = fmt.Sprintf("Players online %d", players)
	}
	return lines
}

// hearts renders lives as filled and empty hearts.
func hearts(lives, maxLives int) string {
	lives = max(min(lives, maxLives), 0)
	return strings.Repeat("♥", lives) + strings.Repeat("♡", maxLives-lives)
}

// clock formats whole seconds as mm:ss.
func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// leaderboardLines formats the top scores.
func leaderboardLines(snap leaderboard.Snapshot) []string {
	lines := []string{"Top scores"}
	if len(snap.Scores) == 0 {
		return append(lines, "no scores yet")
	}
	for i, r := range snap.Scores {
		name := draw.PadRight(r.Name, config.MaxNameLength)
		lines = append(lines, fmt.Sprintf("%d. %s %6d", i+1, name, r.Score))
	}
	return lines
}

// drawGameOverScreen shows the final result and the replay prompt.
func (c *Client) drawGameOverScreen(centerY int) {
	res := c.state.Result
	lines := []string{
		"G A M E   O V E R",
		"",
		fmt.Sprintf("%s scored %d on %s", draw.Fit(res.Name, config.MaxNameLength), res.Score, res.Difficulty),
		fmt.Sprintf("Level %d   Caught %d   Time %s", res.Level, res.Caught, clock(res.Elapsed)),
	}
	if res.Score > 0 && res.Score >= res.HighScore {
		lines = append(lines, fmt.Sprintf("New high score: %d!", res.HighScore))
	} else {
		lines = append(lines, fmt.Sprintf("High score: %d", res.HighScore))
	}
	lines = append(lines, "")

	board := leaderboard.Snapshot{Scores: res.Leaderboard, HighScore: res.HighScore}
	lines = append(lines, leaderboardLines(board)...)
	if res.SaveErr != nil {
		lines = append(lines, "", "(leaderboard could not be saved)")
	}
	lines = append(lines, "", "R to play again   Q to quit")
	c.writeBlock(centerY, lines)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	left := max(c.opts.IdleTimeout-time.Since(c.lastInput), 0)
	lines := []string{
		"INACTIVITY WARNING",
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())),
		"",
		"Press any key to continue",
	}
	c.writeBlock(centerY, lines)
}

// drawShutdownScreen draws the server shutdown countdown.
func (c *Client) drawShutdownScreen(centerY int) {
	lines := []string{
		"SERVER SHUTTING DOWN",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", int(max(c.state.shutdownTimer, 0))+1),
		"",
		"Thanks for playing! Press Q to leave now.",
	}
	c.writeBlock(centerY, lines)
}
