package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/game"
	"github.com/tomz197/fruitcatcher/internal/input"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
)

// HUD panel geometry, in terminal columns.
const (
	hudWidth     = 24
	hudGap       = 2 // Border column plus one blank column
	minFieldCols = 20
)

// Client handles rendering and input for a single terminal.
type Client struct {
	opts        Options
	hub         *Hub
	handle      *ClientHandle
	state       *ClientState
	board       leaderboard.Snapshot // Leaderboard shown on the prompt screens
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter // Accumulates UI text for chunked output
	writer      io.Writer
	inputStream *input.Stream
	lastInput   time.Time
	layout      layout
	logger      *log.Logger
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Board == nil {
		opts.Board = leaderboard.NewStore(nil)
	}
	if opts.Music == nil {
		opts.Music = game.NopMusic{}
	}
	if opts.Hub == nil {
		opts.Hub = NewHub()
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.IdleWarning <= 0 {
		opts.IdleWarning = opts.IdleTimeout * 3 / 4
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	handle := opts.Hub.RegisterClient(opts.DefaultName)
	logger := opts.Logger.With("client", handle.ID)

	termWidth, termHeight, _ := opts.TermSizeFunc()
	l := computeLayout(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(l.fieldCols, l.fieldRows, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(l.offsetCol, l.offsetRow)

	return &Client{
		opts:        opts,
		hub:         opts.Hub,
		handle:      handle,
		state:       NewClientState(opts.DefaultName, config.MaxNameLength),
		board:       opts.Board.Load(),
		canvas:      canvas,
		chunkWriter: draw.NewChunkWriter(w, l.offsetCol, l.offsetRow),
		writer:      w,
		inputStream: input.StartStream(r),
		lastInput:   time.Now(),
		layout:      l,
		logger:      logger,
	}
}

// Run starts the client loop. Blocks until the player leaves, the input
// closes or the shutdown countdown ends.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.close()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = min(frameStart.Sub(lastTime), config.MaxFrameDelta)
		lastTime = frameStart

		c.processInput()
		c.processHubEvents(ctx)
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// close abandons any running session and leaves the hub.
func (c *Client) close() {
	if s := c.state.Session; s != nil && !s.State().Finished() {
		s.Quit()
	}
	c.state.clearParticles()
	c.hub.UnregisterClient(c.handle.ID)
}

// processInput reads pending keys and hands them to the current screen.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)

	if len(in.Events) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.opts.IdleTimeout > 0 {
		idle := time.Since(c.lastInput)
		if idle > c.opts.IdleTimeout {
			c.logger.Info("Disconnecting idle player", "user", c.state.Name)
			c.state.Running = false
			return
		}
		c.state.isInactive = idle > c.opts.IdleWarning
	}

	c.dispatch(in.Events)

	if in.Closed {
		c.state.Running = false
	}
}

// dispatch routes events to the current screen. A screen that hands over to
// another returns the events it did not consume, so keys typed ahead are not
// lost between prompts.
func (c *Client) dispatch(events []input.Event) {
	if (input.Input{Events: events}).Has(input.KeyInterrupt) {
		c.state.Running = false
		return
	}

	for len(events) > 0 && c.state.Running {
		switch c.state.Phase {
		case PhaseName:
			events = c.feedName(events)
		case PhaseDifficulty:
			events = c.feedDifficulty(events)
		case PhasePlaying:
			events = c.feedPlaying(events)
		case PhaseGameOver:
			events = c.feedGameOver(events)
		case PhaseShutdown:
			events = c.feedShutdown(events)
		default:
			return
		}
	}
}

func (c *Client) feedName(events []input.Event) []input.Event {
	rest := c.state.nameEditor.Feed(events)
	if c.state.nameEditor.Done() {
		c.state.Name = c.state.nameEditor.Value(config.DefaultName)
		c.state.Phase = PhaseDifficulty
	}
	return rest
}

func (c *Client) feedDifficulty(events []input.Event) []input.Event {
	rest := c.state.difficultyEditor.Feed(events)
	if c.state.difficultyEditor.Done() {
		c.state.Difficulty = difficultyChoice(c.opts.Catalog, c.state.difficultyEditor.Text())
		c.startSession()
	}
	return rest
}

func (c *Client) feedGameOver(events []input.Event) []input.Event {
	for i, ev := range events {
		switch ev.Key {
		case input.KeyReplay:
			c.startSession()
			return events[i+1:]
		case input.KeyQuit, input.KeyEscape:
			c.state.Running = false
			return nil
		}
	}
	return nil
}

func (c *Client) feedShutdown(events []input.Event) []input.Event {
	for _, ev := range events {
		if ev.Key == input.KeyQuit || ev.Key == input.KeyEscape {
			c.state.Running = false
			break
		}
	}
	return nil
}

// difficultyChoice accepts a 1-based menu number or a difficulty name.
// Anything else selects the catalog default.
func difficultyChoice(cat *catalog.Catalog, text string) catalog.Difficulty {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(cat.Difficulties) {
			return cat.Difficulties[n-1]
		}
		return cat.ParseDifficulty("")
	}
	return cat.ParseDifficulty(text)
}

// processHubEvents handles shutdown requests from the hub or the context.
func (c *Client) processHubEvents(ctx context.Context) {
	select {
	case <-ctx.Done():
		c.beginShutdown()
	default:
	}

	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == EventServerShutdown {
				c.beginShutdown()
			}
		default:
			return
		}
	}
}

// beginShutdown abandons the current session and starts the disconnect countdown.
func (c *Client) beginShutdown() {
	if c.state.Phase == PhaseShutdown {
		return
	}
	if s := c.state.Session; s != nil && !s.State().Finished() {
		s.Quit()
	}
	c.state.Phase = PhaseShutdown
	c.state.shutdownTimer = config.ShutdownDisplaySeconds
	c.logger.Info("Shutdown notice shown", "user", c.state.Name)
}

// update advances the current screen by one frame.
func (c *Client) update() {
	switch c.state.Phase {
	case PhasePlaying:
		c.updatePlayingState()
	case PhaseShutdown:
		c.updateShutdownState()
	}
	c.updateParticles()
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// layout places the field canvas and the HUD panel in the terminal.
type layout struct {
	fieldCols, fieldRows int
	offsetCol, offsetRow int // 0-based offset of the whole block
	totalCols            int // Field plus HUD panel
	hudCol               int // 1-based HUD column relative to the offset; 0 when there is no room
}

// computeLayout fits the field into the terminal at its 2:3 aspect ratio,
// leaving room for a border and, when wide enough, the HUD panel on the right.
// Half-block cells are two square sub-pixels tall, so a field of r rows is
// 4r/3 columns wide.
func computeLayout(termWidth, termHeight int) layout {
	rows := min(termHeight-2, config.MaxTermHeight)
	cols := rows * 4 / 3

	avail := min(termWidth-2, config.MaxTermWidth)
	hud := avail >= minFieldCols+hudGap+hudWidth
	if hud {
		avail -= hudGap + hudWidth
	}
	if cols > avail {
		cols = avail
		rows = cols * 3 / 4
	}
	cols = max(cols, 1)
	rows = max(rows, 1)

	l := layout{fieldCols: cols, fieldRows: rows, totalCols: cols}
	if hud {
		l.hudCol = cols + hudGap + 1
		l.totalCols += hudGap + hudWidth
	}
	l.offsetCol = max((termWidth-l.totalCols)/2, 0)
	l.offsetRow = max((termHeight-rows)/2, 0)
	return l
}

// updateScreen handles terminal resize. On actual size changes, clears the
// terminal to remove residual pixels outside the new render area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.opts.TermSizeFunc()
	if err != nil {
		return
	}
	l := computeLayout(termWidth, termHeight)
	if l != c.layout {
		draw.ClearScreen(c.chunkWriter)
		c.layout = l
	}

	c.canvas.Resize(l.fieldCols, l.fieldRows)
	c.canvas.SetOffset(l.offsetCol, l.offsetRow)
	c.chunkWriter.SetOffset(l.offsetCol, l.offsetRow)
}
