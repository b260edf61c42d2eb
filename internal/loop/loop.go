// Package loop provides the terminal front end around a game session: the
// name and difficulty prompts, the frame loop, the HUD and the game over
// screen.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/game"
)

// Options configures a client. Zero fields get defaults.
type Options struct {
	Catalog      *catalog.Catalog
	Board        game.Board
	Music        game.Music
	Hub          *Hub
	DefaultName  string // Pre-filled answer to the name prompt
	TermSizeFunc draw.TermSizeFunc
	IdleTimeout  time.Duration // Disconnect after this long without input; zero disables
	IdleWarning  time.Duration // Warn after this long without input; zero means 3/4 of IdleTimeout
	Rand         *rand.Rand
	Logger       *log.Logger
}

// Run plays on the given terminal until the player quits, the input closes or
// a shutdown countdown runs out.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	c := NewClient(bufio.NewReader(r), w, opts)
	return c.Run(ctx)
}
