package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
	"github.com/tomz197/fruitcatcher/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// Shared by all SSH sessions. Each session plays its own game; only the
// leaderboard and the shutdown hub are common.
var (
	hub         = loop.NewHub()
	board       *leaderboard.Store
	gameCatalog = catalog.Default()
	idleTimeout time.Duration
)

func main() {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idleTimeout = config.GetEnvDuration("SSH_IDLE_TIMEOUT", config.InactivityDisconnectUser)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("Failed to get working directory", "err", workErr)
	}
	log.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir, "idleTimeout", idleTimeout)

	if path := config.GetEnv("FRUIT_CATALOG", ""); path != "" {
		loaded, err := catalog.Load(path)
		if err != nil {
			log.Fatal("Failed to load catalog", "path", path, "err", err)
		}
		gameCatalog = loaded
	}
	board = leaderboard.Open(config.GetEnv("FRUIT_DATA_APP", "fruitcatcher"))

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("Failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("Server error", "err", err)
		}
	}()

	<-done
	log.Info("Shutting down server...")

	// Notify players and wait for them to leave
	log.Info("Notifying connected players about shutdown", "players", hub.Players())
	if remaining := hub.Shutdown(15 * time.Second); remaining > 0 {
		log.Warn("Players still connected at shutdown", "players", remaining)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs one private game per session.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := log.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(sess.Context(), sess, sess, loop.Options{
			Catalog:      gameCatalog,
			Board:        board,
			Hub:          hub,
			DefaultName:  sess.User(),
			TermSizeFunc: sizeTracker.getSize,
			IdleTimeout:  idleTimeout,
			Logger:       logger,
		})
		if err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
