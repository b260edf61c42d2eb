package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/fruitcatcher/internal/audio"
	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
	"github.com/tomz197/fruitcatcher/internal/loop"
)

func main() {
	// Raw mode owns the terminal, so logs go to a file when requested and
	// are dropped otherwise.
	logger := log.New(os.Stderr)
	if path := config.GetEnv("FRUIT_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal("Failed to open log file", "path", path, "err", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "fruitcatcher"})
	} else {
		logger.SetLevel(log.ErrorLevel)
	}
	log.SetDefault(logger)

	cat := catalog.Default()
	if path := config.GetEnv("FRUIT_CATALOG", ""); path != "" {
		loaded, err := catalog.Load(path)
		if err != nil {
			log.Fatal("Failed to load catalog", "path", path, "err", err)
		}
		cat = loaded
	}

	board := leaderboard.Open("fruitcatcher")
	music := audio.New(audio.ConfigFromEnv())
	defer music.Close()
	if !music.Active() {
		log.Info("Music unavailable, playing silently")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err = loop.Run(ctx, os.Stdin, os.Stdout, loop.Options{
		Catalog: cat,
		Board:   board,
		Music:   music,
		Logger:  logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
