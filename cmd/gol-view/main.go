//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"cellgrid/internal/app"
	"cellgrid/internal/config"
	"cellgrid/internal/logging"
	"cellgrid/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := app.NewFlags()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	cfg := config.Default()
	if flags.Config != "" {
		loaded, err := config.Load(flags.Config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyPairs(flags.Overrides); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	sess, err := session.New(session.OptionsFrom(cfg, log))
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	defer sess.Close()
	if flags.Load != "" {
		if err := sess.Load(flags.Load); err != nil {
			return fmt.Errorf("load %s: %w", flags.Load, err)
		}
	}
	sess.Precompute()

	game := app.New(sess, log, flags.Scale, flags.HUDWidth)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("cellgrid — " + cfg.Engine.Variant)
	ebiten.SetTPS(flags.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
