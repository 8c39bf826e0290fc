package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cellgrid/internal/app"
	"cellgrid/internal/config"
	"cellgrid/internal/core"
	"cellgrid/internal/logging"
	"cellgrid/internal/patterns"
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
	generations := flag.Int("n", 100, "generations to advance")
	pattern := flag.String("pattern", "", "pattern stamped at the centre of a cleared grid")
	library := flag.String("patterns", "", "YAML pattern library to use instead of the built-in one")
	out := flag.String("out", "", "save path; empty writes an auto-named file into the save directory")
	noSave := flag.Bool("nosave", false, "skip writing the final generation")
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
	if *pattern != "" {
		lib := patterns.Builtin()
		if *library != "" {
			if lib, err = patterns.LoadFile(*library); err != nil {
				return err
			}
		}
		p, err := lib.Get(*pattern)
		if err != nil {
			return err
		}
		sess.Reset(core.Dead)
		if err := sess.StampCentered(p); err != nil {
			return fmt.Errorf("stamp %s: %w", p.Name, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	done, err := sess.Advance(ctx, *generations)
	if err != nil {
		return fmt.Errorf("advance: %w", err)
	}
	fields := []zap.Field{
		zap.Int("requested", *generations),
		zap.Int("advanced", done),
		zap.Uint64("generation", sess.Generation()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Warn("interrupted", fields...)
	} else {
		log.Info("advanced", fields...)
	}

	if *noSave {
		return nil
	}
	path, err := sess.Save(*out)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Info("saved", zap.String("path", path))
	return nil
}
