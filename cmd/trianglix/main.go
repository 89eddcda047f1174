package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fosdem/trianglix/lib/config"
	tlog "github.com/fosdem/trianglix/lib/log"
	"github.com/fosdem/trianglix/lib/viewer"
	"golang.org/x/term"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	colour := term.IsTerminal(int(os.Stdout.Fd()))
	slog.SetDefault(slog.New(tlog.NewHandler(os.Stdout, colour, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Parse(*configPath)
		if err != nil {
			slog.Error("invalid config", "err", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := viewer.Run(ctx, cfg)
	stop()
	if err != nil {
		var ie *viewer.InitializationError
		if errors.As(err, &ie) {
			slog.Error("startup failed, not rendering", "err", err)
		} else {
			slog.Error("rendering failed", "err", err)
		}
		os.Exit(1)
	}
}
