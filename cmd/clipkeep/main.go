// cmd/clipkeep/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nhath/clipkeep/internal/app"
	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/config"
	"github.com/nhath/clipkeep/internal/logging"
	"github.com/nhath/clipkeep/internal/ui"
)

func main() {
	// Parse flags
	debug := flag.Bool("debug", false, "Enable debug logging")
	headless := flag.Bool("headless", false, "Capture clipboard history without the picker")
	clearFlag := flag.Bool("clear", false, "Delete all stored history and exit")
	configPath := flag.String("config", "", "Path to config file (default: XDG config dir)")
	flag.Parse()

	if err := run(*debug, *headless, *clearFlag, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "clipkeep: %v\n", err)
		os.Exit(1)
	}
}

func run(debug, headless, clearHistory bool, configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The picker owns the terminal, so its logs go to a file.
	var logOut io.Writer = os.Stderr
	if !headless && !clearHistory {
		logPath, err := config.LogPath()
		if err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
		f, err := tea.LogToFile(logPath, "clipkeep")
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := logging.New(logOut, debug)

	clip, err := clipboard.NewSystem()
	if err != nil {
		return err
	}

	svc, err := app.New(ctx, cfg, clip, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if clearHistory {
		n, err := svc.Store.Clear(ctx)
		if err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Printf("removed %s entries\n", humanize.Comma(n))
		return nil
	}

	if headless {
		log.Info(ctx, "capturing clipboard history", "database", svc.Store.Path(), "poll", cfg.PollInterval())
		return svc.Run(ctx)
	}

	// Capture keeps running underneath the picker.
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()

	ui.InitStyles(cfg.Theme)
	model := ui.NewModel(ctx, cfg, svc.Controller, svc.Store, log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, uiErr := p.Run()

	cancel()
	if err := <-done; err != nil {
		return err
	}
	if uiErr != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI: %w", uiErr)
	}
	return nil
}
