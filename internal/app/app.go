// Package app wires configuration, key material, storage and the capture
// loops into one service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nhath/clipkeep/internal/classify"
	"github.com/nhath/clipkeep/internal/clipboard"
	"github.com/nhath/clipkeep/internal/config"
	"github.com/nhath/clipkeep/internal/history"
	"github.com/nhath/clipkeep/internal/logging"
	"github.com/nhath/clipkeep/internal/monitor"
	"github.com/nhath/clipkeep/internal/picker"
	"github.com/nhath/clipkeep/internal/vault"
)

// Service owns the long-lived components. The controller is handed to a
// single owner (the picker UI); the monitor and sweeper run under Run.
type Service struct {
	Config     *config.Config
	Log        logging.Logger
	Vault      *vault.Vault
	Store      *history.Store
	Clipboard  clipboard.Clipboard
	Monitor    *monitor.Monitor
	Controller *picker.Controller
}

// New loads the key and opens the store. Either failing is fatal: there is
// no mode that stores sensitive content without encryption.
func New(ctx context.Context, cfg *config.Config, clip clipboard.Clipboard, log logging.Logger) (*Service, error) {
	src, err := keySource(cfg)
	if err != nil {
		return nil, err
	}
	v, err := vault.Load(src)
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	store, err := history.Open(ctx, dbPath, v)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", dbPath, err)
	}

	mon := monitor.New(clip, store, monitor.Options{
		Interval:   cfg.PollInterval(),
		MaxPayload: cfg.MaxPayloadBytes,
		Classifier: classify.New(cfg.PreviewChars, cfg.ThumbnailSize),
		Logger:     log,
	})
	ctrl := picker.New(store, v, picker.ClipboardSink{Clipboard: clip}, picker.NewQueue(cfg.EventQueueSize), picker.Options{
		RecentLimit: cfg.RecentLimit,
		SearchDepth: cfg.SearchDepth,
		Logger:      log,
	})

	return &Service{
		Config:     cfg,
		Log:        log,
		Vault:      v,
		Store:      store,
		Clipboard:  clip,
		Monitor:    mon,
		Controller: ctrl,
	}, nil
}

func keySource(cfg *config.Config) (vault.KeySource, error) {
	switch cfg.KeyBackend {
	case config.KeyBackendKeyring:
		ring, err := vault.OpenKeyring()
		if err != nil {
			return nil, err
		}
		return ring, nil
	case config.KeyBackendFile, "":
		path, err := cfg.KeyFilePath()
		if err != nil {
			return nil, &vault.KeyError{Source: "key file", Err: err}
		}
		return vault.FileSource{Path: path}, nil
	}
	return nil, fmt.Errorf("unknown key backend %q", cfg.KeyBackend)
}

// Run polls the clipboard and sweeps expired entries until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Monitor.Run(ctx)
	})
	g.Go(func() error {
		return s.runSweeper(ctx)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Sweep removes entries older than the retention window once.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.Store.Sweep(ctx, s.Config.Retention())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Log.Info(ctx, "swept expired entries", "component", "sweeper", "count", n)
	}
	return n, nil
}

func (s *Service) runSweeper(ctx context.Context) error {
	if _, err := s.Sweep(ctx); err != nil {
		s.Log.Error(ctx, "sweep failed", "component", "sweeper", "err", err)
	}

	ticker := time.NewTicker(s.Config.SweepInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.Log.Error(ctx, "sweep failed", "component", "sweeper", "err", err)
			}
		}
	}
}

// Close releases the store.
func (s *Service) Close() error {
	return s.Store.Close()
}
