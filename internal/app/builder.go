// Package app wires the components together: config handle, venue gateway,
// ledger (+ optional archiver), order manager, pulse supervisor, HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"vortex/internal/config"
	"vortex/internal/gateway"
	"vortex/internal/gateway/exchange"
	"vortex/internal/ledger"
	"vortex/internal/logger"
	"vortex/internal/order"
	"vortex/internal/pulse"
	httpapi "vortex/internal/transport/http"
)

// ErrVenueInit marks venue resolution failures so the entrypoint can map
// them to a distinct exit code.
var ErrVenueInit = errors.New("venue init failed")

const stopTimeout = 60 * time.Second

type App struct {
	handle     *config.Handle
	venue      exchange.Exchange
	led        *ledger.Ledger
	archiver   *ledger.SQLiteArchiver
	manager    *order.Manager
	supervisor *pulse.Supervisor
	server     *httpapi.Server

	loopCtx    context.Context
	loopCancel context.CancelFunc
}

func New(cfg *config.Config, cfgPath string) (*App, error) {
	handle := config.NewHandle(cfg)
	if cfgPath != "" {
		if err := handle.Watch(cfgPath); err != nil {
			logger.Warnf("config watch disabled: %v", err)
		}
	}

	venue, err := gateway.Resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVenueInit, err)
	}

	led := ledger.New(ledger.DefaultCapacity)
	var archiver *ledger.SQLiteArchiver
	if cfg.Archive.Path != "" {
		archiver, err = ledger.NewSQLiteArchiver(cfg.Archive.Path)
		if err != nil {
			// Archival is an observer; its absence must not stop trading.
			logger.Warnf("ledger archive disabled: %v", err)
		} else {
			led.SetArchiver(archiver)
		}
	}

	manager := order.NewManager(handle, venue, led)

	loopCtx, loopCancel := context.WithCancel(context.Background())
	supervisor := pulse.NewSupervisor(loopCtx, handle, venue, manager, led)

	router := httpapi.NewRouter(manager, supervisor, venue, led, cfg.Trading.Timeframe)
	server, err := httpapi.NewServer(cfg.App.HTTPAddr, router)
	if err != nil {
		loopCancel()
		return nil, err
	}

	return &App{
		handle:     handle,
		venue:      venue,
		led:        led,
		archiver:   archiver,
		manager:    manager,
		supervisor: supervisor,
		server:     server,
		loopCtx:    loopCtx,
		loopCancel: loopCancel,
	}, nil
}

// Run starts the configured pulse loops and the HTTP server, then blocks
// until ctx is canceled or the server fails. Shutdown order: stop loops
// (flatten), stop HTTP, close the venue session and archive.
func (a *App) Run(ctx context.Context) error {
	for _, sym := range a.handle.Active().Trading.Symbols {
		if err := a.supervisor.Start(sym); err != nil {
			logger.Warnf("pulse start %s failed: %v", sym, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Start(gctx)
	})
	logger.Infof("vortex up: http=%s venue=%s mode=%s",
		a.server.Addr(), a.venue.Name(), a.handle.Active().Mode())

	err := g.Wait()

	a.loopCancel()
	a.supervisor.StopAll(stopTimeout)
	if cerr := a.venue.Close(); cerr != nil {
		logger.Warnf("venue close: %v", cerr)
	}
	if a.archiver != nil {
		if cerr := a.archiver.Close(); cerr != nil {
			logger.Warnf("archive close: %v", cerr)
		}
	}
	return err
}
