package main

import (
	"errors"
	"net/http"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjackroom/cmd/blackjackroom/shared"
	"github.com/lox/blackjackroom/internal/server"
)

// ServeCmd contains core server configuration
type ServeCmd struct {
	Config string `kong:"default='blackjackroom.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	config, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Debug {
		config.Server.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(config.Server.LogLevel)

	addr := config.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := server.NewServer(addr, logger)
	rooms := server.NewRoomService(config, srv, quartz.NewReal(), logger)
	srv.SetRoomService(rooms)

	logger.Info("Starting blackjack room server",
		"addr", addr,
		"min_players", config.Game.MinPlayers,
		"starting_balance", config.Game.StartingBalance,
		"dealer_delay", config.DealerDelay(),
	)

	ctx := shared.SetupSignalHandler(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		return srv.Stop()
	})
	return g.Wait()
}
