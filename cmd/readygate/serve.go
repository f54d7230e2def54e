package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/config"
	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/events"
	"github.com/alfredjeanlab/readygate/internal/host"
	"github.com/alfredjeanlab/readygate/internal/rate"
	"github.com/alfredjeanlab/readygate/internal/server"
	"github.com/alfredjeanlab/readygate/internal/store"
	"github.com/alfredjeanlab/readygate/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run a gate for one room and participant",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		table, err := rate.LoadTable(cfg.RateTable)
		if err != nil {
			return err
		}

		// Connect to Postgres when configured.
		var st store.Store
		if cfg.DatabaseURL != "" {
			pg, err := postgres.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()
			st = pg
			logger.Info("room store enabled")
		} else {
			logger.Info("room store disabled (READYGATE_DATABASE_URL not set)")
		}

		// Event bus: NATS when configured, otherwise in-process.
		var (
			publisher  events.Publisher
			subscriber events.Subscriber
		)
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			defer pub.Close()
			sub, err := events.NewNATSSubscriber(cfg.NATSURL, logger)
			if err != nil {
				return err
			}
			defer sub.Close()
			publisher, subscriber = pub, sub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			bus := events.NewMemoryBus(logger)
			defer bus.Close()
			publisher, subscriber = bus, bus
			logger.Info("events in-process only (READYGATE_NATS_URL not set)")
		}

		// Create server components.
		button := control.NewButton(cfg.Label, cfg.BaseTooltip)
		gateServer := server.NewGateServer(cfg.RoomID, cfg.UserID, button, logger)
		grpcServer := server.NewGRPCServer(gateServer, cfg.AuthToken)

		// Start gRPC listener.
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: gateServer.NewHTTPHandler(cfg.AuthToken),
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Run the gate loop until SIGINT/SIGTERM or a fatal loop error.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		loop := host.NewLoop(host.LoopConfig{
			RoomID:       cfg.RoomID,
			UserID:       cfg.UserID,
			Control:      button,
			Store:        st,
			Publisher:    publisher,
			Rate:         table.Rate,
			TickInterval: cfg.TickInterval,
			Logger:       logger,
		})
		loopErr := make(chan error, 1)
		go func() {
			loopErr <- loop.Run(ctx, subscriber)
		}()

		logger.Info("readygate server started",
			"loop_id", loop.ID(),
			"room_id", cfg.RoomID,
			"user_id", cfg.UserID,
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		var runErr error
		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down")
			<-loopErr
		case runErr = <-loopErr:
			if runErr != nil {
				logger.Error("gate loop stopped", "err", runErr)
			} else {
				logger.Info("gate loop stopped, shutting down")
			}
		}

		// Graceful shutdown.
		gateServer.Shutdown()
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		logger.Info("shutdown complete")
		return runErr
	},
}
