package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/groblegark/beacon/internal/config"
	"github.com/groblegark/beacon/internal/events"
	"github.com/groblegark/beacon/internal/port"
	"github.com/groblegark/beacon/internal/server"
	"github.com/groblegark/beacon/internal/store/memory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the event-collection HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		setupLogging(cfg)

		// Pick the port before binding. Failure here is fatal to the sidecar,
		// but the desktop shell that launched it keeps running without
		// ingestion.
		p, err := port.Pick(cfg.Port, cfg.FallbackStart, cfg.FallbackEnd)
		if err != nil {
			return err
		}
		if p != cfg.Port {
			slog.Warn("preferred port in use, selected fallback", "preferred", cfg.Port, "port", p)
		}

		// Create the notification publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			slog.Info("bus notifications enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			slog.Info("bus notifications disabled (BEACON_NATS_URL not set); subscriber uses /events/stream")
		}
		defer publisher.Close()

		st := memory.New(cfg.MaxEvents)
		srv := server.New(st, publisher, cfg.RecentLimit)

		// Loopback only: producers and the dashboard are local processes.
		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(p))
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("binding %s: %w", addr, err)
		}

		httpServer := &http.Server{Handler: srv.NewHTTPHandler()}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		srv.AnnounceOnline(ctx, p)
		slog.Info("beacon server started", "addr", addr, "max_events", cfg.MaxEvents)

		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(sctx)
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().String("config", "", "path to config.toml (default ~/.config/beacon/config.toml)")
}

// setupLogging installs the process-wide slog handler: text for interactive
// terminals, JSON otherwise, unless the config forces a format.
func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	format := cfg.LogFormat
	if format == "" || format == "auto" {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = "text"
		} else {
			format = "json"
		}
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
