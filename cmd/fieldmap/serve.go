package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"fieldmap/internal/engine"
	"fieldmap/internal/metrics"
	"fieldmap/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mapping over HTTP",
	Long: `Starts an HTTP server that runs one session per POST /v1/process request
and exposes validation, the action catalogue and Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	ctx, err := loadContext(engine.WithMetrics(m))
	if err != nil {
		return err
	}

	if diags := ctx.Validate(); diags.HasErrors() {
		renderDiagnostics(cmd.ErrOrStderr(), diags)
		return errInvalidMapping
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.New(ctx, server.WithLogger(logger), server.WithGatherer(reg)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "mapping", mappingFile)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}

		logger.Info("server stopped")

		return nil
	}
}
