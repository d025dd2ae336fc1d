package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/contour/internal/cli"
	"github.com/aretw0/contour/internal/presentation/tui"
	httpAdapter "github.com/aretw0/contour/pkg/adapters/http"
	"github.com/aretw0/contour/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      string
		noMetrics bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP validation server",
		Long:  `Exposes the configured schema store as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				reg     *prometheus.Registry
				metrics *observability.Metrics
			)
			if !noMetrics {
				reg = prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				metrics = observability.NewMetrics(reg)
			}

			checker, logger, closeFn, err := a.checker(metrics)
			if err != nil {
				return err
			}
			defer closeFn()

			var handlerOpts []httpAdapter.Option
			handlerOpts = append(handlerOpts, httpAdapter.WithLogger(logger))
			if reg != nil {
				handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(reg))
			}

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           httpAdapter.NewHandler(checker, handlerOpts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if !quiet {
				tui.PrintBanner(cmd.ErrOrStderr())
			}
			cli.LogStartup(logger, "server", a.opts)

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Starting Contour Server on %s\n", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			ctx, stop := cli.NotifyShutdown(cmd.Context())
			defer stop()

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				fmt.Fprintln(cmd.ErrOrStderr(), "\nStart shutdown...")

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Contour Server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the banner")
	return cmd
}
