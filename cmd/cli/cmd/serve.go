package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/perf-stats/internal/webui"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port   int
		report string
		format string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statistics query API over HTTP",
		Long: `Start an HTTP server exposing the statistics as a JSON API:

  GET  /api/formats                     supported report formats
  POST /api/load    {"path","format"}   load a report
  GET  /api/records?class=&method=      time records of a method
  GET  /api/top?n=                      hottest methods
  GET  /api/snapshot                    installed snapshot
  GET  /api/history?limit=              recent loads
  GET  /api/metrics                     load and lookup counters
  GET  /healthz                         health check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if report != "" {
				if err := loadReport(ctx, svc, report, format); err != nil {
					return err
				}
			}

			serverCfg := opts.cfg.Server
			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}
			server := webui.NewServer(svc, serverCfg, opts.logger)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := server.Start(); err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				opts.logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port for the HTTP server (default from config)")
	cmd.Flags().StringVar(&report, "report", "", "Report to load before serving")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format key (default from config)")
	return cmd
}
