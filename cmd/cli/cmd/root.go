package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/perf-stats/internal/service"
	"github.com/perf-stats/pkg/config"
	"github.com/perf-stats/pkg/telemetry"
	"github.com/perf-stats/pkg/utils"
)

// rootOptions holds global flags and the state built from them.
type rootOptions struct {
	configPath string
	verbose    bool
	output     string

	cfg       *config.Config
	logger    utils.Logger
	telemetry *telemetry.Telemetry
}

// NewRootCmd builds the perf-stats command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "perf-stats",
		Short: "Query method timing statistics from profiler reports",
		Long: `perf-stats loads flat sampling-profiler reports (async-profiler) and answers
"how much time was spent in this method" for a class and method name.

Reports can be read from local disk or Tencent COS (cos://<key>), plain or
gzip/zstd compressed. The statistics can be queried from the command line,
over an HTTP JSON API (serve) or as MCP tools (mcp).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.telemetry.Shutdown(context.Background()); err != nil {
				opts.logger.Warn("Failed to shut down telemetry: %v", err)
			}
			return nil
		},
	}

	binName := BinName()
	rootCmd.Example = `  # List supported report formats
  ` + binName + ` formats

  # Time spent in one method
  ` + binName + ` query ./flat.txt --class com.example.Matrix --method multiply

  # Hottest methods of a compressed report in COS, as JSON
  ` + binName + ` top cos://reports/flat.txt.zst -n 20 -o json

  # Serve the HTTP API with a preloaded report
  ` + binName + ` serve --report ./flat.txt --port 8080`

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json or yaml")

	rootCmd.AddCommand(
		newVersionCmd(),
		newFormatsCmd(opts),
		newQueryCmd(opts),
		newTopCmd(opts),
		newHistoryCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}

func (o *rootOptions) setup(ctx context.Context) error {
	if err := validateOutput(o.output); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	o.cfg = cfg

	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if o.verbose {
		logger.SetLevel(utils.LevelDebug)
	}
	o.logger = logger

	if ctx == nil {
		ctx = context.Background()
	}
	tel, err := telemetry.Init(ctx)
	if err != nil {
		logger.Warn("Telemetry disabled: %v", err)
	}
	o.telemetry = tel
	return nil
}

// newService builds the service described by the loaded configuration.
func (o *rootOptions) newService() (*service.Service, error) {
	svc, err := service.NewFromConfig(o.cfg, o.logger, o.telemetry)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// loadReport installs the report at location or fails with its error.
func loadReport(ctx context.Context, svc *service.Service, location, format string) error {
	if _, err := svc.Load(ctx, location, format); err != nil {
		return fmt.Errorf("failed to load %s: %w", location, err)
	}
	return nil
}
