package cmd

import (
	"github.com/spf13/cobra"

	"github.com/perf-stats/internal/mcpserver"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var report, format string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the statistics as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout with the tools
list_formats, load_report, get_time_records and top_methods.

Logs go to the configured log output (stderr by default), never stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			if report != "" {
				if err := loadReport(cmd.Context(), svc, report, format); err != nil {
					return err
				}
			}
			return mcpserver.New(svc, Version, opts.logger).ServeStdio()
		},
	}

	cmd.Flags().StringVar(&report, "report", "", "Report to load before serving")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format key (default from config)")
	return cmd
}
