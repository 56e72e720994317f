package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/perf-stats/internal/webui"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var className, methodName, format string

	cmd := &cobra.Command{
		Use:   "query <report>",
		Short: "Show the time records of one method",
		Long: `Load a report and print the time records of a method.

When the qualified class name has no records, the short class name is tried.
Use <init> as the method name for constructors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			if err := loadReport(ctx, svc, args[0], format); err != nil {
				return err
			}

			records, err := svc.GetTimeRecords(ctx, className, methodName)
			if err != nil {
				return err
			}

			views := webui.NewRecordViews(records)
			return render(cmd.OutOrStdout(), opts.output, views, func(tw *tabwriter.Writer) {
				if len(views) == 0 {
					fmt.Fprintf(tw, "No time records for %s.%s\n", className, methodName)
					return
				}
				fmt.Fprintln(tw, "PERCENT\tSAMPLES\tTIME(ns)\tIMPACT\tREFERENCE")
				for _, v := range views {
					fmt.Fprintf(tw, "%.2f%%\t%d\t%d\t%s\t%s\n",
						v.Percent(), v.SampleCount, v.AbsoluteTimeNanos, v.Impact, v.Reference)
				}
			})
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "Qualified class name (required)")
	cmd.Flags().StringVar(&methodName, "method", "", "Method name (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format key (default from config)")
	cmd.MarkFlagRequired("class")
	cmd.MarkFlagRequired("method")
	return cmd
}
