package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/perf-stats/internal/repository"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent report loads",
		Long:  `List recent load attempts recorded in the history database (history.enabled=true).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			events, err := svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts.output, events, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tRECORDS\tDURATION\tSOURCE\tERROR")
				for _, e := range events {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
						e.ID, e.StartedAt.Format(time.RFC3339), e.Status, e.Records,
						e.Duration, e.Source, e.Error)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", repository.DefaultRecentLimit, "Number of events to show")
	return cmd
}
