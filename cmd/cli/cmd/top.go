package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTopCmd(opts *rootOptions) *cobra.Command {
	var (
		topN   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "top <report>",
		Short: "Show the methods with the highest share of profiled time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topN < 0 {
				return fmt.Errorf("invalid -n %d: must not be negative", topN)
			}

			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := loadReport(cmd.Context(), svc, args[0], format); err != nil {
				return err
			}

			entries := svc.Top(topN)
			return render(cmd.OutOrStdout(), opts.output, entries, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "RANK\tPERCENT\tSAMPLES\tRECORDS\tIMPACT\tMETHOD")
				for i, e := range entries {
					fmt.Fprintf(tw, "%d\t%.2f%%\t%d\t%d\t%s\t%s.%s\n",
						i+1, e.RelativeTime*100, e.SampleCount, e.Records, e.Impact,
						e.Reference.QualifiedName(), e.Reference.MemberName())
				}
			})
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 0, "Number of methods to show (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format key (default from config)")
	return cmd
}
