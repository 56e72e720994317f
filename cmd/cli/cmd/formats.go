package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported report formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			formats := svc.ListFormats()
			return render(cmd.OutOrStdout(), opts.output, formats, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "KEY\tNAME")
				for _, f := range formats {
					fmt.Fprintf(tw, "%s\t%s\n", f.Key, f.DisplayName)
				}
			})
		},
	}
}
