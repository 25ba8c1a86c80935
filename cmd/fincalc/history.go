package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/fincalc/internal/output"
	"github.com/rpgo/fincalc/internal/recorder"
	"github.com/spf13/cobra"
)

var errNoRecorder = errors.New("no run history configured: pass --record or set FINCALC_RECORD")

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := recorder.Open(cmd.Context(), opts.record, newCLILogger(cmd.ErrOrStderr(), opts.debug))
			if err != nil {
				return err
			}
			defer rec.Close()
			if _, ok := rec.(*recorder.NoopRecorder); ok {
				return errNoRecorder
			}

			runs, err := rec.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tNAME\tKIND\tFINAL BALANCE\tQUERY")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Name, r.Kind, output.FormatCurrency(r.FinalBalance), r.Query)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of runs to show")
	return cmd
}
