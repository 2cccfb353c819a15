package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pixelstream/internal/control"
	"pixelstream/internal/pipeline"
	"pixelstream/internal/shutdown"
)

func newTestbenchCommand(app *application) *cobra.Command {
	var (
		dir           string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "testbench",
		Short: "Run every filter mode over the test pattern and check the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSize(width, height); err != nil {
				return err
			}
			e, err := app.newEngine()
			if err != nil {
				return err
			}
			ctrl := control.New(e, app.logger)
			app.shutdown.Register("controller", shutdown.Func(ctrl.Abort))

			runner := pipeline.NewRunner(pipeline.ControllerRunner{Controller: ctrl}, app.logger, app.cfg.Buffer)
			bench := pipeline.NewBench(runner, app.logger)
			if dir != "" {
				bench.WriteTo(dir)
			}

			report, err := bench.Run(app.shutdown.Context(), width, height, pipeline.DefaultBenchCases())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Image size: %d x %d\n\n", report.Width, report.Height)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MODE\tTHRESHOLD\tMIN\tMAX\tAVG\tERRORS")
			for _, res := range report.Results {
				if res.Err != nil {
					fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t%v\n", res.Case.Mode, res.Case.Threshold, res.Err)
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%d\n",
					res.Case.Mode, res.Case.Threshold, res.Stats.Min, res.Stats.Max, res.Stats.Mean, res.Errors)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !report.Passed() {
				return fmt.Errorf("testbench failed with %d errors", report.Failures())
			}
			fmt.Fprintln(out, "\nALL TESTS PASSED")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write input.pgm and output_<mode>.pgm here")
	cmd.Flags().IntVar(&width, "width", 64, "pattern width")
	cmd.Flags().IntVar(&height, "height", 64, "pattern height")
	return cmd
}
