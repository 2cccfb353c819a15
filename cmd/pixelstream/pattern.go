package main

import (
	"github.com/spf13/cobra"

	"pixelstream/internal/pipeline"
)

func newPatternCommand(app *application) *cobra.Command {
	var (
		out           string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Write the bench test pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSize(width, height); err != nil {
				return err
			}
			return pipeline.NewSaver(app.logger).SaveToPath(out, pipeline.TestPattern(width, height))
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "input.pgm", "output image, format from extension")
	cmd.Flags().IntVar(&width, "width", 64, "pattern width")
	cmd.Flags().IntVar(&height, "height", 64, "pattern height")
	return cmd
}
