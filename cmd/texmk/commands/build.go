package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/texmk/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Build documents (defaults to every .tex file in the working directory)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.DVI, "dvi", "d", false, "Compile to dvi rather than pdf")
	cmd.Flags().BoolVarP(&opts.Clean, "clean", "c", false, "Remove generated files after building")

	return cmd
}
