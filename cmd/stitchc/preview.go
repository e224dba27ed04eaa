package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gostitch/stitch"
	"github.com/gostitch/stitch/design"
	"github.com/gostitch/stitch/raster"
)

var previewFlags struct {
	output    string
	scale     float64
	showJumps bool
}

var previewCmd = &cobra.Command{
	Use:   "preview <design.yaml>",
	Short: "Render the computed stitch path as a PNG preview",
	Args:  cobra.ExactArgs(1),
	Run:   runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.output, "output", "o", "out.png", "output file")
	previewCmd.Flags().Float64Var(&previewFlags.scale, "scale", 4, "pixels per millimetre")
	previewCmd.Flags().BoolVar(&previewFlags.showJumps, "jumps", false, "render jump moves as gray lines")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	project, err := design.LoadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng := stitch.NewEngine()
	path, err := eng.AssembleProject(cmd.Context(), project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "computing stitch path: %v\n", err)
		os.Exit(1)
	}

	opts := raster.Options{
		Scale:     previewFlags.scale,
		Margin:    5,
		ShowJumps: previewFlags.showJumps,
	}
	if err := raster.RenderFile(previewFlags.output, path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", previewFlags.output, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d stitches, %d jumps\n", previewFlags.output, len(path), path.Jumps())
}
