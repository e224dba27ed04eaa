package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gostitch/stitch"
	"github.com/gostitch/stitch/design"
	"github.com/gostitch/stitch/svg"
)

var renderFlags struct {
	output    string
	showJumps bool
	margin    float64
}

var renderCmd = &cobra.Command{
	Use:   "render <design.yaml>",
	Short: "Export the computed stitch path as an SVG document",
	Args:  cobra.ExactArgs(1),
	Run:   runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "out.svg", "output file")
	renderCmd.Flags().BoolVar(&renderFlags.showJumps, "jumps", true, "render jump moves as dashed lines")
	renderCmd.Flags().Float64Var(&renderFlags.margin, "margin", 5, "document margin in mm")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
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

	opts := svg.Options{
		Margin:    renderFlags.margin,
		ShowJumps: renderFlags.showJumps,
	}
	if err := svg.EncodeFile(renderFlags.output, path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", renderFlags.output, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d stitches, %d jumps\n", renderFlags.output, len(path), path.Jumps())
}
