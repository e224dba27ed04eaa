package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gostitch/stitch"
	"github.com/gostitch/stitch/design"
)

var infoCmd = &cobra.Command{
	Use:   "info <design.yaml>",
	Short: "Summarize a design and its computed stitch path",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
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

	fmt.Printf("Design: %s\n", project.Name)
	fmt.Printf("Layers: %d (%d visible)\n", len(project.Layers), len(project.VisibleLayers()))
	for _, layer := range project.Layers {
		visibility := "visible"
		if !layer.Visible {
			visibility = "hidden"
		}
		fmt.Printf("  %-20s %-8s %d partitions\n", layer.Name, visibility, len(layer.Partitions))
		for _, part := range layer.Partitions {
			fmt.Printf("    %-18s %s %dx%d (%d cells)\n",
				part.Name, part.Fill.Style,
				part.Mask.Width(), part.Mask.Height(), part.Mask.Count())
		}
	}

	fmt.Println("\nStitch path:")
	fmt.Printf("  Stitches: %d\n", len(path))
	fmt.Printf("  Jumps: %d\n", path.Jumps())
	fmt.Printf("  Thread: %.1f mm\n", path.ThreadLength())
	if min, max, ok := path.Bounds(); ok {
		fmt.Printf("  Extent: %.1f x %.1f mm\n", max.X-min.X, max.Y-min.Y)
	}
}
