// Command stitchc computes embroidery stitch paths from design files and
// exports them as SVG documents or PNG previews.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gostitch/stitch"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "stitchc",
	Short: "Pixel-art embroidery stitch path compiler",
	Long: `stitchc converts pixel-art design files into embroidery stitch paths:
ordered needle penetration points satisfying machine constraints, with
jump markers where the thread must be lifted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			stitch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
