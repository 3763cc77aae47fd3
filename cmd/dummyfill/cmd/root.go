package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command; running it performs the fill
// itself, with subcommands for everything else.
var RootCmd = &cobra.Command{
	Use:   "dummyfill INPUT OUTPUT",
	Short: "insert dummy metal fill for CMP density closure",
	Long: `dummyfill reads a chip's conductor geometry and per-layer density
rules from INPUT, places dummy fill shapes to bring every density
window within its [min, max] bounds, and writes the placed fillers to
OUTPUT, one "x1 y1 x2 y2 layerId" line per filler.`,
	Args: cobra.ExactArgs(2),
	Run:  doFill,
}

// Execute adds all child commands to the root command and runs it. This
// is called by main.main(). It only needs to happen once to RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
