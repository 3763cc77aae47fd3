package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arl/metalfill/config"
	"github.com/arl/metalfill/internal/diag"
	"github.com/arl/metalfill/ioformat"
	"github.com/arl/metalfill/solve"
)

var cfgVal string

func init() {
	RootCmd.Flags().StringVar(&cfgVal, "config", "", "engine tuning file (defaults built in if omitted)")
}

func doFill(cmd *cobra.Command, args []string) {
	inPath, outPath := args[0], args[1]

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Println("cannot open input,", err)
		os.Exit(1)
	}
	defer in.Close()

	db, err := ioformat.Parse(in)
	if err != nil {
		fmt.Println("malformed input,", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if cfgVal != "" {
		cfg, err = config.Load(cfgVal)
		if err != nil {
			fmt.Println("cannot load config,", err)
			os.Exit(1)
		}
	}

	var progress io.Writer = io.Discard
	if cfg.LogProgress {
		progress = os.Stderr
	}
	dctx := diag.NewContext(progress)

	dctx.StartTimer("total")
	results := solve.All(db, cfg.NumTileForWindow, dctx)
	dctx.StopTimer("total")

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Println("cannot open output,", err)
		os.Exit(1)
	}
	defer out.Close()

	ioResults := make([]ioformat.LayerResult, len(results))
	for i, r := range results {
		ioResults[i] = ioformat.LayerResult{LayerID: r.LayerID, Fillers: r.Fillers}
	}

	if err := ioformat.WriteResults(out, ioResults); err != nil {
		fmt.Println("cannot write output,", err)
		os.Exit(1)
	}
}
