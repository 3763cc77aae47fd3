package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/metalfill/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create an engine tuning file",
	Long: `Create an engine tuning file in YAML format, prefilled with default
values.

If FILE is not provided, 'dummyfill.yml' is used`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "dummyfill.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		if ok, err := confirmIfExists(path,
			fmt.Sprintf("file name %s already exists, overwrite? [y/N]", path)); !ok {
			if err == nil {
				fmt.Println("aborted by user...")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}
		if err := config.Write(path, config.Default()); err != nil {
			fmt.Println("error,", err)
			return
		}
		fmt.Printf("engine config written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
