package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/presenter"
	"github.com/skillhq/skillpack/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		info := version.Get()
		if asJSON {
			out, err := info.JSON()
			if err != nil {
				presenter.Error(err, "Failed to render version")
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}
		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)
}
