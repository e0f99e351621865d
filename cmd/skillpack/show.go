package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Show a skill's metadata and instruction body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		s, err := discovery.GetSkill(args[0])
		if err != nil {
			presenter.Error(err, "Skill not found")
			os.Exit(1)
		}

		presenter.Section(s.Name)
		presenter.Info(fmt.Sprintf("Description: %s", s.Description))
		presenter.Info(fmt.Sprintf("Directory:   %s", s.Directory))
		presenter.Info(fmt.Sprintf("Lines:       %d", s.Lines))
		if s.Meta.Compatibility != "" {
			presenter.Info(fmt.Sprintf("Compat:      %s", s.Meta.Compatibility))
		}
		if s.Meta.License != "" {
			presenter.Info(fmt.Sprintf("License:     %s", s.Meta.License))
		}
		if s.Meta.Extra != nil {
			presenter.Info(fmt.Sprintf("Author:      %s", s.Meta.Extra.Author))
			presenter.Info(fmt.Sprintf("Version:     %s", s.Meta.Extra.Version))
		}
		presenter.Separator()
		fmt.Println(s.Content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
