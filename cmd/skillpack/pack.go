package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/archive"
	"github.com/skillhq/skillpack/pkg/presenter"
	"github.com/skillhq/skillpack/pkg/skill"
)

type PackConfig struct {
	All   bool
	Check bool
}

func NewPackConfig() *PackConfig {
	return &PackConfig{}
}

var packCmd = &cobra.Command{
	Use:   "pack [skill-name]",
	Short: "Build or verify skill distribution archives",
	Long: `Build the {skill-name}.zip distribution archive for a skill, or for
every skill with --all. With --check, archives are verified against their
directories instead of rebuilt.

Examples:
  skillpack pack pg-migrations
  skillpack pack --all
  skillpack pack --all --check`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getPackConfigFromFlags(cmd)

		if len(args) == 0 && !config.All {
			presenter.Error(fmt.Errorf("either a skill name or --all is required"), "Nothing to pack")
			os.Exit(1)
		}

		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		var targets []*skill.Skill
		if config.All {
			allSkills, failures, err := discovery.DiscoverSkills()
			if err != nil {
				presenter.Error(err, "Failed to discover skills")
				os.Exit(1)
			}
			for _, failure := range failures {
				presenter.Warning(fmt.Sprintf("Skipping %s: %v", failure.Directory, failure.Err))
			}
			names := make([]string, 0, len(allSkills))
			for name := range allSkills {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				targets = append(targets, allSkills[name])
			}
		} else {
			s, err := discovery.GetSkill(args[0])
			if err != nil {
				presenter.Error(err, "Skill not found")
				os.Exit(1)
			}
			targets = []*skill.Skill{s}
		}

		failed := 0
		for _, s := range targets {
			if config.Check {
				if !verifyArchive(s) {
					failed++
				}
				continue
			}
			if err := archive.Pack(s.Directory, archive.ArchivePath(s.Directory)); err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to pack '%s'", s.Name))
				failed++
				continue
			}
			presenter.Success(fmt.Sprintf("Packed %s", archive.ArchivePath(s.Directory)))
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func verifyArchive(s *skill.Skill) bool {
	zipPath := archive.ArchivePath(s.Directory)
	diff, err := archive.Verify(s.Directory, zipPath)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to verify '%s'", s.Name))
		return false
	}
	if !diff.InSync() {
		presenter.Warning(fmt.Sprintf("%s is out of sync: %d missing, %d extra, %d changed",
			zipPath, len(diff.Missing), len(diff.Extra), len(diff.Changed)))
		return false
	}
	presenter.Success(fmt.Sprintf("%s is up to date", zipPath))
	return true
}

func init() {
	defaults := NewPackConfig()
	packCmd.Flags().BoolP("all", "a", defaults.All, "Pack every discovered skill")
	packCmd.Flags().Bool("check", defaults.Check, "Verify archives instead of rebuilding them")
	rootCmd.AddCommand(packCmd)
}

func getPackConfigFromFlags(cmd *cobra.Command) *PackConfig {
	config := NewPackConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	if check, err := cmd.Flags().GetBool("check"); err == nil {
		config.Check = check
	}
	return config
}
