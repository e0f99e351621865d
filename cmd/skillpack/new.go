package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/presenter"
	"github.com/skillhq/skillpack/pkg/skill"
)

type NewSkillConfig struct {
	Parent      string
	Description string
	Author      string
	License     string
}

func NewNewSkillConfig() *NewSkillConfig {
	return &NewSkillConfig{
		Parent: ".",
	}
}

var newCmd = &cobra.Command{
	Use:   "new <skill-name>",
	Short: "Scaffold a new skill directory",
	Long: `Create a skill directory with a templated SKILL.md.

Examples:
  skillpack new pg-migrations
  skillpack new pg-migrations --description "Use when authoring migration plans." --author skillhq`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getNewSkillConfigFromFlags(cmd)

		meta := skill.Metadata{
			Name:        args[0],
			Description: config.Description,
			License:     config.License,
		}
		if config.Author != "" {
			meta.Extra = &skill.ExtraMeta{Author: config.Author, Version: "0.1.0"}
		}

		dir, err := skill.Scaffold(config.Parent, meta)
		if err != nil {
			presenter.Error(err, "Failed to scaffold skill")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Created skill '%s' at %s", args[0], dir))
		presenter.Info("Edit SKILL.md, then run 'skillpack pack' to build the distribution archive")
	},
}

func init() {
	defaults := NewNewSkillConfig()
	newCmd.Flags().StringP("parent", "p", defaults.Parent, "Parent directory for the new skill")
	newCmd.Flags().StringP("description", "d", defaults.Description, "Skill description with trigger phrasing")
	newCmd.Flags().String("author", defaults.Author, "Author recorded in the metadata block")
	newCmd.Flags().String("license", defaults.License, "License recorded in the frontmatter")
	rootCmd.AddCommand(newCmd)
}

func getNewSkillConfigFromFlags(cmd *cobra.Command) *NewSkillConfig {
	config := NewNewSkillConfig()
	if parent, err := cmd.Flags().GetString("parent"); err == nil {
		config.Parent = parent
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if author, err := cmd.Flags().GetString("author"); err == nil {
		config.Author = author
	}
	if license, err := cmd.Flags().GetString("license"); err == nil {
		config.License = license
	}
	return config
}
