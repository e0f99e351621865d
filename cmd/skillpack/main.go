// Command skillpack validates, packages, and scaffolds agent-skill corpora:
// repositories of skill directories, each carrying a SKILL.md instruction
// document, plus plan/spec lifecycle documents under docs/.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillhq/skillpack/pkg/lint"
	"github.com/skillhq/skillpack/pkg/logger"
	"github.com/skillhq/skillpack/pkg/presenter"
	"github.com/skillhq/skillpack/pkg/skill"
)

func init() {
	viper.SetEnvPrefix("SKILLPACK")
	viper.AutomaticEnv()

	viper.SetConfigName("skillpack-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.skillpack")

	// Config file is optional
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillpack",
	Short: "Tooling for agent-skill corpora",
	Long: `skillpack maintains repositories of agent skills: directories with a
SKILL.md instruction document and YAML frontmatter, distributed as zip
archives, with design documents tracked under docs/plan and docs/spec.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level %q, using info", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		mode, err := presenter.ParseColorMode(viper.GetString("color"))
		if err != nil {
			presenter.Warning(fmt.Sprintf("%v, using auto", err))
		}
		presenter.SetColorMode(mode)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringSlice("skill-dir", nil, "Skill directories to operate on (repeatable, overrides config)")
	rootCmd.PersistentFlags().String("color", "auto", "Color output (auto, always, never)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("skill_dirs", rootCmd.PersistentFlags().Lookup("skill-dir"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newDiscovery builds a Discovery from the skill_dirs and ignore settings.
// The default corpus layout applies whenever skill_dirs is unset, regardless
// of other options.
func newDiscovery() (*skill.Discovery, error) {
	opts := []skill.Option{skill.WithDefaultDirs()}
	if dirs := viper.GetStringSlice("skill_dirs"); len(dirs) > 0 {
		opts = []skill.Option{skill.WithSkillDirs(dirs...)}
	}
	if globs := viper.GetStringSlice("ignore"); len(globs) > 0 {
		opts = append(opts, skill.WithIgnoreGlobs(globs...))
	}

	return skill.NewDiscovery(opts...)
}

// newLinter builds a Linter from the lint section of the config file.
func newLinter() (*lint.Linter, error) {
	var cfg lint.Config
	if err := viper.UnmarshalKey("lint", &cfg); err != nil {
		return nil, err
	}
	return lint.New(cfg)
}
