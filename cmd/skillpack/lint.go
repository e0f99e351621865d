package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/corpus"
	"github.com/skillhq/skillpack/pkg/presenter"
)

type LintConfig struct {
	Format string
	FailOn string
	Root   string
}

func NewLintConfig() *LintConfig {
	return &LintConfig{
		Format: "table",
		FailOn: "error",
		Root:   ".",
	}
}

var lintCmd = &cobra.Command{
	Use:   "lint [root]",
	Short: "Validate the skill corpus and its lifecycle documents",
	Long: `Lint every discovered skill against the packaging convention (naming,
frontmatter, line budget, reference integrity, archive freshness) and
validate the documents under docs/plan and docs/spec.

Examples:
  skillpack lint
  skillpack lint ./corpus --format json
  skillpack lint --fail-on warning`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getLintConfigFromFlags(cmd, args)

		report, err := buildReport(config.Root)
		if err != nil {
			presenter.Error(err, "Failed to lint corpus")
			os.Exit(1)
		}

		switch config.Format {
		case "json":
			out, err := report.JSON()
			if err != nil {
				presenter.Error(err, "Failed to render report")
				os.Exit(1)
			}
			fmt.Println(out)
		default:
			renderReport(report)
		}

		if report.HasErrors() || (config.FailOn == "warning" && report.HasWarnings()) {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().StringP("format", "f", defaults.Format, "Output format (table, json)")
	lintCmd.Flags().String("fail-on", defaults.FailOn, "Lowest severity that fails the run (warning, error)")
	rootCmd.AddCommand(lintCmd)
}

func getLintConfigFromFlags(cmd *cobra.Command, args []string) *LintConfig {
	config := NewLintConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if failOn, err := cmd.Flags().GetString("fail-on"); err == nil {
		config.FailOn = failOn
	}
	if len(args) > 0 {
		config.Root = args[0]
	}
	return config
}

func buildReport(root string) (*corpus.Report, error) {
	discovery, err := newDiscovery()
	if err != nil {
		return nil, err
	}
	linter, err := newLinter()
	if err != nil {
		return nil, err
	}
	return corpus.Build(root, discovery, linter)
}

func renderReport(report *corpus.Report) {
	errorCount, warningCount := report.Counts()

	if len(report.Findings) > 0 {
		presenter.Section("Skill Findings")
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tSKILL\tRULE\tMESSAGE")
		for _, f := range report.Findings {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Level, f.Skill, f.Rule, f.Message)
		}
		tw.Flush()
	}

	if len(report.DocIssues) > 0 {
		presenter.Section("Document Issues")
		for _, issue := range report.DocIssues {
			presenter.Warning(fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		}
	}

	summary := fmt.Sprintf("%d skill(s), %d document(s): %d error(s), %d warning(s)",
		report.SkillCount, report.DocCount, errorCount, warningCount)
	if report.HasErrors() {
		presenter.Warning(summary)
	} else {
		presenter.Success(summary)
	}
}
