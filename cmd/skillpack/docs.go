package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/docs"
	"github.com/skillhq/skillpack/pkg/presenter"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Work with plan and spec lifecycle documents",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var docsLintCmd = &cobra.Command{
	Use:   "lint [root]",
	Short: "Validate documents under docs/plan and docs/spec",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		parsed, failures := docs.ValidateDir(root)

		for _, doc := range parsed {
			presenter.Info(fmt.Sprintf("%s: %s [%s / %s]",
				doc.Path, doc.Title, doc.Status.DecisionStatus, doc.Status.ImplementationStatus))
		}
		for path, err := range failures {
			presenter.Error(err, path)
		}

		if len(failures) > 0 {
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("%d document(s) valid", len(parsed)))
	},
}

var docsPromoteCmd = &cobra.Command{
	Use:   "promote <plan-file>",
	Short: "Promote an accepted plan into docs/spec",
	Long: `Move an accepted plan document from docs/plan to docs/spec, stamping
the Last Updated row. Only plans with decision status Accepted can be
promoted.

Examples:
  skillpack docs promote docs/plan/corpus-packaging.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		planPath := args[0]
		specDir, err := cmd.Flags().GetString("spec-dir")
		if err != nil || specDir == "" {
			// Default: sibling docs/spec of the plan's docs/plan directory
			specDir = filepath.Join(filepath.Dir(filepath.Dir(planPath)), "spec")
		}

		specPath, missing, err := docs.Promote(planPath, specDir)
		if err != nil {
			presenter.Error(err, "Failed to promote plan")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Promoted %s to %s", planPath, specPath))
		for _, section := range missing {
			presenter.Warning(fmt.Sprintf("Promoted document lacks the '%s' section expected of specs", section))
		}
	},
}

func init() {
	docsPromoteCmd.Flags().String("spec-dir", "", "Destination spec directory (default: docs/spec beside the plan)")
	docsCmd.AddCommand(docsLintCmd)
	docsCmd.AddCommand(docsPromoteCmd)
	rootCmd.AddCommand(docsCmd)
}
