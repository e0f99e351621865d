// Package corpus ties skill linting and lifecycle document validation into
// a single report over a corpus repository.
package corpus

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/skillhq/skillpack/pkg/docs"
	"github.com/skillhq/skillpack/pkg/lint"
	"github.com/skillhq/skillpack/pkg/skill"
)

// DocIssue is a failed plan or spec document
type DocIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Report aggregates every finding over a corpus
type Report struct {
	SkillCount int            `json:"skillCount"`
	DocCount   int            `json:"docCount"`
	Findings   []lint.Finding `json:"findings"`
	DocIssues  []DocIssue     `json:"docIssues"`
}

// LoadFailureRule identifies findings produced when a SKILL.md cannot be
// loaded at all, as opposed to findings from the configurable lint rules.
const LoadFailureRule = "skill-load"

// Build discovers skills, lints them, and validates the lifecycle documents
// under root. Skill directories whose SKILL.md fails to load become
// error-severity findings so a broken skill can never yield a clean report.
func Build(root string, discovery *skill.Discovery, linter *lint.Linter) (*Report, error) {
	skills, failures, err := discovery.DiscoverSkills()
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover skills")
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Directory < failures[j].Directory })

	findings := make([]lint.Finding, 0, len(failures))
	for _, f := range failures {
		findings = append(findings, lint.Finding{
			Rule:     LoadFailureRule,
			Severity: lint.SeverityError,
			Level:    lint.SeverityError.String(),
			Skill:    filepath.Base(f.Directory),
			Message:  f.Err.Error(),
		})
	}
	findings = append(findings, linter.LintCorpus(skills)...)

	report := &Report{
		SkillCount: len(skills) + len(failures),
		Findings:   findings,
	}

	parsed, docFailures := docs.ValidateDir(root)
	report.DocCount = len(parsed) + len(docFailures)

	paths := make([]string, 0, len(docFailures))
	for path := range docFailures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		report.DocIssues = append(report.DocIssues, DocIssue{Path: path, Message: docFailures[path].Error()})
	}

	return report, nil
}

// Counts returns the number of error and warning findings. Document issues
// always count as errors.
func (r *Report) Counts() (errorCount, warningCount int) {
	for _, f := range r.Findings {
		if f.Severity == lint.SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}
	return errorCount + len(r.DocIssues), warningCount
}

// HasErrors reports whether any error-severity finding or document issue exists.
func (r *Report) HasErrors() bool {
	errorCount, _ := r.Counts()
	return errorCount > 0
}

// HasWarnings reports whether any warning-severity finding exists.
func (r *Report) HasWarnings() bool {
	_, warningCount := r.Counts()
	return warningCount > 0
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal report")
	}
	return string(out), nil
}
