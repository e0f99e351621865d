package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// [ \t]*$ rather than \s*$: the latter would swallow the trailing newline in
// multiline mode when the row is the document's last line.
var lastUpdatedRow = regexp.MustCompile(`(?m)^(\|\s*\**Last Updated\**\s*\|)[^|]*(\|)[ \t]*$`)

var linksRow = regexp.MustCompile(`(?m)^(\|\s*\**Links\**\s*\|)([^|]*)(\|)[ \t]*$`)

// Promote moves an accepted plan into the spec directory. The plan's
// decision status must be Accepted; the Last Updated row is rewritten to
// today's date and a link back to the originating plan path is recorded in
// the Links row. It returns the new document path and the spec sections the
// document still lacks, which the caller may surface as warnings.
func Promote(planPath, specDir string) (string, []string, error) {
	doc, err := Parse(planPath, KindPlan)
	if err != nil {
		return "", nil, err
	}

	if doc.Status.DecisionStatus != StatusAccepted {
		return "", nil, errors.Errorf("plan %s has decision status %s, only Accepted plans can be promoted",
			filepath.Base(planPath), doc.Status.DecisionStatus)
	}

	specPath := filepath.Join(specDir, filepath.Base(planPath))
	if _, err := os.Stat(specPath); err == nil {
		return "", nil, errors.Errorf("spec %s already exists", specPath)
	}

	if err := os.MkdirAll(specDir, 0o755); err != nil {
		return "", nil, errors.Wrap(err, "failed to create spec directory")
	}

	content := stampLastUpdated(doc.Body, time.Now())
	content = recordPlanLink(content, planPath)

	if err := os.WriteFile(specPath, []byte(content), 0o644); err != nil {
		return "", nil, errors.Wrap(err, "failed to write spec document")
	}
	if err := os.Remove(planPath); err != nil {
		return "", nil, errors.Wrap(err, "failed to remove plan document")
	}

	return specPath, missingSpecSections(doc), nil
}

func stampLastUpdated(content string, now time.Time) string {
	date := now.Format("2006-01-02")
	return lastUpdatedRow.ReplaceAllString(content, "${1} "+date+" ${2}")
}

// recordPlanLink appends a link to the originating plan in the Links row,
// adding the row after Last Updated when the table has none.
func recordPlanLink(content, planPath string) string {
	link := fmt.Sprintf("[plan](%s)", filepath.ToSlash(filepath.Clean(planPath)))

	if loc := linksRow.FindStringSubmatchIndex(content); loc != nil {
		existing := strings.TrimSpace(content[loc[4]:loc[5]])
		value := " " + link + " "
		if existing != "" && existing != "-" {
			value = " " + existing + ", " + link + " "
		}
		return content[:loc[4]] + value + content[loc[5]:]
	}

	return lastUpdatedRow.ReplaceAllString(content, "${0}\n| **Links** | "+link+" |")
}

func missingSpecSections(doc *Document) []string {
	have := make(map[string]bool, len(doc.Sections))
	for _, s := range doc.Sections {
		have[s] = true
	}

	var missing []string
	for _, required := range RequiredSections(KindSpec) {
		if !have[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// DirFor returns the conventional directory for a document kind under root.
func DirFor(root string, kind Kind) string {
	return filepath.Join(root, "docs", string(kind))
}

// ValidateDir parses and validates every Markdown document beneath the
// docs/plan and docs/spec directories of root. It returns the parsed
// documents and a map of per-path validation errors.
func ValidateDir(root string) ([]*Document, map[string]error) {
	var parsed []*Document
	failures := map[string]error{}

	for _, kind := range []Kind{KindPlan, KindSpec} {
		dir := DirFor(root, kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			doc, err := Parse(path, kind)
			if err != nil {
				failures[path] = err
				continue
			}
			if err := doc.Validate(); err != nil {
				failures[path] = err
				continue
			}
			parsed = append(parsed, doc)
		}
	}

	return parsed, failures
}
