package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skillhq/skillpack/pkg/archive"
	"github.com/skillhq/skillpack/pkg/skill"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
	defaultMaxLines      = 500
)

var kebabCase = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func defaultRules(cfg Config) []Rule {
	maxLines := cfg.MaxLines
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}

	return []Rule{
		nameFormatRule{},
		nameMatchesDirRule{},
		descriptionLengthRule{},
		descriptionTriggersRule{},
		lineBudgetRule{maxLines: maxLines},
		archivePresentRule{},
		archiveSyncRule{},
		referenceFilesRule{},
		unknownKeysRule{},
	}
}

type nameFormatRule struct{}

func (nameFormatRule) ID() string                { return "name-format" }
func (nameFormatRule) DefaultSeverity() Severity { return SeverityError }

func (nameFormatRule) Check(s *skill.Skill) []string {
	var msgs []string
	if !kebabCase.MatchString(s.Name) {
		msgs = append(msgs, fmt.Sprintf("name %q is not kebab-case", s.Name))
	}
	if len(s.Name) > maxNameLength {
		msgs = append(msgs, fmt.Sprintf("name is %d chars, limit is %d", len(s.Name), maxNameLength))
	}
	return msgs
}

type nameMatchesDirRule struct{}

func (nameMatchesDirRule) ID() string                { return "name-matches-dir" }
func (nameMatchesDirRule) DefaultSeverity() Severity { return SeverityError }

func (nameMatchesDirRule) Check(s *skill.Skill) []string {
	dir := filepath.Base(s.Directory)
	if s.Name != dir {
		return []string{fmt.Sprintf("frontmatter name %q does not match directory %q", s.Name, dir)}
	}
	return nil
}

type descriptionLengthRule struct{}

func (descriptionLengthRule) ID() string                { return "description-length" }
func (descriptionLengthRule) DefaultSeverity() Severity { return SeverityError }

func (descriptionLengthRule) Check(s *skill.Skill) []string {
	if len(s.Description) > maxDescriptionLength {
		return []string{fmt.Sprintf("description is %d chars, limit is %d", len(s.Description), maxDescriptionLength)}
	}
	return nil
}

type descriptionTriggersRule struct{}

func (descriptionTriggersRule) ID() string                { return "description-triggers" }
func (descriptionTriggersRule) DefaultSeverity() Severity { return SeverityWarning }

var triggerPhrases = []string{"use when", "use this", "trigger"}

func (descriptionTriggersRule) Check(s *skill.Skill) []string {
	desc := strings.ToLower(s.Description)
	for _, phrase := range triggerPhrases {
		if strings.Contains(desc, phrase) {
			return nil
		}
	}
	return []string{"description has no trigger phrasing (e.g. \"use when ...\") to guide agent activation"}
}

type lineBudgetRule struct {
	maxLines int
}

func (lineBudgetRule) ID() string                { return "line-budget" }
func (lineBudgetRule) DefaultSeverity() Severity { return SeverityError }

func (r lineBudgetRule) Check(s *skill.Skill) []string {
	if s.Lines > r.maxLines {
		return []string{fmt.Sprintf("SKILL.md is %d lines, budget is %d", s.Lines, r.maxLines)}
	}
	return nil
}

type archivePresentRule struct{}

func (archivePresentRule) ID() string                { return "archive-present" }
func (archivePresentRule) DefaultSeverity() Severity { return SeverityError }

func (archivePresentRule) Check(s *skill.Skill) []string {
	zipPath := archive.ArchivePath(s.Directory)
	if _, err := os.Stat(zipPath); err != nil {
		return []string{fmt.Sprintf("distribution archive %s is missing", filepath.Base(zipPath))}
	}
	return nil
}

type archiveSyncRule struct{}

func (archiveSyncRule) ID() string                { return "archive-sync" }
func (archiveSyncRule) DefaultSeverity() Severity { return SeverityError }

func (archiveSyncRule) Check(s *skill.Skill) []string {
	zipPath := archive.ArchivePath(s.Directory)
	if _, err := os.Stat(zipPath); err != nil {
		// archive-present already reports the missing archive
		return nil
	}

	diff, err := archive.Verify(s.Directory, zipPath)
	if err != nil {
		return []string{fmt.Sprintf("failed to verify archive: %v", err)}
	}

	var msgs []string
	for _, name := range diff.Missing {
		msgs = append(msgs, fmt.Sprintf("%s is not in the archive", name))
	}
	for _, name := range diff.Extra {
		msgs = append(msgs, fmt.Sprintf("%s is in the archive but not the directory", name))
	}
	for _, name := range diff.Changed {
		msgs = append(msgs, fmt.Sprintf("%s differs from the archived copy", name))
	}
	return msgs
}

var markdownLink = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

type referenceFilesRule struct{}

func (referenceFilesRule) ID() string                { return "reference-files" }
func (referenceFilesRule) DefaultSeverity() Severity { return SeverityError }

func (referenceFilesRule) Check(s *skill.Skill) []string {
	var msgs []string
	for _, match := range markdownLink.FindAllStringSubmatch(s.Content, -1) {
		target := match[1]
		if strings.Contains(target, "://") || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "mailto:") {
			continue
		}
		if idx := strings.Index(target, "#"); idx != -1 {
			target = target[:idx]
		}
		if target == "" {
			continue
		}

		resolved := filepath.Join(s.Directory, filepath.FromSlash(target))
		if _, err := os.Stat(resolved); err != nil {
			msgs = append(msgs, fmt.Sprintf("referenced file %s does not exist", target))
		}
	}
	return msgs
}

type unknownKeysRule struct{}

func (unknownKeysRule) ID() string                { return "frontmatter-unknown-keys" }
func (unknownKeysRule) DefaultSeverity() Severity { return SeverityWarning }

func (unknownKeysRule) Check(s *skill.Skill) []string {
	var msgs []string
	for _, key := range s.UnknownKeys {
		msgs = append(msgs, fmt.Sprintf("frontmatter key %q is not part of the packaging convention", key))
	}
	return msgs
}
