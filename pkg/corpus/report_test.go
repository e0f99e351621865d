package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhq/skillpack/pkg/archive"
	"github.com/skillhq/skillpack/pkg/lint"
	"github.com/skillhq/skillpack/pkg/skill"
)

func setupCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	goodDir := filepath.Join(root, "good-skill")
	require.NoError(t, os.MkdirAll(goodDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(goodDir, skill.SkillFileName), []byte(`---
name: good-skill
description: Use when testing corpus reports.
---
Body.
`), 0o644))
	require.NoError(t, archive.Pack(goodDir, archive.ArchivePath(goodDir)))

	badDir := filepath.Join(root, "bad-skill")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, skill.SkillFileName), []byte(`---
name: mismatched
description: Use when testing corpus reports.
---
Body.
`), 0o644))

	planDir := filepath.Join(root, "docs", "plan")
	require.NoError(t, os.MkdirAll(planDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(planDir, "broken.md"), []byte("# Broken\n\nNo status table.\n"), 0o644))

	return root
}

func TestBuild(t *testing.T) {
	root := setupCorpus(t)

	discovery, err := skill.NewDiscovery(skill.WithSkillDirs(root))
	require.NoError(t, err)
	linter, err := lint.New(lint.Config{})
	require.NoError(t, err)

	report, err := Build(root, discovery, linter)
	require.NoError(t, err)

	assert.Equal(t, 2, report.SkillCount)
	assert.Equal(t, 1, report.DocCount)
	require.Len(t, report.DocIssues, 1)
	assert.Contains(t, report.DocIssues[0].Message, "no status table")

	var ruleIDs []string
	for _, f := range report.Findings {
		ruleIDs = append(ruleIDs, f.Rule)
	}
	assert.Contains(t, ruleIDs, "name-matches-dir")
	assert.Contains(t, ruleIDs, "archive-present")

	assert.True(t, report.HasErrors())

	errorCount, _ := report.Counts()
	assert.GreaterOrEqual(t, errorCount, 3)
}

func TestBuildReportsUnloadableSkills(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "half-written")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skill.SkillFileName), []byte(`---
name: half-written
---
Body with no description field above.
`), 0o644))

	discovery, err := skill.NewDiscovery(skill.WithSkillDirs(root))
	require.NoError(t, err)
	linter, err := lint.New(lint.Config{})
	require.NoError(t, err)

	report, err := Build(root, discovery, linter)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SkillCount)
	assert.True(t, report.HasErrors())

	require.NotEmpty(t, report.Findings)
	assert.Equal(t, LoadFailureRule, report.Findings[0].Rule)
	assert.Equal(t, "half-written", report.Findings[0].Skill)
	assert.Contains(t, report.Findings[0].Message, "description is required")
}

func TestBuildCleanCorpus(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tidy-skill")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skill.SkillFileName), []byte(`---
name: tidy-skill
description: Use when everything is in order.
---
Body.
`), 0o644))
	require.NoError(t, archive.Pack(dir, archive.ArchivePath(dir)))

	discovery, err := skill.NewDiscovery(skill.WithSkillDirs(root))
	require.NoError(t, err)
	linter, err := lint.New(lint.Config{})
	require.NoError(t, err)

	report, err := Build(root, discovery, linter)
	require.NoError(t, err)

	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
	assert.Equal(t, 1, report.SkillCount)
	assert.Empty(t, report.Findings)
}

func TestReportJSON(t *testing.T) {
	root := setupCorpus(t)

	discovery, err := skill.NewDiscovery(skill.WithSkillDirs(root))
	require.NoError(t, err)
	linter, err := lint.New(lint.Config{})
	require.NoError(t, err)

	report, err := Build(root, discovery, linter)
	require.NoError(t, err)

	out, err := report.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 2, decoded["skillCount"])
	assert.Contains(t, decoded, "findings")
}
