package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, SkillFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSkill(t, filepath.Join(tmpDir, "graphql-codegen"), `---
name: graphql-codegen
description: Use this skill when generating a typed GraphQL client from a schema.
compatibility: claude-code
license: MIT
metadata:
  author: skillhq
  version: 1.2.0
---

# GraphQL Codegen

## Instructions
Run the generator against the introspected schema.
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "graphql-codegen", s.Name)
	assert.Equal(t, "Use this skill when generating a typed GraphQL client from a schema.", s.Description)
	assert.Equal(t, filepath.Dir(path), s.Directory)
	assert.Equal(t, path, s.Path)
	assert.Contains(t, s.Content, "# GraphQL Codegen")
	assert.NotContains(t, s.Content, "---")
	assert.Equal(t, 14, s.Lines)
	assert.Empty(t, s.UnknownKeys)

	assert.Equal(t, "claude-code", s.Meta.Compatibility)
	assert.Equal(t, "MIT", s.Meta.License)
	require.NotNil(t, s.Meta.Extra)
	assert.Equal(t, "skillhq", s.Meta.Extra.Author)
	assert.Equal(t, "1.2.0", s.Meta.Extra.Version)
}

func TestLoadMissingFrontmatter(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSkill(t, filepath.Join(tmpDir, "no-meta"), "# Just a heading\n\nNo frontmatter here.\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing frontmatter")
}

func TestLoadMissingRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing name", func(t *testing.T) {
		path := writeSkill(t, filepath.Join(tmpDir, "nameless"), `---
description: A skill with no name.
---

Body.
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("missing description", func(t *testing.T) {
		path := writeSkill(t, filepath.Join(tmpDir, "descless"), `---
name: descless
---

Body.
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description is required")
	})
}

func TestLoadNonexistentFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", SkillFileName))
	assert.Error(t, err)
}

func TestLoadUnknownFrontmatterKeys(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeSkill(t, filepath.Join(tmpDir, "extra-keys"), `---
name: extra-keys
description: A skill with nonstandard frontmatter keys.
banner: art.png
tags: [db, sql]
---

Body.
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"banner", "tags"}, s.UnknownKeys)
}

func TestSplitFrontmatter(t *testing.T) {
	t.Run("normal document", func(t *testing.T) {
		fm, body := splitFrontmatter("---\nname: x\n---\n\nBody text.\n")
		assert.Equal(t, "name: x", fm)
		assert.Equal(t, "Body text.\n", body)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		fm, body := splitFrontmatter("Body only.\n")
		assert.Empty(t, fm)
		assert.Equal(t, "Body only.\n", body)
	})

	t.Run("unterminated frontmatter", func(t *testing.T) {
		fm, body := splitFrontmatter("---\nname: x\n\nBody.\n")
		assert.Empty(t, fm)
		assert.Equal(t, "---\nname: x\n\nBody.\n", body)
	})
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("one"))
	assert.Equal(t, 1, countLines("one\n"))
	assert.Equal(t, 3, countLines("a\nb\nc\n"))
}
