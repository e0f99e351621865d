package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Frontmatter renders the metadata as a YAML frontmatter block, delimited
// by --- lines, suitable for the top of a SKILL.md file.
func (m Metadata) Frontmatter() (string, error) {
	var sb strings.Builder
	sb.WriteString("---\n")

	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return "", errors.Wrap(err, "failed to encode frontmatter")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to encode frontmatter")
	}

	sb.WriteString("---\n")
	return sb.String(), nil
}

// Scaffold creates a new skill directory under parent with a templated
// SKILL.md. It refuses to overwrite an existing skill.
func Scaffold(parent string, m Metadata) (string, error) {
	if m.Name == "" {
		return "", errors.New("skill name is required")
	}
	if m.Description == "" {
		m.Description = fmt.Sprintf("Use this skill when working with %s.", m.Name)
	}

	dir := filepath.Join(parent, m.Name)
	if _, err := os.Stat(filepath.Join(dir, SkillFileName)); err == nil {
		return "", errors.Errorf("skill '%s' already exists at %s", m.Name, dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create skill directory")
	}

	frontmatter, err := m.Frontmatter()
	if err != nil {
		return "", err
	}

	title := titleFromName(m.Name)
	content := fmt.Sprintf(`%s
# %s

## Overview

%s

## Instructions

1. Describe the first step here.
2. Describe the next step here.
`, frontmatter, title, m.Description)

	if err := os.WriteFile(filepath.Join(dir, SkillFileName), []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write SKILL.md")
	}

	return dir, nil
}

// titleFromName turns a kebab-case skill name into a document title.
func titleFromName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
