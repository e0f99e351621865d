package skill

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// Discovery handles skill discovery from configured corpus directories
type Discovery struct {
	skillDirs   []string
	ignoreGlobs []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories. Earlier directories take
// precedence when two skills share a name.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithIgnoreGlobs sets doublestar patterns for directory basenames to skip
// during discovery, e.g. "node_modules" or "*-wip".
func WithIgnoreGlobs(globs ...string) Option {
	return func(d *Discovery) error {
		for _, g := range globs {
			if !doublestar.ValidatePattern(g) {
				return errors.Errorf("invalid ignore pattern %q", g)
			}
		}
		d.ignoreGlobs = globs
		return nil
	}
}

// WithDefaultDirs initializes with the default corpus layout: skill
// directories at the repository root and under ./skills.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		d.skillDirs = []string{".", "skills"}
		d.ignoreGlobs = []string{".*", "node_modules", "docs"}
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// LoadFailure records a directory that carries a SKILL.md which could not
// be loaded: malformed YAML, missing frontmatter, or missing required fields.
type LoadFailure struct {
	Directory string
	Err       error
}

// DiscoverSkills finds all loadable skills in the configured directories.
// Directories that do not exist, or subdirectories without a SKILL.md, are
// skipped; a SKILL.md that exists but fails to load is returned as a
// LoadFailure so callers can surface it rather than silently report a
// clean corpus.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, []LoadFailure, error) {
	skills := make(map[string]*Skill)
	var failures []LoadFailure

	for _, dir := range d.skillDirs {
		failures = append(failures, d.discoverSkillsFromDir(dir, skills)...)
	}

	return skills, failures, nil
}

func (d *Discovery) discoverSkillsFromDir(dir string, skills map[string]*Skill) []LoadFailure {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var failures []LoadFailure
	for _, entry := range entries {
		if d.ignored(entry.Name()) {
			continue
		}

		entryPath := filepath.Join(dir, entry.Name())

		// Stat follows symlinks so linked skill directories work
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillPath := filepath.Join(entryPath, SkillFileName)
		if _, err := os.Stat(skillPath); err != nil {
			// not a skill directory
			continue
		}

		skill, err := Load(skillPath)
		if err != nil {
			failures = append(failures, LoadFailure{Directory: entryPath, Err: err})
			continue
		}

		if _, exists := skills[skill.Name]; !exists {
			skills[skill.Name] = skill
		}
	}
	return failures
}

func (d *Discovery) ignored(name string) bool {
	for _, g := range d.ignoreGlobs {
		if ok, err := doublestar.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, _, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the sorted names of all available skills
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, _, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
