// Package skill provides the corpus model for agent skills: directories
// containing a SKILL.md file with YAML frontmatter describing the skill's
// purpose and Markdown instructions for the agent that loads it.
package skill

// SkillFileName is the canonical instruction file inside a skill directory.
const SkillFileName = "SKILL.md"

// Skill represents a loaded skill with its metadata and instruction body
type Skill struct {
	Name        string   // Unique name from frontmatter
	Description string   // Description used by agents to decide when to load the skill
	Directory   string   // Full path to the skill directory
	Path        string   // Full path to the SKILL.md file
	Content     string   // Body of SKILL.md with the frontmatter stripped
	Lines       int      // Total line count of SKILL.md including frontmatter
	Meta        Metadata // Decoded frontmatter
	UnknownKeys []string // Frontmatter keys outside the packaging convention
}

// Metadata represents the YAML frontmatter in SKILL.md files
type Metadata struct {
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Compatibility string     `yaml:"compatibility,omitempty"`
	License       string     `yaml:"license,omitempty"`
	AllowedTools  []string   `yaml:"allowed-tools,omitempty"`
	Extra         *ExtraMeta `yaml:"metadata,omitempty"`
}

// ExtraMeta holds the optional nested metadata block
type ExtraMeta struct {
	Author  string `yaml:"author,omitempty"`
	Version string `yaml:"version,omitempty"`
}
