package skill

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// knownFrontmatterKeys are the fields of the skill packaging convention.
var knownFrontmatterKeys = map[string]bool{
	"name":          true,
	"description":   true,
	"compatibility": true,
	"license":       true,
	"allowed-tools": true,
	"metadata":      true,
}

// Load parses a single SKILL.md file into a Skill. It fails when the file is
// missing, has no frontmatter, or the frontmatter lacks name or description.
func Load(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	frontmatter, body := splitFrontmatter(string(content))

	var m Metadata
	if err := yaml.Unmarshal([]byte(frontmatter), &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}

	if m.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if m.Description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        m.Name,
		Description: m.Description,
		Directory:   filepath.Dir(path),
		Path:        path,
		Content:     body,
		Lines:       countLines(string(content)),
		Meta:        m,
		UnknownKeys: unknownKeys(metaData),
	}, nil
}

// splitFrontmatter separates the YAML frontmatter block from the body.
// When no closed frontmatter block exists the whole content is the body.
func splitFrontmatter(content string) (frontmatter, body string) {
	if !strings.HasPrefix(content, "---") {
		return "", content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return "", content
	}

	frontmatter = strings.Join(lines[1:frontmatterEnd], "\n")
	body = strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
	return frontmatter, body
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

func unknownKeys(metaData map[string]interface{}) []string {
	var unknown []string
	for key := range metaData {
		if !knownFrontmatterKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
