// Package lint validates a skill corpus against the packaging convention:
// frontmatter shape, naming, line budgets, reference integrity, and
// distribution archive freshness.
package lint

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillhq/skillpack/pkg/skill"
)

// Severity classifies a finding
type Severity int

const (
	// SeverityWarning marks findings that do not fail the lint run by default
	SeverityWarning Severity = iota
	// SeverityError marks findings that fail the lint run
	SeverityError
)

// String returns the lowercase name of the severity
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// ParseSeverity parses "warning" or "error"
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityWarning, errors.Errorf("invalid severity %q", s)
	}
}

// Finding is a single rule violation against a skill
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"-"`
	Level    string   `json:"severity"`
	Skill    string   `json:"skill"`
	Message  string   `json:"message"`
}

// Rule checks one property of a skill
type Rule interface {
	ID() string
	DefaultSeverity() Severity
	Check(s *skill.Skill) []string
}

// Config tunes which rules run and how their findings are classified
type Config struct {
	// Disabled lists rule IDs that are skipped entirely
	Disabled []string `mapstructure:"disabled"`
	// Severities overrides the default severity per rule ID ("warning" or "error")
	Severities map[string]string `mapstructure:"severities"`
	// MaxLines overrides the SKILL.md line budget; zero keeps the default of 500
	MaxLines int `mapstructure:"max_lines"`
}

// Linter runs the rule set over skills
type Linter struct {
	rules      []Rule
	disabled   map[string]bool
	severities map[string]Severity
}

// New creates a Linter with the default rule set applied through cfg.
func New(cfg Config) (*Linter, error) {
	l := &Linter{
		rules:      defaultRules(cfg),
		disabled:   make(map[string]bool, len(cfg.Disabled)),
		severities: make(map[string]Severity, len(cfg.Severities)),
	}

	known := make(map[string]bool, len(l.rules))
	for _, r := range l.rules {
		known[r.ID()] = true
	}

	for _, id := range cfg.Disabled {
		if !known[id] {
			return nil, errors.Errorf("unknown lint rule %q", id)
		}
		l.disabled[id] = true
	}

	for id, raw := range cfg.Severities {
		if !known[id] {
			return nil, errors.Errorf("unknown lint rule %q", id)
		}
		sev, err := ParseSeverity(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q", id)
		}
		l.severities[id] = sev
	}

	return l, nil
}

// RuleIDs returns the IDs of all registered rules, sorted.
func (l *Linter) RuleIDs() []string {
	ids := make([]string, 0, len(l.rules))
	for _, r := range l.rules {
		ids = append(ids, r.ID())
	}
	sort.Strings(ids)
	return ids
}

func (l *Linter) severityFor(r Rule) Severity {
	if sev, ok := l.severities[r.ID()]; ok {
		return sev
	}
	return r.DefaultSeverity()
}

// LintSkill runs every enabled rule against one skill.
func (l *Linter) LintSkill(s *skill.Skill) []Finding {
	var findings []Finding
	for _, r := range l.rules {
		if l.disabled[r.ID()] {
			continue
		}
		sev := l.severityFor(r)
		for _, msg := range r.Check(s) {
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: sev,
				Level:    sev.String(),
				Skill:    s.Name,
				Message:  msg,
			})
		}
	}
	return findings
}

// LintCorpus lints every skill, returning findings ordered by skill name
// then rule ID.
func (l *Linter) LintCorpus(skills map[string]*skill.Skill) []Finding {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		findings = append(findings, l.LintSkill(skills[name])...)
	}
	return findings
}

// AsError converts error-severity findings into a single aggregated error,
// or nil when none exist.
func AsError(findings []Finding) error {
	var result *multierror.Error
	for _, f := range findings {
		if f.Severity == SeverityError {
			result = multierror.Append(result, errors.Errorf("%s: %s: %s", f.Skill, f.Rule, f.Message))
		}
	}
	return result.ErrorOrNil()
}
