package docs

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parse reads a plan or spec document: the H1 is the title, the first table
// is the status table, and every H2 becomes a section. Status table values
// are validated against the enumerated statuses.
func Parse(path string, kind Kind) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))

	doc := &Document{
		Kind: kind,
		Path: path,
		Body: string(source),
	}

	var (
		tableSeen bool
		rows      = map[string]string{}
	)

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			title := nodeText(node, source)
			switch node.Level {
			case 1:
				if doc.Title == "" {
					doc.Title = title
				}
			case 2:
				doc.Sections = append(doc.Sections, title)
			}
		case *extast.Table:
			if tableSeen {
				return ast.WalkSkipChildren, nil
			}
			tableSeen = true
			collectStatusRows(node, source, rows)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk document")
	}

	if doc.Title == "" {
		return nil, errors.Errorf("%s: document has no title heading", path)
	}
	if !tableSeen {
		return nil, errors.Errorf("%s: document has no status table", path)
	}

	if err := doc.fillStatus(rows); err != nil {
		return nil, errors.Wrapf(err, "%s: invalid status table", path)
	}

	return doc, nil
}

// collectStatusRows reads two-column table rows into a key/value map. Header
// rows are included; a template's "Field | Value" header is simply ignored
// downstream.
func collectStatusRows(table *extast.Table, source []byte, rows map[string]string) {
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cell := row.FirstChild()
		if cell == nil {
			continue
		}
		key := normalizeKey(nodeText(cell, source))

		value := cell.NextSibling()
		if value == nil {
			continue
		}
		rows[key] = strings.TrimSpace(nodeText(value, source))
	}
}

func (d *Document) fillStatus(rows map[string]string) error {
	raw, ok := rows["decision status"]
	if !ok {
		return errors.New("missing Decision Status row")
	}
	decision, err := ParseDecisionStatus(raw)
	if err != nil {
		return err
	}
	d.Status.DecisionStatus = decision

	raw, ok = rows["implementation status"]
	if !ok {
		return errors.New("missing Implementation Status row")
	}
	impl, err := ParseImplementationStatus(raw)
	if err != nil {
		return err
	}
	d.Status.ImplementationStatus = impl

	d.Status.Created = rows["created"]
	d.Status.LastUpdated = rows["last updated"]

	if links := rows["links"]; links != "" && links != "-" {
		for _, link := range strings.Split(links, ",") {
			d.Status.Links = append(d.Status.Links, strings.TrimSpace(link))
		}
	}

	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nodeText collects the raw text of all inline text segments under n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// Validate checks the fixed section headers for the document's kind.
func (d *Document) Validate() error {
	have := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		have[s] = true
	}

	var missing []string
	for _, required := range RequiredSections(d.Kind) {
		if !have[required] {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing required sections: %s", strings.Join(missing, ", "))
	}
	return nil
}
