package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/contour/pkg/schema"
)

// Overlay contains validation data to visualize on the graph.
type Overlay struct {
	// FailedPath is the candidate path of a validation failure, e.g. "$.items[3].price".
	FailedPath string
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// SchemaPath maps a candidate path to the schema node that checks it
// by collapsing array indices: "$.items[3].price" becomes "$.items[].price".
func SchemaPath(valuePath string) string {
	return indexPattern.ReplaceAllString(valuePath, "[]")
}

// GenerateMermaid produces a Mermaid flowchart of a schema tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Array: [[Subroutine]]
// - Object: [Rectangle]
// - Primitive: (Rounded)
// Edges into mandatory nodes are solid, edges into optional nodes are dotted.
// The node matching the overlay's failed path is highlighted.
func GenerateMermaid(name string, s schema.Schema, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	g := &generator{sb: &sb, ids: make(map[string]string)}
	g.node("$", name, s, true)

	// Apply Overlay Styles
	if overlay != nil && overlay.FailedPath != "" {
		if id, ok := g.ids[SchemaPath(overlay.FailedPath)]; ok {
			sb.WriteString("\n    %% Overlay Styles\n")
			// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
			sb.WriteString("    classDef failed fill:#fecaca,stroke:#b91c1c,stroke-width:4px,color:#000;\n")
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", id))
		}
	}

	return sb.String()
}

type generator struct {
	sb  *strings.Builder
	ids map[string]string // schema path -> mermaid id
}

func (g *generator) node(path, label string, s schema.Schema, root bool) string {
	id := fmt.Sprintf("n%d", len(g.ids))
	g.ids[path] = id

	// Node Shape based on Kind
	opener, closer := "(", ")"
	switch {
	case root:
		opener, closer = "((", "))" // Circle
	case s.Type == schema.KindArray:
		opener, closer = "[[", "]]" // Subroutine
	case s.Type == schema.KindObject:
		opener, closer = "[", "]"
	}

	text := fmt.Sprintf("%s: %s", label, s.Type)
	if s.Required {
		text += "!"
	}
	// Escape double quotes for Mermaid labels
	text = strings.ReplaceAll(text, "\"", "'")
	g.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, text, closer))

	switch s.Type {
	case schema.KindArray:
		if s.Items != nil {
			child := g.node(path+"[]", "items", *s.Items, false)
			g.edge(id, child, "", s.Items.Required)
		}
	case schema.KindObject:
		names := make([]string, 0, len(s.Properties))
		for n := range s.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			child := g.node(path+"."+n, n, s.Properties[n], false)
			g.edge(id, child, n, s.IsRequired(n))
		}
	}
	return id
}

func (g *generator) edge(from, to, label string, required bool) {
	arrow := "-.->"
	if required {
		arrow = "-->"
	}
	if label != "" {
		safe := strings.ReplaceAll(label, "\"", "'")
		arrow = fmt.Sprintf("-. \"%s\" .->", safe)
		if required {
			arrow = fmt.Sprintf("-- \"%s\" -->", safe)
		}
	}
	g.sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
}
