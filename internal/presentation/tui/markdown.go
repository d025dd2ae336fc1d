package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/contour/pkg/schema"
)

// SchemaMarkdown describes a schema as a markdown table, one row per node.
// Field rows report the effective requirement, so a name listed in the
// parent's RequiredKeys shows as required.
func SchemaMarkdown(name string, s schema.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "Depth: %d\n\n", s.Depth())
	b.WriteString("| Path | Type | Required |\n")
	b.WriteString("|------|------|----------|\n")
	writeRows(&b, "$", s, s.Required)
	return b.String()
}

func writeRows(b *strings.Builder, path string, s schema.Schema, required bool) {
	fmt.Fprintf(b, "| `%s` | %s | %s |\n", path, kindLabel(s.Type), yesNo(required))

	switch s.Type {
	case schema.KindArray:
		if s.Items != nil {
			writeRows(b, path+"[]", *s.Items, s.Items.Required)
		}
	case schema.KindObject:
		names := make([]string, 0, len(s.Properties))
		for n := range s.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			writeRows(b, path+"."+n, s.Properties[n], s.IsRequired(n))
		}
	}
}

func kindLabel(k schema.Kind) string {
	if k.Supported() {
		return k.String()
	}
	expected := make([]string, len(schema.Kinds))
	for i, known := range schema.Kinds {
		expected[i] = known.String()
	}
	return fmt.Sprintf("%q (unsupported, expected one of %s)", k, strings.Join(expected, ", "))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
