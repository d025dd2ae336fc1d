package schema

import (
	"fmt"
	"sort"
)

// ChangeType classifies a difference between two schema versions.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"    // node only present in the new version
	ChangeRemoved  ChangeType = "removed"  // node only present in the old version
	ChangeRetyped  ChangeType = "retyped"  // discriminant changed
	ChangeRequired ChangeType = "required" // node became mandatory
	ChangeOptional ChangeType = "optional" // node became optional
)

// Change describes one difference found by Diff.
type Change struct {
	Path string     `json:"path"`
	Type ChangeType `json:"type"`
	From string     `json:"from,omitempty"`
	To   string     `json:"to,omitempty"`
}

func (c Change) String() string {
	if c.From != "" || c.To != "" {
		return fmt.Sprintf("%s %s (%s -> %s)", c.Path, c.Type, c.From, c.To)
	}
	return fmt.Sprintf("%s %s", c.Path, c.Type)
}

// Breaking reports whether values accepted before may be rejected now.
func (c Change) Breaking() bool {
	switch c.Type {
	case ChangeRetyped, ChangeRequired:
		return true
	case ChangeAdded:
		return c.To == "required"
	default:
		return false
	}
}

// Diff calculates the differences between two schema versions.
// Requirement changes use the effective requirement of each field, so moving a
// name between Required and RequiredKeys is not reported.
// Changes are ordered by path.
func Diff(old, new Schema) []Change {
	var changes []Change
	diffNode(&changes, "$", old, new, old.Required, new.Required)
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func diffNode(changes *[]Change, path string, old, new Schema, oldReq, newReq bool) {
	if old.Type != new.Type {
		*changes = append(*changes, Change{Path: path, Type: ChangeRetyped, From: string(old.Type), To: string(new.Type)})
		return
	}
	if oldReq != newReq {
		t := ChangeOptional
		if newReq {
			t = ChangeRequired
		}
		*changes = append(*changes, Change{Path: path, Type: t})
	}

	switch new.Type {
	case KindArray:
		switch {
		case old.Items != nil && new.Items != nil:
			diffNode(changes, path+"[]", *old.Items, *new.Items, old.Items.Required, new.Items.Required)
		case old.Items == nil && new.Items != nil:
			*changes = append(*changes, Change{Path: path + "[]", Type: ChangeAdded, To: requirement(new.Items.Required)})
		case old.Items != nil && new.Items == nil:
			*changes = append(*changes, Change{Path: path + "[]", Type: ChangeRemoved})
		}
	case KindObject:
		for name, o := range old.Properties {
			n, ok := new.Properties[name]
			if !ok {
				*changes = append(*changes, Change{Path: path + "." + name, Type: ChangeRemoved})
				continue
			}
			diffNode(changes, path+"."+name, o, n, old.IsRequired(name), new.IsRequired(name))
		}
		for name := range new.Properties {
			if _, ok := old.Properties[name]; !ok {
				*changes = append(*changes, Change{Path: path + "." + name, Type: ChangeAdded, To: requirement(new.IsRequired(name))})
			}
		}
	}
}

func requirement(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}
