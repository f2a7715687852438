package obj8

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// SkipChildren can be returned by a WalkFunc to skip the children of the
// node it was called for.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node of the tree. target is the node n is
// rendered relative to (nil for the root) and depth is n's depth in the
// tree.
type WalkFunc func(n Node, target Node, depth int) error

// Walk visits the tree rooted at root in declaration order, parents before
// children. A renderer creates its object for n under the object it made
// for target and applies n's static location; Group nodes carry no
// geometry and only need visiting for their children.
func Walk(root *Root, fn WalkFunc) error {
	return walk(root, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, n.Target(), depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range n.Children() {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes a scene tree.
type Stats struct {
	Groups          int
	Meshes          int
	EmptyMeshes     int
	AnimatedMeshes  int
	Triangles       int
	TranslationKeys int
	RotationKeys    int
	Datarefs        []string
}

// Stats counts the nodes, triangles and keyframes of the tree.
func (r *Root) Stats() Stats {
	var s Stats
	seen := make(map[string]bool)
	addDataref := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			s.Datarefs = append(s.Datarefs, name)
		}
	}

	_ = Walk(r, func(n Node, _ Node, _ int) error {
		switch n := n.(type) {
		case *Group:
			s.Groups++
		case *Mesh:
			s.Meshes++
			if n.IsEmpty() {
				s.EmptyMeshes++
			}
			if n.Animated() {
				s.AnimatedMeshes++
			}
			s.Triangles += len(n.Triangles)
			if n.Translation != nil {
				s.TranslationKeys += len(n.Translation.Keys)
				addDataref(n.Translation.Dataref)
			}
			if n.Rotation != nil {
				s.RotationKeys += len(n.Rotation.Keys)
				addDataref(n.Rotation.Dataref)
			}
		}
		return nil
	})
	return s
}

// Dump writes an indented outline of the tree to w.
func Dump(w io.Writer, root *Root) error {
	return Walk(root, func(n Node, _ Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		var err error
		switch n := n.(type) {
		case *Root:
			_, err = fmt.Fprintf(w, "%s%s %s\n", indent, n.Kind(), n.Name())
		case *Group:
			_, err = fmt.Fprintf(w, "%s%s\n", indent, n.Name())
		case *Mesh:
			_, err = fmt.Fprintf(w, "%s%s - %s (TRIS %d %d)%s\n",
				indent, n.Kind(), n.Name(), n.Offset, n.Count, describeTracks(n))
		}
		return err
	})
}

func describeTracks(m *Mesh) string {
	var parts []string
	if !m.Location.IsZero() {
		parts = append(parts, fmt.Sprintf("at %v", m.Location))
	}
	if m.Translation != nil {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("trans %d keys %s", len(m.Translation.Keys), m.Translation.Dataref)))
	}
	if m.Rotation != nil {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("rot %d keys %s", len(m.Rotation.Keys), m.Rotation.Dataref)))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}
