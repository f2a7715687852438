package obj8

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const walkBody = triangleTable + `ANIM_begin
ANIM_rotate 1 0 0 0 90 0 1 sim/door
TRIS 0 3
ANIM_begin
ANIM_trans 0 0 0 0 1 0 0 1 sim/handle
TRIS 0 3
ANIM_end
ANIM_end
TRIS 0 3
`

func TestWalk_Order(t *testing.T) {
	root := mustParse(t, walkBody)

	var got []string
	err := Walk(root, func(n Node, target Node, depth int) error {
		tn := "-"
		if target != nil {
			tn = target.Name()
		}
		got = append(got, strings.Repeat(".", depth)+n.Name()+"@"+tn)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"test.obj@-",
		".Animation_0@test.obj",
		"..Mesh_0@test.obj",
		"...Animation_1@Mesh_0",
		"....Mesh_1@Mesh_0",
		".Mesh_2@test.obj",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("walk order:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestWalk_SkipChildrenAndErrors(t *testing.T) {
	root := mustParse(t, walkBody)

	var visited int
	err := Walk(root, func(n Node, _ Node, _ int) error {
		visited++
		if n.Kind() == KindGroup {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// root, Animation_0, Mesh_2
	if visited != 3 {
		t.Errorf("visited %d nodes, want 3", visited)
	}

	stop := errors.New("stop")
	err = Walk(root, func(n Node, _ Node, _ int) error {
		if n.Kind() == KindMesh {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected walk error to propagate, got %v", err)
	}
}

func TestRoot_Stats(t *testing.T) {
	root := mustParse(t, walkBody)
	s := root.Stats()

	if s.Groups != 2 || s.Meshes != 3 || s.EmptyMeshes != 0 || s.AnimatedMeshes != 2 || s.Triangles != 3 {
		t.Errorf("stats = %+v", s)
	}
	if s.RotationKeys != 2 || s.TranslationKeys != 2 {
		t.Errorf("keys = %d rot, %d trans", s.RotationKeys, s.TranslationKeys)
	}
	if len(s.Datarefs) != 2 || s.Datarefs[0] != "sim/door" || s.Datarefs[1] != "sim/handle" {
		t.Errorf("datarefs = %q", s.Datarefs)
	}
}

func TestDump(t *testing.T) {
	root := mustParse(t, walkBody)

	var buf bytes.Buffer
	if err := Dump(&buf, root); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "RootObject test.obj" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[2] != "    Mesh - Mesh_0 (TRIS 0 3) [rot 2 keys sim/door]" {
		t.Errorf("line 2 = %q", lines[2])
	}
	if lines[5] != "  Mesh - Mesh_2 (TRIS 0 3)" {
		t.Errorf("line 5 = %q", lines[5])
	}
}
