package obj8

import (
	"errors"
	"testing"
)

func TestBuilder_GroupDepth(t *testing.T) {
	root := &Root{node: node{name: "r"}}
	b := newBuilder(root, &Material{}, nopLog)

	if b.depth() != 0 || b.head() != Node(root) {
		t.Fatal("new builder should start at the root")
	}

	g0 := b.beginGroup()
	g1 := b.beginGroup()
	if b.depth() != 2 || len(b.frames) != 2 {
		t.Fatalf("depth = %d, frames = %d", b.depth(), len(b.frames))
	}
	if b.head() != Node(g1) {
		t.Error("head should be the innermost group")
	}

	if err := b.endGroup(10); err != nil {
		t.Fatal(err)
	}
	if b.head() != Node(g0) {
		t.Error("head should fall back to the outer group")
	}
	if err := b.endGroup(11); err != nil {
		t.Fatal(err)
	}

	err := b.endGroup(12)
	if !errors.Is(err, ErrMisc) {
		t.Errorf("expected ErrMisc, got %v", err)
	}
}

func TestBuilder_ParamsGoToNextMesh(t *testing.T) {
	root := &Root{node: node{name: "r"}}
	b := newBuilder(root, &Material{}, nopLog)

	if err := b.pushParam(animParam{kind: paramTranslate}); !errors.Is(err, ErrMisc) {
		t.Errorf("expected ErrMisc outside a group, got %v", err)
	}

	b.beginGroup()
	rot := animParam{kind: paramRotate, angles: []float32{0, 1}, values: []float32{0, 1}}
	if err := b.pushParam(rot); err != nil {
		t.Fatal(err)
	}

	first := b.addMesh(0, 3)
	second := b.addMesh(3, 3)
	if first.Rotation == nil {
		t.Error("first mesh should take the pending rotation")
	}
	if second.Rotation != nil {
		t.Error("second mesh should not see consumed parameters")
	}
	if first.Name() != "Mesh_0" || second.Name() != "Mesh_1" {
		t.Errorf("names = %s, %s", first.Name(), second.Name())
	}
}

func TestBuilder_DiscardsUnusedParams(t *testing.T) {
	root := &Root{node: node{name: "r"}}
	var logged int
	b := newBuilder(root, &Material{}, func(string, ...any) { logged++ })

	b.beginGroup()
	_ = b.pushParam(animParam{kind: paramTranslate})
	if err := b.endGroup(3); err != nil {
		t.Fatal(err)
	}
	if logged != 1 {
		t.Errorf("expected a diagnostic for the discarded parameter, got %d", logged)
	}
}

func TestRenderTarget(t *testing.T) {
	root := &Root{node: node{name: "r"}}
	g := &Group{node: node{name: "g", target: root}}
	m := &Mesh{node: node{name: "m"}}
	g.addChild(m)
	inner := &Group{node: node{name: "inner"}}

	tests := []struct {
		name          string
		parent, child Node
		want          Node
	}{
		{"mesh under root", root, &Mesh{}, root},
		{"mesh under group", g, &Mesh{}, root},
		{"group under mesh", m, inner, m},
		{"group under group", g, inner, m},
		{"group under empty group", &Group{node: node{target: root}}, inner, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderTarget(tt.parent, tt.child); got != tt.want {
				t.Errorf("renderTarget = %v, want %v", got.Name(), tt.want.Name())
			}
		})
	}
}
