package obj8

import "fmt"

// builder grows the scene tree as commands arrive. chain holds the open
// ANIM_begin groups; frames holds one list of pending animation parameters
// per open group. Both always have the same depth.
type builder struct {
	root     *Root
	material *Material
	logf     func(string, ...any)

	chain  []*Group
	frames [][]animParam

	meshCount  int
	emptyCount int
	animCount  int
}

func newBuilder(root *Root, material *Material, logf func(string, ...any)) *builder {
	return &builder{root: root, material: material, logf: logf}
}

// depth returns the number of open animation groups.
func (b *builder) depth() int {
	return len(b.chain)
}

// head returns the node new meshes are attached to.
func (b *builder) head() Node {
	if len(b.chain) > 0 {
		return b.chain[len(b.chain)-1]
	}
	return b.root
}

// pushParam queues an animation parameter for the next mesh of the
// innermost open group.
func (b *builder) pushParam(p animParam) error {
	if len(b.frames) == 0 {
		return miscError(p.line, "Animation outside ANIM_begin/ANIM_end")
	}
	top := len(b.frames) - 1
	b.frames[top] = append(b.frames[top], p)
	return nil
}

// newMesh creates a mesh and hands it the pending parameters of the
// innermost group.
func (b *builder) newMesh(name string, placeholder bool) *Mesh {
	m := &Mesh{node: node{name: name}, Material: b.material, placeholder: placeholder}
	if len(b.frames) > 0 {
		top := len(b.frames) - 1
		m.params = b.frames[top]
		b.frames[top] = nil
	}
	return m
}

// addMesh creates the mesh for a TRIS command and attaches it.
func (b *builder) addMesh(offset, count int) *Mesh {
	m := b.newMesh(fmt.Sprintf("Mesh_%d", b.meshCount), false)
	b.meshCount++
	m.Offset, m.Count = offset, count
	b.attach(b.head(), m)
	return m
}

// beginGroup opens a new animation group. A group opened inside another
// group hangs off that group's latest mesh; if the outer group has no mesh
// yet an empty placeholder is created to carry it.
func (b *builder) beginGroup() *Group {
	var anchor Node = b.root

	if len(b.chain) > 0 {
		outer := b.chain[len(b.chain)-1]
		if len(outer.children) == 0 {
			b.logf("previous animation has no mesh, creating empty object for it")
			empty := b.newMesh(fmt.Sprintf("Empty_%d", b.emptyCount), true)
			b.emptyCount++
			b.attach(outer, empty)
			anchor = empty
		} else if m, ok := outer.children[len(outer.children)-1].(*Mesh); ok {
			anchor = m
		} else {
			anchor = outer
		}
	}

	g := &Group{node: node{name: fmt.Sprintf("Animation_%d", b.animCount)}}
	b.animCount++
	b.attach(anchor, g)

	b.chain = append(b.chain, g)
	b.frames = append(b.frames, nil)
	return g
}

// endGroup closes the innermost group, dropping parameters no mesh used.
func (b *builder) endGroup(line int) error {
	if len(b.chain) == 0 {
		return miscError(line, "ANIM_end without ANIM_begin")
	}
	top := len(b.chain) - 1
	if n := len(b.frames[top]); n > 0 {
		b.logf("line %d: %d animation parameter(s) without mesh discarded", line, n)
	}
	b.chain = b.chain[:top]
	b.frames = b.frames[:top]
	return nil
}

// attach links child under parent, first fixing the node it renders
// relative to. Meshes get their animation resolved here, so a mesh is
// complete by the time it becomes part of the tree.
func (b *builder) attach(parent Node, child Node) {
	target := renderTarget(parent, child)
	child.base().target = target

	if m, ok := child.(*Mesh); ok {
		resolveAnimation(m, target.ChildOffset(), b.logf)
	}

	parent.base().addChild(child)
}

// renderTarget returns the node child is rendered relative to once it is
// attached under parent. Groups produce nothing of their own: meshes in a
// group render under the group's target, and a group directly inside a
// group renders under the most recent mesh before it.
func renderTarget(parent, child Node) Node {
	g, ok := parent.(*Group)
	if !ok {
		return parent
	}
	if _, nested := child.(*Group); nested {
		for i := len(g.children) - 1; i >= 0; i-- {
			if m, ok := g.children[i].(*Mesh); ok {
				return m
			}
		}
	}
	return g.target
}
