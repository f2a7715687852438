package obj8

import (
	"image"

	"github.com/Faultbox/obj8conv/pkg/math"
)

// NodeKind tags the variant of a scene node.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindGroup
	KindMesh
)

// String returns a human-readable kind name.
func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "RootObject"
	case KindGroup:
		return "Animation"
	case KindMesh:
		return "Mesh"
	default:
		return "Unknown"
	}
}

// Node is an element of the imported scene tree: *Root, *Group or *Mesh.
type Node interface {
	Kind() NodeKind
	Name() string
	// Children returns child nodes in declaration order.
	Children() []Node
	// Target returns the node this one is placed relative to when the
	// tree is rendered. It is nil for the root. Groups are not rendered
	// themselves, so a mesh inside a group targets the group's own
	// target, and a group nested under a mesh targets that mesh.
	Target() Node
	// ChildOffset is the translation applied to the static location of
	// nodes that target this one.
	ChildOffset() math.Vec3

	base() *node
}

type node struct {
	name        string
	children    []Node
	target      Node
	childOffset math.Vec3
}

func (n *node) Name() string           { return n.name }
func (n *node) Children() []Node       { return n.children }
func (n *node) Target() Node           { return n.target }
func (n *node) ChildOffset() math.Vec3 { return n.childOffset }
func (n *node) base() *node            { return n }

func (n *node) addChild(child Node) {
	n.children = append(n.children, child)
}

// TextureRef is a texture declared by a TEXTURE* command.
type TextureRef struct {
	Name  string      // path as written in the file
	Path  string      // resolved against the file's directory
	Image image.Image // nil when no loader was configured or loading failed
}

// LineVertex is an entry of the VLINE table.
type LineVertex struct {
	Position math.Vec3
	Color    [3]float32
}

// Root is the top of the scene tree; one per imported file.
type Root struct {
	node

	Filename string

	Texture       *TextureRef
	TextureLit    *TextureRef
	TextureNormal *TextureRef

	// Metadata holds "####_" comment lines in file order.
	Metadata []string
	// Lines is the VLINE table. It is not used by mesh geometry.
	Lines []LineVertex
}

func (r *Root) Kind() NodeKind { return KindRoot }

// Group is an ANIM_begin/ANIM_end block.
type Group struct {
	node
}

func (g *Group) Kind() NodeKind { return KindGroup }

// Triangle is one face with per-corner UVs.
type Triangle struct {
	Vertices [3]math.Vec3
	UVs      [3]math.Vec2
}

// Material is the shading description shared by meshes.
type Material struct {
	Emissive [3]float32
	Specular float32

	Diffuse *TextureRef
	Normal  *TextureRef
	Lit     *TextureRef
}

// Equal reports whether two materials have the same emissive and specular
// values. Textures do not take part in the comparison.
func (m *Material) Equal(other *Material) bool {
	return m.Emissive == other.Emissive && m.Specular == other.Specular
}

// Mesh is a TRIS range, or an empty placeholder that anchors a nested
// animation group.
type Mesh struct {
	node

	// Offset and Count delimit the range of the index table this mesh uses.
	Offset, Count int

	// Triangles are already shifted by -Centre.
	Triangles []Triangle
	Material  *Material

	// Location is the static location relative to Target.
	Location math.Vec3
	// Centre is the point the mesh's vertex data was re-origined to.
	Centre math.Vec3

	Translation *TranslationTrack
	Rotation    *RotationTrack

	params      []animParam
	placeholder bool
}

func (m *Mesh) Kind() NodeKind { return KindMesh }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// IsPlaceholder reports whether the mesh was synthesized to anchor a
// nested animation group rather than declared by TRIS.
func (m *Mesh) IsPlaceholder() bool {
	return m.placeholder
}

// Animated reports whether the mesh has a translation or rotation track.
func (m *Mesh) Animated() bool {
	return m.Translation != nil || m.Rotation != nil
}
