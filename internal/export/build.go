package export

import (
	"bytes"
	gomath "math"
	"path"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/obj8conv/internal/texture"
	"github.com/Faultbox/obj8conv/pkg/math"
	"github.com/Faultbox/obj8conv/pkg/obj8"
)

// zUpToYUp rotates the Z-up scene into glTF's Y-up frame.
var zUpToYUp = math.QuatFromAxisAngle(math.Vec3{X: 1}, -gomath.Pi/2)

// builder accumulates one glTF document.
type builder struct {
	doc  *gltf.Document
	opts Options
	log  *zap.Logger

	nodes    map[obj8.Node]uint32
	material *uint32

	// channels per animation name, in first-seen order.
	anims     map[string]*gltf.Animation
	animOrder []string
}

// Build converts an imported scene into a glTF document. Each mesh becomes
// a node parented to the node of its render target; groups produce no
// node. Keyframe tracks become animations named after their dataref.
func Build(root *obj8.Root, opts Options) (*gltf.Document, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = opts.Generator

	b := &builder{
		doc:   doc,
		opts:  opts,
		log:   opts.Logger,
		nodes: make(map[obj8.Node]uint32),
		anims: make(map[string]*gltf.Animation),
	}

	if err := b.buildMaterial(root); err != nil {
		return nil, err
	}

	err := obj8.Walk(root, func(n obj8.Node, target obj8.Node, _ int) error {
		switch n := n.(type) {
		case *obj8.Root:
			b.addRoot(n)
		case *obj8.Mesh:
			b.addMesh(n, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, name := range b.animOrder {
		doc.Animations = append(doc.Animations, b.anims[name])
	}
	return doc, nil
}

func (b *builder) addNode(n *gltf.Node, parent obj8.Node) uint32 {
	idx := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, n)
	if parent != nil {
		p := b.doc.Nodes[b.nodes[parent]]
		p.Children = append(p.Children, idx)
	}
	return idx
}

func (b *builder) addRoot(r *obj8.Root) {
	extras := map[string]any{"source": r.Filename}
	if len(r.Metadata) > 0 {
		extras["metadata"] = r.Metadata
	}
	for key, ref := range map[string]*obj8.TextureRef{
		"texture":        r.Texture,
		"texture_lit":    r.TextureLit,
		"texture_normal": r.TextureNormal,
	} {
		if ref != nil {
			extras[key] = ref.Name
		}
	}

	idx := b.addNode(&gltf.Node{
		Name:     r.Name(),
		Rotation: zUpToYUp.Array(),
		Scale:    [3]float32{1, 1, 1},
		Extras:   extras,
	}, nil)
	b.nodes[r] = idx
	b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, idx)
}

func (b *builder) addMesh(m *obj8.Mesh, target obj8.Node) {
	n := &gltf.Node{
		Name:        m.Name(),
		Translation: m.Location.Array(),
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
	}
	if !m.IsEmpty() {
		n.Mesh = gltf.Index(b.writeGeometry(m))
	}
	if extras := datarefExtras(m); extras != nil {
		n.Extras = extras
	}

	idx := b.addNode(n, target)
	b.nodes[m] = idx

	if m.Translation != nil {
		b.addTranslation(idx, m.Translation)
	}
	if m.Rotation != nil {
		b.addRotation(idx, m.Rotation)
	}
}

// writeGeometry stores the triangles of m as an unindexed primitive. UVs
// are flipped vertically because glTF puts the texture origin top-left.
func (b *builder) writeGeometry(m *obj8.Mesh) uint32 {
	positions := make([][3]float32, 0, len(m.Triangles)*3)
	uvs := make([][2]float32, 0, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		for k := range tri.Vertices {
			positions = append(positions, tri.Vertices[k].Array())
			uvs = append(uvs, [2]float32{tri.UVs[k].X, 1 - tri.UVs[k].Y})
		}
	}

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   modeler.WritePosition(b.doc, positions),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(b.doc, uvs),
		},
		Material: b.material,
	}

	idx := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: m.Name(), Primitives: []*gltf.Primitive{prim}})
	return idx
}

// animation returns the animation collecting channels driven by dataref.
func (b *builder) animation(dataref string) *gltf.Animation {
	name := dataref
	if name == "" {
		name = "static"
	}
	a, ok := b.anims[name]
	if !ok {
		a = &gltf.Animation{Name: name}
		b.anims[name] = a
		b.animOrder = append(b.animOrder, name)
	}
	return a
}

// writeTimes stores the keyframe times of frames as a sampler input.
// Sampler inputs must carry their bounds.
func (b *builder) writeTimes(frames []int) uint32 {
	times := make([]float32, len(frames))
	lo, hi := float32(gomath.MaxFloat32), float32(-gomath.MaxFloat32)
	for i, f := range frames {
		times[i] = float32(float64(f-1) / b.opts.FPS)
		lo = min(lo, times[i])
		hi = max(hi, times[i])
	}
	idx := modeler.WriteAccessor(b.doc, gltf.TargetNone, times)
	b.doc.Accessors[idx].Min = []float32{lo}
	b.doc.Accessors[idx].Max = []float32{hi}
	return idx
}

func (b *builder) addChannel(node uint32, dataref string, path gltf.TRSProperty, input, output uint32) {
	a := b.animation(dataref)
	sampler := uint32(len(a.Samplers))
	a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(input),
		Output:        gltf.Index(output),
		Interpolation: gltf.InterpolationLinear,
	})
	a.Channels = append(a.Channels, &gltf.Channel{
		Sampler: gltf.Index(sampler),
		Target:  gltf.ChannelTarget{Node: gltf.Index(node), Path: path},
	})
}

func (b *builder) addTranslation(node uint32, t *obj8.TranslationTrack) {
	if len(t.Keys) == 0 {
		return
	}
	frames := make([]int, len(t.Keys))
	values := make([][3]float32, len(t.Keys))
	for i, k := range t.Keys {
		frames[i] = k.Frame
		values[i] = k.Position.Array()
	}
	input := b.writeTimes(frames)
	output := modeler.WriteAccessor(b.doc, gltf.TargetNone, values)
	b.addChannel(node, t.Dataref, gltf.TRSTranslation, input, output)
}

func (b *builder) addRotation(node uint32, r *obj8.RotationTrack) {
	if len(r.Keys) == 0 {
		return
	}
	frames := make([]int, len(r.Keys))
	values := make([][4]float32, len(r.Keys))
	for i, k := range r.Keys {
		frames[i] = k.Frame
		values[i] = math.QuatFromAxisAngle(r.Axis, k.Angle).Array()
	}
	input := b.writeTimes(frames)
	output := modeler.WriteAccessor(b.doc, gltf.TargetNone, values)
	b.addChannel(node, r.Dataref, gltf.TRSRotation, input, output)
}

// datarefExtras records the dataref bindings of m, which glTF cannot
// express, as node extras.
func datarefExtras(m *obj8.Mesh) map[string]any {
	bindings := make(map[string]any)
	if m.Translation != nil {
		if curve := m.Translation.DatarefCurve(); curve != nil {
			bindings["translation"] = curveExtras(m.Translation.Dataref, curve)
		}
	}
	if m.Rotation != nil {
		if curve := m.Rotation.DatarefCurve(); curve != nil {
			bindings["rotation"] = curveExtras(m.Rotation.Dataref, curve)
		}
	}
	if len(bindings) == 0 {
		return nil
	}
	return map[string]any{"datarefs": bindings}
}

func curveExtras(dataref string, curve []obj8.CurvePoint) map[string]any {
	frames := make([]int, len(curve))
	values := make([]float32, len(curve))
	for i, p := range curve {
		frames[i] = p.Frame
		values[i] = p.Value
	}
	return map[string]any{"path": dataref, "frames": frames, "values": values}
}

// buildMaterial creates the material shared by every mesh. Decoded
// textures are re-encoded as PNG and embedded in the buffer; textures that
// were not loaded are referenced by URI when glTF can read their format.
func (b *builder) buildMaterial(r *obj8.Root) error {
	if len(r.Children()) == 0 {
		return nil
	}

	mat := &gltf.Material{
		Name: strings.TrimSuffix(r.Name(), path.Ext(r.Name())),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor: gltf.Float(0),
		},
	}

	if r.Texture != nil {
		tex, ok, err := b.texture(r.Texture)
		if err != nil {
			return err
		}
		if ok {
			mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: tex}
		}
	}
	if r.TextureLit != nil {
		tex, ok, err := b.texture(r.TextureLit)
		if err != nil {
			return err
		}
		if ok {
			mat.EmissiveTexture = &gltf.TextureInfo{Index: tex}
			mat.EmissiveFactor = [3]float32{1, 1, 1}
		}
	}
	if r.TextureNormal != nil {
		tex, ok, err := b.texture(r.TextureNormal)
		if err != nil {
			return err
		}
		if ok {
			mat.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(tex)}
		}
	}

	b.material = gltf.Index(uint32(len(b.doc.Materials)))
	b.doc.Materials = append(b.doc.Materials, mat)
	return nil
}

// texture adds a texture for ref. ok is false when ref can be neither
// embedded nor referenced.
func (b *builder) texture(ref *obj8.TextureRef) (idx uint32, ok bool, err error) {
	var img uint32
	switch {
	case ref.Image != nil:
		data, err := texture.EncodePNG(texture.ToNRGBA(ref.Image))
		if err != nil {
			return 0, false, err
		}
		img, err = modeler.WriteImage(b.doc, path.Base(filepathToSlash(ref.Name)), "image/png", bytes.NewReader(data))
		if err != nil {
			return 0, false, err
		}
	case referencable(ref.Name):
		img = uint32(len(b.doc.Images))
		b.doc.Images = append(b.doc.Images, &gltf.Image{URI: filepathToSlash(ref.Name)})
	default:
		b.log.Warn("texture not embedded", zap.String("texture", ref.Name))
		return 0, false, nil
	}

	idx = uint32(len(b.doc.Textures))
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
	return idx, true, nil
}

// referencable reports whether a glTF viewer can load name directly.
func referencable(name string) bool {
	switch strings.ToLower(path.Ext(filepathToSlash(name))) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func filepathToSlash(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}
