package obj8

import (
	gomath "math"
	"strings"

	"github.com/Faultbox/obj8conv/pkg/math"
)

type paramKind int

const (
	paramTranslate paramKind = iota
	paramRotate
)

// animParam is an ANIM_trans / ANIM_rotate (or key-sequence) parameter
// waiting on the pending frame for the next mesh.
type animParam struct {
	kind      paramKind
	positions []math.Vec3 // translate
	axis      math.Vec3   // rotate
	angles    []float32   // rotate, radians
	values    []float32
	dataref   string
	line      int
}

// TranslationKey is one keyframe of a translation track.
type TranslationKey struct {
	Frame    int // 1-based
	Value    float32
	Position math.Vec3 // includes the mesh's static location
}

// TranslationTrack is keyframed motion of a mesh.
type TranslationTrack struct {
	Keys []TranslationKey
	// Dataref is the driving dataref path, empty when the file named none
	// or the name was not a valid path.
	Dataref string
}

// RotationKey is one keyframe of a rotation track.
type RotationKey struct {
	Frame int // 1-based
	Value float32
	Angle float32 // radians
}

// RotationTrack is a keyframed rotation about a fixed axis.
type RotationTrack struct {
	Axis    math.Vec3
	Keys    []RotationKey
	Dataref string
}

// CurvePoint is a single (frame, value) sample of an animation channel.
type CurvePoint struct {
	Frame int
	Value float32
}

// Channels splits the track into X, Y and Z location channels.
func (t *TranslationTrack) Channels() [3][]CurvePoint {
	var ch [3][]CurvePoint
	for n := range ch {
		ch[n] = make([]CurvePoint, len(t.Keys))
		for i, k := range t.Keys {
			ch[n][i] = CurvePoint{Frame: k.Frame, Value: k.Position.Component(n)}
		}
	}
	return ch
}

// DatarefCurve returns the dataref value at each keyframe, or nil when the
// track is not bound to a dataref.
func (t *TranslationTrack) DatarefCurve() []CurvePoint {
	if t.Dataref == "" {
		return nil
	}
	curve := make([]CurvePoint, len(t.Keys))
	for i, k := range t.Keys {
		curve[i] = CurvePoint{Frame: k.Frame, Value: k.Value}
	}
	return curve
}

// Channels returns the axis-angle channels W (angle), X, Y and Z (axis).
// All four share the keyframe indices of the track.
func (t *RotationTrack) Channels() [4][]CurvePoint {
	var ch [4][]CurvePoint
	for n := range ch {
		ch[n] = make([]CurvePoint, len(t.Keys))
		for i, k := range t.Keys {
			v := k.Angle
			if n > 0 {
				v = t.Axis.Component(n - 1)
			}
			ch[n][i] = CurvePoint{Frame: k.Frame, Value: v}
		}
	}
	return ch
}

// DatarefCurve returns the dataref value at each keyframe, or nil when the
// track is not bound to a dataref.
func (t *RotationTrack) DatarefCurve() []CurvePoint {
	if t.Dataref == "" {
		return nil
	}
	curve := make([]CurvePoint, len(t.Keys))
	for i, k := range t.Keys {
		curve[i] = CurvePoint{Frame: k.Frame, Value: k.Value}
	}
	return curve
}

// ValidDataref reports whether name looks like a dataref path.
func ValidDataref(name string) bool {
	return strings.Contains(name, "/")
}

// normalizeRotation halves the end angle and value until the angle is
// within one full turn. Old exporters wrote looping rotations this way.
func normalizeRotation(r2, v2 float64) (float64, float64) {
	for r2 >= 360 || r2 <= -360 {
		r2 /= 2
		v2 /= 2
	}
	return r2, v2
}

func radians(deg float64) float32 {
	return float32(deg * gomath.Pi / 180)
}

// rotateBuilder collects an ANIM_rotate_begin/key/end sequence.
type rotateBuilder struct {
	axis    math.Vec3
	dataref string
	angles  []float32
	values  []float32
	line    int
}

func (b *rotateBuilder) addKey(value float64, angleDeg float64) {
	b.values = append(b.values, float32(value))
	b.angles = append(b.angles, radians(angleDeg))
}

func (b *rotateBuilder) param() animParam {
	return animParam{
		kind:    paramRotate,
		axis:    b.axis,
		angles:  b.angles,
		values:  b.values,
		dataref: b.dataref,
		line:    b.line,
	}
}

// transBuilder collects an ANIM_trans_begin/key/end sequence.
type transBuilder struct {
	dataref   string
	positions []math.Vec3
	values    []float32
	line      int
}

func (b *transBuilder) addKey(value float64, pos math.Vec3) {
	b.values = append(b.values, float32(value))
	b.positions = append(b.positions, pos)
}

func (b *transBuilder) param() animParam {
	return animParam{
		kind:      paramTranslate,
		positions: b.positions,
		values:    b.values,
		dataref:   b.dataref,
		line:      b.line,
	}
}

// isDummy reports whether every position of a translation is the same.
// Some exporters (AC3D among them) emit such translations only to move
// the object into place.
func (p *animParam) isDummy() bool {
	for _, pos := range p.positions[1:] {
		if pos != p.positions[0] {
			return false
		}
	}
	return true
}

// resolveAnimation turns the mesh's pending parameters into tracks and a
// static location. origin is the child offset of the mesh's target.
//
// Dummy translations drive a small state machine: the first one moves the
// mesh by its offset and records the negated offset as the child offset;
// the second one re-origins the mesh's vertices around that offset. Any
// further dummy translation has no effect.
func resolveAnimation(m *Mesh, origin math.Vec3, logf func(string, ...any)) {
	m.Location = origin

	var (
		offset       math.Vec3
		needRecentre bool
		recentred    bool
	)

	for i := range m.params {
		p := &m.params[i]

		switch p.kind {
		case paramTranslate:
			if len(p.positions) == 0 {
				logf("line %d: translation without keyframes on %s ignored", p.line, m.name)
				continue
			}

			if !p.isDummy() {
				if m.Translation != nil {
					logf("line %d: %s already has a translation track, extra one ignored", p.line, m.name)
					continue
				}
				track := &TranslationTrack{Keys: make([]TranslationKey, len(p.positions))}
				for k, pos := range p.positions {
					track.Keys[k] = TranslationKey{
						Frame:    k + 1,
						Value:    valueAt(p.values, k),
						Position: pos.Add(m.Location),
					}
				}
				if ValidDataref(p.dataref) {
					track.Dataref = p.dataref
				}
				m.Translation = track
				continue
			}

			switch {
			case !needRecentre && !recentred:
				offset = p.positions[0]
				m.Location = m.Location.Add(offset)
				m.childOffset = offset.Neg()
				needRecentre = true
				logf("fix %s position by %v", m.name, offset)
			case needRecentre:
				m.Centre = offset
				needRecentre = false
				recentred = true
			}

		case paramRotate:
			if len(p.angles) == 0 {
				logf("line %d: rotation without keyframes on %s ignored", p.line, m.name)
				continue
			}
			if m.Rotation != nil {
				logf("line %d: %s already has a rotation track, extra one ignored", p.line, m.name)
				continue
			}
			track := &RotationTrack{Axis: p.axis, Keys: make([]RotationKey, len(p.angles))}
			for k, a := range p.angles {
				track.Keys[k] = RotationKey{Frame: k + 1, Value: valueAt(p.values, k), Angle: a}
			}
			if ValidDataref(p.dataref) {
				track.Dataref = p.dataref
			}
			m.Rotation = track
		}
	}

	m.params = nil
}

func valueAt(values []float32, i int) float32 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
