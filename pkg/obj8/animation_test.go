package obj8

import (
	"testing"

	"github.com/Faultbox/obj8conv/pkg/math"
)

func nopLog(string, ...any) {}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		r2, v2       float64
		wantR, wantV float64
	}{
		{90, 1, 90, 1},
		{359, 1, 359, 1},
		{360, 1, 180, 0.5},
		{450, 100, 225, 50},
		{1440, 8, 180, 1},
		{-720, 4, -180, 1},
	}

	for _, tt := range tests {
		r, v := normalizeRotation(tt.r2, tt.v2)
		if r != tt.wantR || v != tt.wantV {
			t.Errorf("normalizeRotation(%v, %v) = (%v, %v), want (%v, %v)",
				tt.r2, tt.v2, r, v, tt.wantR, tt.wantV)
		}
	}
}

func TestValidDataref(t *testing.T) {
	tests := map[string]bool{
		"":                 false,
		"foo":              false,
		"sim/cockpit/gear": true,
		"ah/":              true,
	}
	for name, want := range tests {
		if got := ValidDataref(name); got != want {
			t.Errorf("ValidDataref(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestResolveAnimation_RealTranslation(t *testing.T) {
	m := &Mesh{node: node{name: "m"}}
	m.params = []animParam{
		{kind: paramTranslate, positions: []math.Vec3{{X: 1}, {X: 2}}, values: []float32{0, 1}, dataref: "sim/a"},
		{kind: paramTranslate, positions: []math.Vec3{{Y: 1}, {Y: 2}}, values: []float32{0, 1}, dataref: "sim/b"},
	}

	var logged int
	resolveAnimation(m, math.Vec3{Z: 5}, func(string, ...any) { logged++ })

	if m.Location != (math.Vec3{Z: 5}) {
		t.Errorf("location = %v", m.Location)
	}
	tr := m.Translation
	if tr == nil || tr.Dataref != "sim/a" {
		t.Fatalf("expected first translation to be kept, got %+v", tr)
	}
	if tr.Keys[1].Position != (math.Vec3{X: 2, Z: 5}) || tr.Keys[1].Frame != 2 {
		t.Errorf("key 1 = %+v", tr.Keys[1])
	}
	if logged != 1 {
		t.Errorf("expected 1 diagnostic, got %d", logged)
	}
	if m.params != nil {
		t.Error("params should be consumed")
	}
}

func TestResolveAnimation_SingleDummy(t *testing.T) {
	m := &Mesh{node: node{name: "m"}}
	off := math.Vec3{X: 1, Y: 2, Z: 3}
	m.params = []animParam{{kind: paramTranslate, positions: []math.Vec3{off, off}}}

	resolveAnimation(m, math.Vec3{X: 10}, nopLog)

	if m.Translation != nil {
		t.Error("a dummy translation must not produce a track")
	}
	if m.Location != (math.Vec3{X: 11, Y: 2, Z: 3}) {
		t.Errorf("location = %v", m.Location)
	}
	if m.ChildOffset() != off.Neg() {
		t.Errorf("child offset = %v", m.ChildOffset())
	}
	if !m.Centre.IsZero() {
		t.Errorf("centre should be untouched after one dummy, got %v", m.Centre)
	}
}

func TestResolveAnimation_SecondDummyUsesFirstOffset(t *testing.T) {
	m := &Mesh{node: node{name: "m"}}
	first := math.Vec3{X: 1}
	second := math.Vec3{Y: 7}
	m.params = []animParam{
		{kind: paramTranslate, positions: []math.Vec3{first, first}},
		{kind: paramTranslate, positions: []math.Vec3{second, second}},
	}

	resolveAnimation(m, math.Vec3{}, nopLog)

	if m.Centre != first {
		t.Errorf("centre = %v, want %v", m.Centre, first)
	}
	if m.Location != first {
		t.Errorf("location = %v, want %v", m.Location, first)
	}
}

func TestResolveAnimation_EmptyParams(t *testing.T) {
	m := &Mesh{node: node{name: "m"}}
	m.params = []animParam{
		{kind: paramTranslate},
		{kind: paramRotate, axis: math.Vec3{X: 1}},
	}

	var logged int
	resolveAnimation(m, math.Vec3{}, func(string, ...any) { logged++ })

	if m.Animated() {
		t.Error("empty parameters must not produce tracks")
	}
	if logged != 2 {
		t.Errorf("expected 2 diagnostics, got %d", logged)
	}
}

func TestTranslationTrack_Channels(t *testing.T) {
	tr := &TranslationTrack{Keys: []TranslationKey{
		{Frame: 1, Value: 0, Position: math.Vec3{X: 1, Y: 2, Z: 3}},
		{Frame: 2, Value: 1, Position: math.Vec3{X: 4, Y: 5, Z: 6}},
	}}

	ch := tr.Channels()
	if ch[1][1] != (CurvePoint{Frame: 2, Value: 5}) {
		t.Errorf("Y channel = %v", ch[1])
	}
	if ch[2][0] != (CurvePoint{Frame: 1, Value: 3}) {
		t.Errorf("Z channel = %v", ch[2])
	}
	if tr.DatarefCurve() != nil {
		t.Error("unbound track should have no dataref curve")
	}

	tr.Dataref = "sim/x"
	curve := tr.DatarefCurve()
	if len(curve) != 2 || curve[1] != (CurvePoint{Frame: 2, Value: 1}) {
		t.Errorf("dataref curve = %v", curve)
	}
}

func TestRotationTrack_Channels(t *testing.T) {
	tr := &RotationTrack{
		Axis: math.Vec3{X: 0, Y: -1, Z: 0},
		Keys: []RotationKey{{Frame: 1, Angle: 0}, {Frame: 2, Angle: 1.5, Value: 3}},
	}

	ch := tr.Channels()
	if ch[0][1].Value != 1.5 {
		t.Errorf("W channel = %v", ch[0])
	}
	for i := range tr.Keys {
		if ch[2][i].Value != -1 || ch[1][i].Value != 0 || ch[3][i].Value != 0 {
			t.Errorf("axis channels at key %d = %v %v %v", i, ch[1][i], ch[2][i], ch[3][i])
		}
	}

	tr.Dataref = "sim/r"
	if curve := tr.DatarefCurve(); curve[1].Value != 3 {
		t.Errorf("dataref curve = %v", curve)
	}
}
