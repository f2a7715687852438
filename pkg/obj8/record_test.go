package obj8

import (
	"errors"
	"testing"

	"github.com/Faultbox/obj8conv/pkg/math"
)

func TestRecord_Vertex(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   math.Vec3
	}{
		{"axis remap", []string{"1", "2", "3"}, math.Vec3{X: 1, Y: -3, Z: 2}},
		{"rounding", []string{"1.23456", "0", "-0.00004"}, math.Vec3{X: 1.2346, Y: 0, Z: 0}},
		{"negative z", []string{"0", "0", "-2.5"}, math.Vec3{X: 0, Y: 2.5, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecord(tt.tokens, 1)
			got, err := rec.vertex()
			if err != nil {
				t.Fatalf("vertex: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_VertexErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"missing component", []string{"1", "2"}},
		{"not a number", []string{"1", "x", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRecord(tt.tokens, 7).vertex()
			if !errors.Is(err, ErrFloat) {
				t.Fatalf("expected ErrFloat, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line != 7 {
				t.Errorf("expected ParseError at line 7, got %#v", err)
			}
		})
	}
}

func TestRecord_OptionalFloat(t *testing.T) {
	rec := newRecord([]string{"abc", "2.5"}, 1)

	v, err := rec.float(true)
	if err != nil || v != 0 {
		t.Errorf("malformed optional float: got %v, %v", v, err)
	}
	v, err = rec.float(true)
	if err != nil || v != 2.5 {
		t.Errorf("got %v, %v, want 2.5", v, err)
	}
	v, err = rec.float(true)
	if err != nil || v != 0 {
		t.Errorf("absent optional float: got %v, %v", v, err)
	}
	if _, err := rec.float(false); !errors.Is(err, ErrFloat) {
		t.Errorf("expected ErrFloat, got %v", err)
	}
}

func TestRecord_Int(t *testing.T) {
	tests := []struct {
		tokens  []string
		want    int
		wantErr bool
	}{
		{[]string{"42"}, 42, false},
		{[]string{"-3"}, -3, false},
		{[]string{"3.0"}, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := newRecord(tt.tokens, 1).int()
		if tt.wantErr {
			if !errors.Is(err, ErrInteger) {
				t.Errorf("%q: expected ErrInteger, got %v", tt.tokens, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %d, %v", tt.tokens, got, err)
		}
	}
}

func TestRecord_UV(t *testing.T) {
	got, err := newRecord([]string{"0.25", "0.75"}, 1).uv()
	if err != nil {
		t.Fatal(err)
	}
	if got != (math.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("got %v", got)
	}
}

func TestRecord_Color(t *testing.T) {
	tokens := []string{"10", "5", "0"}

	c8, err := newRecord(tokens, 1).color(8)
	if err != nil {
		t.Fatal(err)
	}
	if c8 != [3]float32{10, 5, 0} {
		t.Errorf("v8 color = %v", c8)
	}

	c7, err := newRecord(tokens, 1).color(7)
	if err != nil {
		t.Fatal(err)
	}
	if c7 != [3]float32{1, 0.5, 0} {
		t.Errorf("v7 color = %v", c7)
	}
}

func TestRecord_Names(t *testing.T) {
	rec := newRecord([]string{"sim/cockpit/switch"}, 3)

	name, err := rec.name()
	if err != nil || name != "sim/cockpit/switch" {
		t.Errorf("got %q, %v", name, err)
	}
	if _, err := rec.name(); !errors.Is(err, ErrName) {
		t.Errorf("expected ErrName, got %v", err)
	}
	if tok, err := rec.token(true); err != nil || tok != "" {
		t.Errorf("optional token: got %q, %v", tok, err)
	}
	if _, err := rec.token(false); !errors.Is(err, ErrToken) {
		t.Errorf("expected ErrToken, got %v", err)
	}
}

func TestParseError_Messages(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{newError(ErrHeader, 2, "700", ""), "This is not a valid X-Plane v8 OBJ file"},
		{newError(ErrName, 12, "", ""), "Missing dataref or light name at line 12"},
		{newError(ErrFloat, 4, "abc", ""), `Expecting a Number, found "abc" at line 4`},
		{newError(ErrInteger, 5, "", ""), "Missing Integer at line 5"},
		{miscError(9, "Unexpected <EOF>"), "Unexpected <EOF> at line 9"},
		{newError(ErrPanel, 0, "", ""), "Cannot read cockpit panel texture"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
