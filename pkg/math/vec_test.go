package math

import (
	"testing"
)

func TestVec3Neg(t *testing.T) {
	got := Vec3{1, -2, 3}.Neg()
	want := Vec3{-1, 2, -3}
	if got != want {
		t.Errorf("Vec3.Neg() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Component(t *testing.T) {
	v := Vec3{1, 2, 3}
	for i, want := range []float32{1, 2, 3} {
		if got := v.Component(i); got != want {
			t.Errorf("Component(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in     float32
		digits int
		want   float32
	}{
		{1.23456, 4, 1.2346},
		{-1.23454, 4, -1.2345},
		{0.00004, 4, 0},
		{-0.00004, 4, 0},
		{10, 4, 10},
		{2.5, 0, 3},
	}

	for _, tt := range tests {
		if got := RoundTo(tt.in, tt.digits); got != tt.want {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.in, tt.digits, got, tt.want)
		}
	}
}

func TestVec3RoundEquality(t *testing.T) {
	a := Vec3{0.12344, 1, 2}.Round(4)
	b := Vec3{0.12346, 1, 2}.Round(4)
	if a == b {
		t.Errorf("expected %v and %v to differ after rounding", a, b)
	}

	c := Vec3{1.00001, 2.00002, 3}.Round(4)
	d := Vec3{1, 2, 3.00003}.Round(4)
	if c != d {
		t.Errorf("expected %v == %v after rounding", c, d)
	}
}
