// Package math provides the small float32 vector and rotation types shared by
// the OBJ8 parser and its exporters.
package math

import (
	"math"

	"github.com/chewxy/math32"
)

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Array returns the components as an array, the layout glTF accessors use.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Component returns X, Y or Z for i = 0, 1, 2.
func (v Vec3) Component(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Round returns v with every component rounded to the given number of
// decimal digits. Two points read from the same text always round to the
// same value, so rounded vectors can be compared with ==.
func (v Vec3) Round(digits int) Vec3 {
	return Vec3{RoundTo(v.X, digits), RoundTo(v.Y, digits), RoundTo(v.Z, digits)}
}

// RoundTo rounds f to the given number of decimal digits.
// The rounding happens in float64 so that values like 0.00005 are not
// disturbed by float32 representation error first.
func RoundTo(f float32, digits int) float32 {
	return float32(RoundTo64(float64(f), digits))
}

// RoundTo64 is RoundTo for float64 input.
func RoundTo64(f float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	r := math.Round(f*p) / p
	if r == 0 {
		// Drop negative zero so printed output stays stable.
		return 0
	}
	return r
}
