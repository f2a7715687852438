package obj8

import (
	"strconv"

	"github.com/Faultbox/obj8conv/pkg/math"
)

// VertexPrecision is the number of decimal digits vertex and position data
// is rounded to when read. Dummy-translation detection relies on it.
const VertexPrecision = 4

// record is the token list of one input line, consumed left to right.
type record struct {
	tokens []string
	line   int
}

func newRecord(tokens []string, line int) *record {
	return &record{tokens: tokens, line: line}
}

// pop removes and returns the next token.
func (r *record) pop() (string, bool) {
	if len(r.tokens) == 0 {
		return "", false
	}
	tok := r.tokens[0]
	r.tokens = r.tokens[1:]
	return tok, true
}

// remaining returns the number of unread tokens.
func (r *record) remaining() int {
	return len(r.tokens)
}

// float reads one number. When optional, a missing or malformed token
// yields 0. The token is consumed either way.
func (r *record) float(optional bool) (float64, error) {
	tok, ok := r.pop()
	if !ok {
		if optional {
			return 0, nil
		}
		return 0, newError(ErrFloat, r.line, "", "")
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		if optional {
			return 0, nil
		}
		return 0, newError(ErrFloat, r.line, tok, "")
	}
	return f, nil
}

// int reads one mandatory integer.
func (r *record) int() (int, error) {
	tok, ok := r.pop()
	if !ok {
		return 0, newError(ErrInteger, r.line, "", "")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, newError(ErrInteger, r.line, tok, "")
	}
	return n, nil
}

// vertex reads x y z, rounds each component and converts from the file's
// axis convention to the scene's: (x, y, z) becomes (x, -z, y).
func (r *record) vertex() (math.Vec3, error) {
	var v [3]float64
	for i := range v {
		f, err := r.float(false)
		if err != nil {
			return math.Vec3{}, err
		}
		v[i] = f
	}
	return math.Vec3{
		X: float32(math.RoundTo64(v[0], VertexPrecision)),
		Y: float32(math.RoundTo64(-v[2], VertexPrecision)),
		Z: float32(math.RoundTo64(v[1], VertexPrecision)),
	}, nil
}

// uv reads an s t pair.
func (r *record) uv() (math.Vec2, error) {
	s, err := r.float(false)
	if err != nil {
		return math.Vec2{}, err
	}
	t, err := r.float(false)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: float32(s), Y: float32(t)}, nil
}

// color reads an r g b triple. Files older than version 8 store colors
// scaled by 10.
func (r *record) color(version int) ([3]float32, error) {
	var c [3]float32
	for i := range c {
		f, err := r.float(false)
		if err != nil {
			return c, err
		}
		if version < 8 {
			f /= 10
		}
		c[i] = float32(f)
	}
	return c, nil
}

// token reads the next bare token.
func (r *record) token(optional bool) (string, error) {
	tok, ok := r.pop()
	if !ok && !optional {
		return "", newError(ErrToken, r.line, "", "")
	}
	return tok, nil
}

// name reads a mandatory name such as a dataref path.
func (r *record) name() (string, error) {
	tok, ok := r.pop()
	if !ok {
		return "", newError(ErrName, r.line, "", "")
	}
	return tok, nil
}
