package obj8

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLexer_Next(t *testing.T) {
	input := strings.Join([]string{
		"VT 1 2 3 # trailing comment",
		"",
		"   ",
		"# whole line comment",
		"// another comment",
		"IDX 4 // tail",
		"####_meta data here  ",
		"TRIS\t0  3",
	}, "\n")

	lex := NewLexer(strings.NewReader(input))

	want := []struct {
		tokens []string
		line   int
	}{
		{[]string{"VT", "1", "2", "3"}, 1},
		{[]string{"IDX", "4"}, 6},
		{[]string{"####_meta data here"}, 7},
		{[]string{"TRIS", "0", "3"}, 8},
	}

	for _, w := range want {
		got, err := lex.Next(true)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !reflect.DeepEqual(got, w.tokens) {
			t.Errorf("got %q, want %q", got, w.tokens)
		}
		if lex.Line() != w.line {
			t.Errorf("line = %d, want %d", lex.Line(), w.line)
		}
	}

	got, err := lex.Next(true)
	if err != nil || got != nil {
		t.Errorf("expected clean end of input, got %q, %v", got, err)
	}
}

func TestLexer_MandatoryEOF(t *testing.T) {
	lex := NewLexer(strings.NewReader("# only a comment\n\n"))
	_, err := lex.Next(false)
	if !errors.Is(err, ErrMisc) {
		t.Fatalf("expected ErrMisc, got %v", err)
	}
}

func TestLexer_CRLFAndOffset(t *testing.T) {
	input := "IDX 1\r\nIDX 2\r\n"
	lex := NewLexer(strings.NewReader(input))

	first, _ := lex.Next(true)
	if !reflect.DeepEqual(first, []string{"IDX", "1"}) {
		t.Errorf("got %q", first)
	}
	if _, err := lex.Next(true); err != nil {
		t.Fatal(err)
	}
	if lex.Offset() != int64(len(input)) {
		t.Errorf("offset = %d, want %d", lex.Offset(), len(input))
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VT 1 2 3", "VT 1 2 3"},
		{"VT 1 # c", "VT 1 "},
		{"VT 1 // c", "VT 1 "},
		{"ANIM_trans 0 0 0 0 0 0 0 1 sim/flight/gear", "ANIM_trans 0 0 0 0 0 0 0 1 sim/flight/gear"},
		{"#", ""},
	}

	for _, tt := range tests {
		if got := stripComment(tt.in); got != tt.want {
			t.Errorf("stripComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
