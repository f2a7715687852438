package obj8

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// metadataMarker starts a comment line that carries out-of-band metadata.
// Such lines are returned verbatim instead of being stripped.
const metadataMarker = "####_"

// Lexer splits an OBJ8 text stream into whitespace-delimited records, one
// per physical line. Comments and blank lines are skipped.
type Lexer struct {
	r      *bufio.Reader
	line   int
	offset int64
	done   bool
}

// NewLexer returns a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r)}
}

// Line returns the number of the last line read (1-based).
func (l *Lexer) Line() int {
	return l.line
}

// Offset returns the number of bytes consumed so far.
func (l *Lexer) Offset() int64 {
	return l.offset
}

// readLine returns the next physical line without its line terminator.
// ok is false once the input is exhausted.
func (l *Lexer) readLine() (line string, ok bool, err error) {
	if l.done {
		return "", false, nil
	}

	s, err := l.r.ReadString('\n')
	l.offset += int64(len(s))
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("reading line %d: %w", l.line+1, err)
		}
		l.done = true
		if s == "" {
			return "", false, nil
		}
	}

	l.line++
	return strings.TrimRight(s, "\r\n"), true, nil
}

// Next returns the tokens of the next non-blank record.
// At end of input it returns (nil, nil) when optional is true and an
// ErrMisc parse error otherwise.
func (l *Lexer) Next(optional bool) ([]string, error) {
	for {
		raw, ok, err := l.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			if optional {
				return nil, nil
			}
			return nil, miscError(l.line, "Unexpected <EOF>")
		}

		if strings.HasPrefix(raw, metadataMarker) {
			return []string{strings.TrimSpace(raw)}, nil
		}

		if tokens := strings.Fields(stripComment(raw)); len(tokens) > 0 {
			return tokens, nil
		}
	}
}

// stripComment removes everything after '#' or '//'.
func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return s
}
