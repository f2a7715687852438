package obj8

import (
	"errors"
	"fmt"
)

// OBJ8 parse error kinds. A *ParseError unwraps to one of these, so callers
// can test the category with errors.Is.
var (
	ErrHeader  = errors.New("header")
	ErrToken   = errors.New("command")
	ErrInteger = errors.New("integer")
	ErrFloat   = errors.New("number")
	ErrName    = errors.New("name")
	ErrMisc    = errors.New("misc")
	ErrPanel   = errors.New("panel")
)

// ParseError describes a fatal parse failure together with the line it
// happened on and the offending token, if any.
type ParseError struct {
	Kind   error  // one of the Err* sentinels
	Line   int    // 1-based line number, 0 if unknown
	Value  string // offending token text
	Detail string // free-form description
}

// Error formats the error the way the importer reports it to users.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrHeader:
		if e.Detail != "" {
			return "This is not a valid X-Plane v8 OBJ file: " + e.Detail
		}
		return "This is not a valid X-Plane v8 OBJ file"
	case ErrPanel:
		return "Cannot read cockpit panel texture"
	case ErrName:
		return fmt.Sprintf("Missing dataref or light name at line %d", e.Line)
	case ErrMisc:
		return fmt.Sprintf("%s at line %d", e.Detail, e.Line)
	}

	thing := kindName(e.Kind)
	if e.Value != "" {
		return fmt.Sprintf("Expecting a %s, found %q at line %d", thing, e.Value, e.Line)
	}
	return fmt.Sprintf("Missing %s at line %d", thing, e.Line)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func kindName(kind error) string {
	switch kind {
	case ErrHeader:
		return "Header"
	case ErrToken:
		return "Command"
	case ErrInteger:
		return "Integer"
	case ErrFloat:
		return "Number"
	case ErrName:
		return "Name"
	case ErrPanel:
		return "Panel"
	default:
		return "Misc"
	}
}

func newError(kind error, line int, value, detail string) *ParseError {
	return &ParseError{Kind: kind, Line: line, Value: value, Detail: detail}
}

func miscError(line int, format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrMisc, Line: line, Detail: fmt.Sprintf(format, args...)}
}
