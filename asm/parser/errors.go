package parser

import "fmt"

// ErrorKind tells which stage reported a CompileError.
type ErrorKind int

// ErrorKind values.
const (
	TokenizerError ErrorKind = iota
	ParserError
)

func (k ErrorKind) String() string {
	switch k {
	case TokenizerError:
		return "tokenizer"
	case ParserError:
		return "parser"
	default:
		return "unknown"
	}
}

// CompileError is a diagnostic anchored to a source span.
// Columns are 1-based and inclusive.
type CompileError struct {
	Kind        ErrorKind
	Message     string
	Line        int
	ColumnStart int
	ColumnEnd   int
}

func (e CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.ColumnStart, e.Message)
}
