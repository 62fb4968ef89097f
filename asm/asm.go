// Package asm compiles Redcode source into instructions.
package asm

import (
	"errors"
	"fmt"
	"slices"

	"go.creack.net/shork/asm/parser"
	"go.creack.net/shork/op"
)

// Result holds everything a compilation produced.
// Instructions are kept even when errors occurred.
type Result struct {
	Name            string
	Instructions    []op.Instruction
	TokenizerErrors []parser.CompileError
	ParserErrors    []parser.CompileError
}

// Compile parses the input. It never fails: problems are reported in the Result.
func Compile(inputName, inputData string) *Result {
	p := parser.NewParser(inputData)
	p.Parse()
	return &Result{
		Name:            inputName,
		Instructions:    p.Instructions,
		TokenizerErrors: p.TokenizerErrors,
		ParserErrors:    p.Errors,
	}
}

// ErrorsOccurred reports whether any stage reported a problem.
func (r *Result) ErrorsOccurred() bool {
	return len(r.TokenizerErrors) > 0 || len(r.ParserErrors) > 0
}

// Errors returns all diagnostics ordered by position.
func (r *Result) Errors() []parser.CompileError {
	out := make([]parser.CompileError, 0, len(r.TokenizerErrors)+len(r.ParserErrors))
	out = append(out, r.TokenizerErrors...)
	out = append(out, r.ParserErrors...)
	slices.SortStableFunc(out, func(a, b parser.CompileError) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.ColumnStart - b.ColumnStart
	})
	return out
}

// Err returns nil when the compilation is clean,
// otherwise an error joining every diagnostic prefixed by the input name.
func (r *Result) Err() error {
	if !r.ErrorsOccurred() {
		return nil
	}
	var errs []error
	for _, e := range r.Errors() {
		errs = append(errs, fmt.Errorf("%s:%w", r.Name, e))
	}
	return errors.Join(errs...)
}
