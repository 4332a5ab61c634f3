// Package program implements the embedding API (spec.md §6): create a
// Program, add source, parse it, set external variables and top-level
// arguments, evaluate to a value, and manifest that value to bytes.
//
// Grounded on nenuphar's internal/maincmd, which drives the same
// scanner→parser→resolver pipeline from a thin command layer; Program
// generalizes that pipeline into a reusable, host-embeddable API sitting
// in front of lang/eval, lang/stdlib and lang/manifest, the way
// rsjsonnet-lang's `program` module sits in front of its own evaluator.
package program

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/eval"
	"github.com/jsonnet-run/jsonnet/lang/parser"
	"github.com/jsonnet-run/jsonnet/lang/resolver"
	"github.com/jsonnet-run/jsonnet/lang/stdlib"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// Loader resolves an import path (relative to the importing file, or a
// library search path) to canonical contents. FSLoader is the default
// filesystem-backed implementation.
type Loader = eval.Loader

// Options configures a Program at creation time (spec.md §6).
type Options struct {
	// MaxStackFrames bounds call depth; 0 means the evaluator's default
	// (500).
	MaxStackFrames int
	// MaxTraceLength bounds how many frames an error's trace prints;
	// beyond it the middle of the trace is elided.
	MaxTraceLength int
	// LibrarySearchPaths are searched, in order, after the importing
	// file's own directory (spec.md §6's "-J", rightmost wins when
	// resolved by the CLI into this slice).
	LibrarySearchPaths []string
	// Loader resolves import paths to contents; defaults to FSLoader
	// scoped to LibrarySearchPaths when nil.
	Loader Loader
	// TraceSink receives every std.trace message.
	TraceSink func(msg string)
}

// SourceHandle names a byte buffer added to a Program.
type SourceHandle int

// ASTHandle names a parsed and resolved expression tree.
type ASTHandle int

// ValueHandle names an evaluated value kept alive for a later Manifest
// call.
type ValueHandle int

type source struct {
	name     string
	contents []byte
}

// Program holds one host session: its evaluator, and the source/AST/value
// handle tables the embedding API operates on.
type Program struct {
	ev *eval.Evaluator

	sources    map[SourceHandle]source
	nextSource int

	asts       map[ASTHandle]astEntry
	nextAST    int

	values     map[ValueHandle]value.Value
	nextValue  int
}

type astEntry struct {
	filename string
	root     ast.Expr
}

// New creates a Program: builds the evaluator, installs the parser used
// for imports, and evaluates the standard library.
func New(opts Options) (*Program, error) {
	if opts.Loader == nil {
		opts.Loader = NewFSLoader(opts.LibrarySearchPaths)
	}
	ev := eval.New(eval.Options{
		MaxStackFrames: opts.MaxStackFrames,
		MaxTraceLength: opts.MaxTraceLength,
		SearchPaths:    opts.LibrarySearchPaths,
		Loader:         opts.Loader,
		TraceSink:      opts.TraceSink,
	})
	ev.SetParser(parser.Parse)

	std, err := stdlib.New(ev, parser.Parse)
	if err != nil {
		return nil, fmt.Errorf("program: building standard library: %w", err)
	}
	ev.SetStd(std)

	return &Program{
		ev:      ev,
		sources: make(map[SourceHandle]source),
		asts:    make(map[ASTHandle]astEntry),
		values:  make(map[ValueHandle]value.Value),
	}, nil
}

// AddSource registers a named byte buffer (a file's contents, or an
// inline `-e` snippet) and returns a handle for Parse.
func (p *Program) AddSource(name string, contents []byte) SourceHandle {
	p.nextSource++
	h := SourceHandle(p.nextSource)
	p.sources[h] = source{name: name, contents: contents}
	return h
}

// Parse compiles a previously added source into a resolved AST handle,
// running the lexer, parser and resolver in sequence.
func (p *Program) Parse(h SourceHandle) (ASTHandle, error) {
	src, ok := p.sources[h]
	if !ok {
		return 0, fmt.Errorf("program: unknown source handle")
	}
	root, err := parser.Parse(src.name, src.contents)
	if err != nil {
		return 0, err
	}
	if errs := resolver.Resolve(src.name, root); len(errs) > 0 {
		return 0, errs[0]
	}
	p.nextAST++
	ah := ASTHandle(p.nextAST)
	p.asts[ah] = astEntry{filename: src.name, root: root}
	return ah, nil
}

func (p *Program) storeValue(v value.Value) ValueHandle {
	p.nextValue++
	h := ValueHandle(p.nextValue)
	p.values[h] = v
	return h
}

// Value returns the value previously stored under h, for callers that
// want to inspect it directly (e.g. tests) rather than go through
// Manifest.
func (p *Program) Value(h ValueHandle) (value.Value, bool) {
	v, ok := p.values[h]
	return v, ok
}
