// Package transform rewrites graphql tagged templates in a JavaScript syntax
// tree into references to generated artifact modules.
//
// For every tag such as
//
//	const fragment = graphql`fragment UserCard_user on User { id }`;
//
// the tag expression is replaced by the identifier UserCard_user and a binding
// for that identifier is prepended to the module:
//
//	import UserCard_user from "./__generated__/UserCard_user.graphql";
//
// or, for CommonJS output,
//
//	var UserCard_user = require("./__generated__/UserCard_user.graphql").default;
//
// A Transformer holds only immutable state and may be shared between
// goroutines. Input trees are never modified: rewritten subtrees are rebuilt
// and untouched subtrees are shared with the input.
package transform

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leaprelay/pkg/artifact"
	"github.com/leapstack-labs/leaprelay/pkg/gqltag"
	"github.com/tdewolff/parse/v2/js"
)

// Config is the project configuration read by the transform. It is built once
// by the caller and never modified.
type Config struct {
	// ArtifactDirectory is the absolute directory holding generated artifacts.
	// Empty selects the per-file ./__generated__/ convention.
	ArtifactDirectory string `json:"artifactDirectory,omitempty" yaml:"artifactDirectory,omitempty"`
}

// ModuleKind selects the shape of the emitted binding statements.
type ModuleKind int

// Module kinds.
const (
	ESModule ModuleKind = iota
	CommonJS
)

func (k ModuleKind) String() string {
	switch k {
	case CommonJS:
		return "commonjs"
	default:
		return "esm"
	}
}

// ParseModuleKind parses a module kind name as used in configuration files.
func ParseModuleKind(s string) (ModuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esm", "es", "module", "esmodule", "es2015", "esnext":
		return ESModule, nil
	case "commonjs", "cjs":
		return CommonJS, nil
	default:
		return ESModule, fmt.Errorf("unknown module kind %q (expected esm or commonjs)", s)
	}
}

// File is one parsed source file to transform.
type File struct {
	Path   string // absolute path of the source file
	Module ModuleKind
	AST    *js.AST
}

// Site describes one rewritten graphql tag.
type Site struct {
	Definition gqltag.Definition
	Reference  artifact.Reference
}

// Result reports the tags rewritten in one file, in source order.
type Result struct {
	Sites []Site
}

// Changed reports whether any tag was rewritten.
func (r *Result) Changed() bool {
	return r != nil && len(r.Sites) > 0
}

// Options configures a Transformer.
type Options struct {
	Config Config

	// Factory constructs syntax nodes directly. When nil the transformer falls
	// back to SnippetBuilder, which builds nodes by parsing source text.
	Factory Builder

	Logger *slog.Logger
}

// Transformer rewrites graphql tags in parsed files.
type Transformer struct {
	cfg     Config
	builder Builder
	logger  *slog.Logger
}

// New creates a Transformer. The node builder is chosen here, once.
func New(opts Options) *Transformer {
	builder := opts.Factory
	if builder == nil {
		builder = SnippetBuilder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transformer{
		cfg:     opts.Config,
		builder: builder,
		logger:  logger,
	}
}

// Config returns the configuration the transformer was built with.
func (t *Transformer) Config() Config {
	return t.cfg
}

// Transform rewrites every graphql tag in file.AST.
//
// When the file holds no tags the input tree is returned as is. Otherwise a
// new tree is returned whose statement list starts with the directive
// prologue, then one binding per tag in the order the tags appear, then the
// remaining original statements.
// The first invalid tag aborts the whole file.
func (t *Transformer) Transform(file File) (*js.AST, *Result, error) {
	if file.AST == nil {
		return nil, nil, errors.New("transform: nil syntax tree")
	}

	r := &rewriter{t: t, file: file}
	list, changed := r.stmts(file.AST.List)
	if r.err != nil {
		return nil, nil, r.err
	}

	result := &Result{Sites: r.sites}
	if !changed {
		return file.AST, result, nil
	}

	// Bindings go after the directive prologue so "use strict" keeps applying.
	n := prologueLen(list)
	out := &js.AST{BlockStmt: file.AST.BlockStmt}
	out.List = make([]js.IStmt, 0, len(r.pending)+len(list))
	out.List = append(out.List, list[:n]...)
	out.List = append(out.List, r.pending...)
	out.List = append(out.List, list[n:]...)
	return out, result, nil
}

func prologueLen(list []js.IStmt) int {
	for i, stmt := range list {
		if _, ok := stmt.(*js.DirectivePrologueStmt); !ok {
			return i
		}
	}
	return len(list)
}
