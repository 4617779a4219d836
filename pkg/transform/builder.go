package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// Builder constructs the syntax nodes emitted for a rewritten tag.
// Implementations must produce nodes that print identically.
type Builder interface {
	// Identifier returns a reference to name.
	Identifier(name string) (*js.Var, error)
	// DefaultImport returns `import <local> from "<module>";`.
	DefaultImport(local *js.Var, module string) (js.IStmt, error)
	// RequireDefault returns `var <local> = require("<module>").default;`.
	RequireDefault(local *js.Var, module string) (js.IStmt, error)
}

// NewBuilder returns the builder registered under name: "factory" or
// "snippet". An empty name selects the factory builder.
func NewBuilder(name string) (Builder, error) {
	switch name {
	case "", "factory":
		return FactoryBuilder{}, nil
	case "snippet":
		return SnippetBuilder{}, nil
	default:
		return nil, fmt.Errorf("unknown node builder %q (expected factory or snippet)", name)
	}
}

// FactoryBuilder assembles AST nodes directly.
type FactoryBuilder struct{}

// Identifier implements Builder.
func (FactoryBuilder) Identifier(name string) (*js.Var, error) {
	return &js.Var{Data: []byte(name)}, nil
}

// DefaultImport implements Builder.
func (FactoryBuilder) DefaultImport(local *js.Var, module string) (js.IStmt, error) {
	return &js.ImportStmt{
		Default: local.Name(),
		Module:  []byte(jsString(module)),
	}, nil
}

// RequireDefault implements Builder.
func (FactoryBuilder) RequireDefault(local *js.Var, module string) (js.IStmt, error) {
	call := &js.CallExpr{
		X: &js.Var{Data: []byte("require")},
		Args: js.Args{List: []js.Arg{{
			Value: &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(jsString(module))},
		}}},
	}
	return &js.VarDecl{
		TokenType: js.VarToken,
		List: []js.BindingElement{{
			Binding: local,
			Default: &js.DotExpr{
				X:    call,
				Y:    js.LiteralExpr{TokenType: js.IdentifierToken, Data: []byte("default")},
				Prec: js.OpCall,
			},
		}},
	}, nil
}

// SnippetBuilder builds nodes by rendering JavaScript source and parsing it
// back. It needs nothing from the host beyond the parser.
type SnippetBuilder struct{}

// Identifier implements Builder.
func (SnippetBuilder) Identifier(name string) (*js.Var, error) {
	stmt, err := parseSnippet(name + ";")
	if err != nil {
		return nil, err
	}
	if expr, ok := stmt.(*js.ExprStmt); ok {
		if v, ok := expr.Value.(*js.Var); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%q is not a valid identifier", name)
}

// DefaultImport implements Builder.
func (SnippetBuilder) DefaultImport(local *js.Var, module string) (js.IStmt, error) {
	return parseSnippet(fmt.Sprintf("import %s from %s;", local.Name(), jsString(module)))
}

// RequireDefault implements Builder.
func (SnippetBuilder) RequireDefault(local *js.Var, module string) (js.IStmt, error) {
	return parseSnippet(fmt.Sprintf("var %s = require(%s).default;", local.Name(), jsString(module)))
}

func parseSnippet(src string) (js.IStmt, error) {
	tree, err := js.Parse(parse.NewInputString(src), js.Options{})
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", src, err)
	}
	if len(tree.List) != 1 {
		return nil, fmt.Errorf("building %q: expected one statement, got %d", src, len(tree.List))
	}
	return tree.List[0], nil
}

// jsString returns s as a double-quoted JavaScript string literal. JSON
// string syntax is a subset of it, with U+2028 and U+2029 escaped.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
