// Package gqltag extracts the single GraphQL definition declared inside a
// graphql tagged template.
//
// The embedded text must parse as a GraphQL document holding exactly one named
// fragment or operation. Anything else is a hard error: a wrong binding would
// only surface much later, when the generated artifact is missing or mismatched.
package gqltag

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/lexer"
	"github.com/vektah/gqlparser/v2/parser"
)

// DefinitionKind classifies the definition held by a tag.
type DefinitionKind string

// Supported definition kinds.
const (
	KindFragment     DefinitionKind = "fragment"
	KindQuery        DefinitionKind = "query"
	KindMutation     DefinitionKind = "mutation"
	KindSubscription DefinitionKind = "subscription"
)

// IsOperation reports whether k is a query, mutation or subscription.
func (k DefinitionKind) IsOperation() bool {
	return k == KindQuery || k == KindMutation || k == KindSubscription
}

// Definition is the named fragment or operation found in a tag.
type Definition struct {
	Name string
	Kind DefinitionKind
}

// Parse parses text and validates that it declares exactly one named fragment
// or operation. Syntax errors from the GraphQL parser are returned unchanged.
func Parse(text string) (Definition, error) {
	source := &ast.Source{Name: "graphql", Input: text}

	doc, err := parser.ParseQuery(source)
	if err != nil {
		// Type-system definitions are not executable; parse them separately so
		// the error can name the offending kind.
		if kinds, ok := typeSystemKinds(source); ok {
			if len(kinds) > 1 {
				return Definition{}, ErrMultipleDefinitions
			}
			return Definition{}, &UnsupportedKindError{Kind: kinds[0]}
		}
		// Neither parser accepts a document mixing executable and type-system
		// definitions.
		if countDefinitions(source) > 1 {
			return Definition{}, ErrMultipleDefinitions
		}
		return Definition{}, err
	}

	switch count := len(doc.Operations) + len(doc.Fragments); {
	case count == 0:
		return Definition{}, ErrEmptyDocument
	case count > 1:
		return Definition{}, ErrMultipleDefinitions
	}

	var def Definition
	if len(doc.Fragments) == 1 {
		def = Definition{Name: doc.Fragments[0].Name, Kind: KindFragment}
	} else {
		op := doc.Operations[0]
		def = Definition{Name: op.Name, Kind: DefinitionKind(op.Operation)}
	}

	if def.Name == "" {
		return Definition{}, ErrMissingName
	}
	return def, nil
}

// DefinitionName returns the name of the single definition in text.
func DefinitionName(text string) (string, error) {
	def, err := Parse(text)
	if err != nil {
		return "", err
	}
	return def.Name, nil
}

// typeSystemKinds parses source as a type-system document and returns the
// kinds of its top-level definitions in document-section order. ok is false
// when the text is not a non-empty type-system document either.
func typeSystemKinds(source *ast.Source) (kinds []string, ok bool) {
	doc, err := parser.ParseSchema(source)
	if err != nil || doc == nil {
		return nil, false
	}

	for range doc.Schema {
		kinds = append(kinds, "SchemaDefinition")
	}
	for range doc.SchemaExtension {
		kinds = append(kinds, "SchemaExtension")
	}
	for range doc.Directives {
		kinds = append(kinds, "DirectiveDefinition")
	}
	for _, def := range doc.Definitions {
		kinds = append(kinds, typeKindName(def.Kind)+"Definition")
	}
	for _, def := range doc.Extensions {
		kinds = append(kinds, typeKindName(def.Kind)+"Extension")
	}

	return kinds, len(kinds) > 0
}

// definitionKeywords start a top-level definition.
var definitionKeywords = map[string]bool{
	"query": true, "mutation": true, "subscription": true, "fragment": true,
	"schema": true, "scalar": true, "type": true, "interface": true,
	"union": true, "enum": true, "input": true, "directive": true, "extend": true,
}

// countDefinitions counts top-level definitions by scanning tokens: a
// definition keyword at nesting depth zero, or a selection set at depth zero
// with no keyword before it. Scanning stops at the first lexical error.
func countDefinitions(source *ast.Source) int {
	lex := lexer.New(source)
	var (
		count   int
		depth   int
		pending bool // a keyword was seen and its body has not opened yet
		extend  bool
	)
	for {
		tok, err := lex.ReadToken()
		if err != nil || tok.Kind == lexer.EOF {
			return count
		}
		switch tok.Kind {
		case lexer.BraceL, lexer.ParenL, lexer.BracketL:
			if depth == 0 && tok.Kind == lexer.BraceL {
				if !pending {
					count++
				}
				pending = false
			}
			depth++
		case lexer.BraceR, lexer.ParenR, lexer.BracketR:
			if depth > 0 {
				depth--
			}
		case lexer.Name:
			if depth > 0 || !definitionKeywords[tok.Value] {
				continue
			}
			if extend {
				// "extend type ..." is one definition.
				extend = false
				continue
			}
			count++
			pending = true
			extend = tok.Value == "extend"
		}
	}
}

func typeKindName(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Scalar:
		return "ScalarType"
	case ast.Object:
		return "ObjectType"
	case ast.Interface:
		return "InterfaceType"
	case ast.Union:
		return "UnionType"
	case ast.Enum:
		return "EnumType"
	case ast.InputObject:
		return "InputObjectType"
	default:
		return "Type"
	}
}
