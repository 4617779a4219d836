package gqltag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Definition
	}{
		{
			name: "fragment",
			text: `fragment UserCard_user on User { id name }`,
			want: Definition{Name: "UserCard_user", Kind: KindFragment},
		},
		{
			name: "query",
			text: `
				query AppQuery {
					viewer { id }
				}
			`,
			want: Definition{Name: "AppQuery", Kind: KindQuery},
		},
		{
			name: "mutation with variables",
			text: `mutation LikeMutation($id: ID!) { like(id: $id) { id } }`,
			want: Definition{Name: "LikeMutation", Kind: KindMutation},
		},
		{
			name: "subscription",
			text: `subscription FeedSubscription { feed { id } }`,
			want: Definition{Name: "FeedSubscription", Kind: KindSubscription},
		},
		{
			name: "comments around definition",
			text: "# header\nfragment A_a on A { id }\n# trailer\n",
			want: Definition{Name: "A_a", Kind: KindFragment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"empty text", "", ErrEmptyDocument},
		{"whitespace and comments only", "  \n # nothing here\n", ErrEmptyDocument},
		{"two operations", `query A { a } query B { b }`, ErrMultipleDefinitions},
		{"two fragments", `fragment A on T { a } fragment B on T { b }`, ErrMultipleDefinitions},
		{"operation and fragment", `query A { ...F } fragment F on T { a }`, ErrMultipleDefinitions},
		{"two type definitions", `type A { a: Int } type B { b: Int }`, ErrMultipleDefinitions},
		{"fragment then type", `fragment F on T { a } type X { b: Int }`, ErrMultipleDefinitions},
		{"type then query", `type X { b: Int } query Q { a }`, ErrMultipleDefinitions},
		{"query then extension", `query Q { a } extend type X { b: Int }`, ErrMultipleDefinitions},
		{"anonymous query", `{ viewer { id } }`, ErrMissingName},
		{"unnamed query keyword", `query { viewer { id } }`, ErrMissingName},
		{"object type", `type User { id: ID }`, ErrUnsupportedDefinitionKind},
		{"scalar", `scalar Date`, ErrUnsupportedDefinitionKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_ValidationErrorsAreDistinct(t *testing.T) {
	sentinels := []error{ErrEmptyDocument, ErrMultipleDefinitions, ErrUnsupportedDefinitionKind, ErrMissingName}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestParse_UnsupportedKindNamesKind(t *testing.T) {
	tests := []struct {
		text string
		kind string
	}{
		{`type User { id: ID }`, "ObjectTypeDefinition"},
		{`scalar Date`, "ScalarTypeDefinition"},
		{`enum Color { RED GREEN }`, "EnumTypeDefinition"},
		{`input Filter { q: String }`, "InputObjectTypeDefinition"},
		{`directive @cached on FIELD`, "DirectiveDefinition"},
		{`schema { query: Query }`, "SchemaDefinition"},
		{`extend type User { age: Int }`, "ObjectTypeExtension"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			_, err := Parse(tt.text)
			var kindErr *UnsupportedKindError
			require.ErrorAs(t, err, &kindErr)
			assert.Equal(t, tt.kind, kindErr.Kind)
			assert.Contains(t, err.Error(), "`"+tt.kind+"`")
		})
	}
}

func TestParse_SyntaxErrorPropagated(t *testing.T) {
	tests := []string{
		`query A {`,
		`fragment on User { id }`,
		`not graphql at all`,
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)

			var gqlErr *gqlerror.Error
			require.ErrorAs(t, err, &gqlErr)
			assert.NotErrorIs(t, err, ErrEmptyDocument)
			assert.NotErrorIs(t, err, ErrMultipleDefinitions)
			assert.NotErrorIs(t, err, ErrUnsupportedDefinitionKind)
			assert.NotErrorIs(t, err, ErrMissingName)
		})
	}
}

func TestDefinitionName(t *testing.T) {
	name, err := DefinitionName(`query AppQuery { viewer { id } }`)
	require.NoError(t, err)
	assert.Equal(t, "AppQuery", name)

	name, err = DefinitionName(`{ viewer { id } }`)
	assert.ErrorIs(t, err, ErrMissingName)
	assert.Empty(t, name)
}

func TestDefinitionKind_IsOperation(t *testing.T) {
	assert.True(t, KindQuery.IsOperation())
	assert.True(t, KindMutation.IsOperation())
	assert.True(t, KindSubscription.IsOperation())
	assert.False(t, KindFragment.IsOperation())
}

func TestCountDefinitions(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{``, 0},
		{`{ a }`, 1},
		{`query Q($id: ID = "query") { a(b: [1]) { type } }`, 1},
		{`extend type X { b: Int }`, 1},
		{`"""doc""" type X { b: Int } scalar Date`, 2},
		{`directive @d(a: Int) on FIELD query Q { a }`, 2},
		{`fragment F on T { a } type X { b: Int } { c }`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, countDefinitions(&ast.Source{Input: tt.text}))
		})
	}
}
