package transform

import (
	"testing"

	"github.com/leapstack-labs/leaprelay/pkg/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

func TestBuilders_PrintIdentically(t *testing.T) {
	ref := artifact.Reference{Path: "../generated/UserCard_user.graphql", DefinitionName: "UserCard_user"}

	tests := []struct {
		kind        ModuleKind
		wantBinding string
	}{
		{ESModule, `import UserCard_user from "../generated/UserCard_user.graphql";`},
		{CommonJS, `var UserCard_user = require("../generated/UserCard_user.graphql").default`},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			for _, b := range []Builder{FactoryBuilder{}, SnippetBuilder{}} {
				binding, ident, err := Synthesize(b, ref, tt.kind)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBinding, nodeText(binding), "%T", b)
				assert.Equal(t, "UserCard_user", nodeText(ident), "%T", b)
			}
		})
	}
}

func TestBuilders_BindingReparses(t *testing.T) {
	ref := artifact.Reference{Path: "./__generated__/AppQuery.graphql", DefinitionName: "AppQuery"}

	for _, kind := range []ModuleKind{ESModule, CommonJS} {
		binding, _, err := Synthesize(FactoryBuilder{}, ref, kind)
		require.NoError(t, err)

		tree := &js.AST{BlockStmt: js.BlockStmt{List: []js.IStmt{binding}}}
		src := tree.JSString()

		_, err = js.Parse(parse.NewInputString(src), js.Options{})
		assert.NoError(t, err, src)
	}
}

func TestSnippetBuilder_RejectsInvalidIdentifier(t *testing.T) {
	_, err := SnippetBuilder{}.Identifier("not an identifier")
	assert.Error(t, err)

	_, err = SnippetBuilder{}.Identifier("1abc")
	assert.Error(t, err)
}

func TestFactoryBuilder_QuotesModule(t *testing.T) {
	local, err := FactoryBuilder{}.Identifier("A")
	require.NoError(t, err)

	stmt, err := FactoryBuilder{}.DefaultImport(local, `./dir "quoted"/A.graphql`)
	require.NoError(t, err)
	assert.Equal(t, `import A from "./dir \"quoted\"/A.graphql";`, nodeText(stmt))
}

func TestJSString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./__generated__/A.graphql", `"./__generated__/A.graphql"`},
		{`C:\gen\"A".graphql`, `"C:\\gen\\\"A\".graphql"`},
		{"bell\a", `"bell\u0007"`},
		{"sep\u2028", `"sep\u2028"`},
		{"max\U0010FFFF&<>", "\"max\U0010FFFF&<>\""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := jsString(tt.in)
			assert.Equal(t, tt.want, got)

			_, err := js.Parse(parse.NewInputString("x = "+got+";"), js.Options{})
			require.NoError(t, err)
		})
	}
}

func TestNewBuilder(t *testing.T) {
	b, err := NewBuilder("")
	require.NoError(t, err)
	assert.IsType(t, FactoryBuilder{}, b)

	b, err = NewBuilder("factory")
	require.NoError(t, err)
	assert.IsType(t, FactoryBuilder{}, b)

	b, err = NewBuilder("snippet")
	require.NoError(t, err)
	assert.IsType(t, SnippetBuilder{}, b)

	_, err = NewBuilder("babel")
	assert.Error(t, err)
}

func TestIsMarker(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"graphql`query A { a }`", true},
		{"graphql`\n  fragment F on T { id }\n`", true},
		{"gql`query A { a }`", false},
		{"relay.graphql`query A { a }`", false},
		{"`query A { a }`", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := parseJS(t, tt.src+";")
			stmt, ok := tree.List[0].(*js.ExprStmt)
			require.True(t, ok)
			tmpl, ok := stmt.Value.(*js.TemplateExpr)
			require.True(t, ok)
			assert.Equal(t, tt.want, IsMarker(tmpl))
		})
	}
}

func TestMarkerText(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"graphql`query A { a }`", "query A { a }"},
		{"graphql``", ""},
		{"graphql`a ${b} c`", "a ${b} c"},
		{"graphql`\n  x\n`", "\n  x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := parseJS(t, tt.src+";")
			tmpl := tree.List[0].(*js.ExprStmt).Value.(*js.TemplateExpr)
			assert.Equal(t, tt.want, MarkerText(tmpl))
		})
	}
}
