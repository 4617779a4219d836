package transform

import (
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// MarkerTag is the reserved tag identifier of graphql templates.
const MarkerTag = "graphql"

// IsMarker reports whether n is a graphql tagged template. The tag text must
// be exactly MarkerTag: aliases, member expressions such as relay.graphql and
// optional chains do not match.
func IsMarker(n *js.TemplateExpr) bool {
	if n == nil || n.Tag == nil || n.Optional {
		return false
	}
	return nodeText(n.Tag) == MarkerTag
}

// MarkerText returns the raw text between the backticks of a template.
// Substitutions are kept verbatim, including their ${ } delimiters.
func MarkerText(n *js.TemplateExpr) string {
	var sb strings.Builder
	for _, part := range n.List {
		sb.Write(part.Value)
		part.Expr.JS(&sb)
	}
	sb.Write(n.Tail)

	raw := sb.String()
	if len(raw) < 2 {
		return ""
	}
	return raw[1 : len(raw)-1]
}

func nodeText(n js.INode) string {
	var sb strings.Builder
	n.JS(&sb)
	return sb.String()
}
