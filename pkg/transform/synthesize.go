package transform

import (
	"github.com/leapstack-labs/leaprelay/pkg/artifact"
	"github.com/tdewolff/parse/v2/js"
)

// Synthesize builds the binding statement and the replacement expression for
// one artifact reference. The binding declares the definition name and the
// expression refers to it.
func Synthesize(b Builder, ref artifact.Reference, kind ModuleKind) (js.IStmt, js.IExpr, error) {
	local, err := b.Identifier(ref.DefinitionName)
	if err != nil {
		return nil, nil, err
	}

	var binding js.IStmt
	switch kind {
	case CommonJS:
		binding, err = b.RequireDefault(local, ref.Path)
	default:
		binding, err = b.DefaultImport(local, ref.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	return binding, local, nil
}
