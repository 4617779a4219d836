package gqltag

import (
	"errors"
	"fmt"
)

// Validation failures for the document embedded in a graphql tag.
var (
	ErrEmptyDocument             = errors.New("unexpected empty graphql tag")
	ErrMultipleDefinitions       = errors.New("expected exactly one definition per graphql tag")
	ErrUnsupportedDefinitionKind = errors.New("unsupported definition kind")
	ErrMissingName               = errors.New("graphql operations and fragments must contain names")
)

// UnsupportedKindError reports a definition that is neither a fragment nor an
// operation. It matches ErrUnsupportedDefinitionKind with errors.Is.
type UnsupportedKindError struct {
	Kind string // graphql-js style kind, e.g. ObjectTypeDefinition
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("expected a fragment, mutation, query, or subscription, got `%s`", e.Kind)
}

// Is reports whether target is ErrUnsupportedDefinitionKind.
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedDefinitionKind
}
