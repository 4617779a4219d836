package transform

import "fmt"

// MarkerError reports a graphql tag that could not be rewritten. Index is the
// 1-based position of the tag in the file.
type MarkerError struct {
	File  string
	Index int
	Err   error
}

func (e *MarkerError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: graphql tag #%d: %v", e.File, e.Index, e.Err)
	}
	return fmt.Sprintf("graphql tag #%d: %v", e.Index, e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}
