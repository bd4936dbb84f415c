package store

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ValidationError carries one message per failing field, keyed by the form's
// camelCase field names. It always reaches the user and blocks the operation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return fmt.Sprintf("invalid submission: %s", strings.Join(names, ", "))
}

// AggregateError reports that the remote backend and the local store both
// failed. It can only come out of List.
type AggregateError struct {
	Err *multierror.Error
}

func (e *AggregateError) Error() string {
	return "remote and local store both failed: " + e.Err.Error()
}

func (e *AggregateError) Unwrap() error { return e.Err }
