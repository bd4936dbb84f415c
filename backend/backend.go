// Package backend implements clients for the hosted stores a survey
// deployment can point at. Both clients present the same Remote interface to
// the fallback-chain store and both treat missing configuration as "remote
// unavailable" rather than a startup failure.
package backend

import (
	"context"
	"fmt"

	"github.com/ncc-robotics/workshop-survey/wire"
)

// listLimit bounds every remote list call.
const listLimit = 100

// Remote is a hosted submission store. Implementations return
// *ConfigurationError when required identifiers are missing and
// *NetworkError when a call fails or times out.
type Remote interface {
	Kind() wire.Kind
	Create(ctx context.Context, rec wire.Record) (wire.Record, error)
	List(ctx context.Context) ([]wire.Record, error)
	Update(ctx context.Context, id string, rec wire.Record) (wire.Record, error)
	Delete(ctx context.Context, id string) error
}

// ConfigurationError marks a backend that cannot be reached because its
// identifiers were never supplied. Callers treat it like any other remote
// failure; it is never surfaced to a submitter.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "backend not configured: " + e.Reason
}

// NetworkError wraps a failed remote call, including timeouts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError reports an update or delete whose target id is absent from
// the store it was routed to.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("submission %q not found", e.ID)
}
