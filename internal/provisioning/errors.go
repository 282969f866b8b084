package provisioning

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by lookups that found nothing.
	ErrNotFound = errors.New("not found")

	// ErrComputeNotProvisioned is returned when a phase needs the compute
	// unit before it has been declared.
	ErrComputeNotProvisioned = errors.New("compute unit not provisioned")

	// ErrNetworkNotResolved is returned when a phase needs the network
	// handle before it has been resolved.
	ErrNetworkNotResolved = errors.New("network not resolved")
)

// ResolutionError reports an external reference that could not be resolved
// at assembly time. It is fatal for the stage.
type ResolutionError struct {
	Kind string // e.g. "vpc", "subnets"
	ID   string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// PermissionError reports a permission statement that breaks the least
// privilege policy of the execution identity.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission %q rejected: %s", e.Action, e.Reason)
}

// IsResolutionError reports whether err wraps a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
