package provisioning

import (
	"context"

	"github.com/imamik/mailcron/internal/util/tags"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision declares this phase's resources into ctx.Template.
	Provision(ctx *Context) error
}

// NetworkResolver turns a stable network identifier into a handle.
// Implemented by network.Provider.
type NetworkResolver interface {
	Resolve(ctx context.Context, id string) (*NetworkHandle, error)
}

// Unit is a taggable group of declared resources.
type Unit interface {
	tags.Taggable

	// UnitName identifies the unit in logs and errors.
	UnitName() string
}
