package ports

import (
	"context"

	"github.com/typebind-dev/typebind/handler/values"
)

// BindingRegistry is the persistent default-handler database.
// It is the single source of truth for current bindings; the engine never
// caches its answers because they can change outside the process.
//
// A write may be silently declined: Set returns nil but a subsequent read
// still reports the previous binding. The transactor detects this with a
// read-back; implementations are not required to report the decline
// themselves.
type BindingRegistry interface {
	// DefaultForType returns the bound application path for the identifier.
	// No binding returns an error matching entities.ErrNotFound.
	DefaultForType(ctx context.Context, t values.TypeID) (string, error)

	// DefaultForScheme returns the bound application path for the scheme.
	// No binding returns an error matching entities.ErrNotFound.
	DefaultForScheme(ctx context.Context, s values.Scheme) (string, error)

	// SetDefaultForType requests that appPath become the binding for t.
	SetDefaultForType(ctx context.Context, appPath string, t values.TypeID) error

	// SetDefaultForScheme requests that appPath become the binding for s.
	SetDefaultForScheme(ctx context.Context, appPath string, s values.Scheme) error
}
