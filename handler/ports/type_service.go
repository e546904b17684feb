package ports

import (
	"context"

	"github.com/typebind-dev/typebind/handler/values"
)

// TypeService is the external type-identifier hierarchy.
// It owns the definition of identifiers, their conformance (is-a)
// relationships, and the extension maps. The engine only queries it.
type TypeService interface {
	// TypesForExtension returns every identifier the extension maps to.
	// A known-good extension with no mapping returns an empty slice, nil.
	TypesForExtension(ctx context.Context, ext values.Extension) ([]values.TypeID, error)

	// ExtensionsForType returns every extension the identifier declares.
	// A known-good identifier with no mapping returns an empty slice, nil.
	ExtensionsForType(ctx context.Context, t values.TypeID) ([]values.Extension, error)

	// ConformsTo reports whether child is-a parent, directly or transitively.
	// Every identifier conforms to itself.
	ConformsTo(ctx context.Context, child, parent values.TypeID) (bool, error)
}
