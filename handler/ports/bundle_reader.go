package ports

import (
	"context"

	"github.com/typebind-dev/typebind/handler/entities"
)

// BundleReader reads application bundle metadata from a path.
// Implementations return an error matching entities.ErrInvalidApplication
// when the path does not reference a resolvable application bundle.
type BundleReader interface {
	// Descriptor reads the identity metadata of the bundle at path.
	Descriptor(ctx context.Context, path string) (entities.Descriptor, error)

	// Declarations returns the bundle's document-type declarations in
	// declaration order.
	Declarations(ctx context.Context, path string) ([]entities.Declaration, error)

	// SchemeDeclarations returns the bundle's URL-scheme declarations in
	// declaration order.
	SchemeDeclarations(ctx context.Context, path string) ([]entities.SchemeDeclaration, error)
}

// AppCatalog enumerates the applications installed on the system.
type AppCatalog interface {
	// List returns a descriptor for every installed application.
	// Order is unspecified; the resolution layer imposes its own.
	List(ctx context.Context) ([]entities.Descriptor, error)
}
