// Package resolvers provides caching decorators over the engine's
// collaborator ports. The caches live for the process lifetime: installed
// applications and the type database are treated as effectively static
// within a resolution session, a documented staleness window.
package resolvers

import (
	"context"
	"sync"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/ports"
	"github.com/typebind-dev/typebind/handler/values"
)

// TypeResolver translates between extensions and type identifiers through
// a read-through cache over the external type service. It validates and
// normalizes raw caller input before any collaborator call.
type TypeResolver struct {
	service ports.TypeService

	mu          sync.RWMutex
	byExtension map[string][]values.TypeID
	byType      map[string][]values.Extension
	conformance map[conformanceKey]bool
}

type conformanceKey struct {
	child  string
	parent string
}

// NewTypeResolver creates a resolver backed by the given type service.
func NewTypeResolver(service ports.TypeService) *TypeResolver {
	return &TypeResolver{
		service:     service,
		byExtension: make(map[string][]values.TypeID),
		byType:      make(map[string][]values.Extension),
		conformance: make(map[conformanceKey]bool),
	}
}

// TypesForExtension resolves a raw extension token to its identifiers.
// A syntactically valid extension with zero mappings returns an empty
// slice and nil error; only malformed input is an error.
func (r *TypeResolver) TypesForExtension(ctx context.Context, ext string) ([]values.TypeID, error) {
	e, err := values.NewExtension(ext)
	if err != nil {
		return nil, &entities.ValidationError{Code: entities.CodeInvalidType, Reason: err.Error()}
	}

	r.mu.RLock()
	cached, ok := r.byExtension[e.String()]
	r.mu.RUnlock()
	if ok {
		return cloneTypes(cached), nil
	}

	types, err := r.service.TypesForExtension(ctx, e)
	if err != nil {
		return nil, &entities.SystemError{Op: "resolve types for extension " + e.String(), Err: err}
	}

	r.mu.Lock()
	r.byExtension[e.String()] = types
	r.mu.Unlock()

	return cloneTypes(types), nil
}

// ExtensionsForType resolves a raw identifier token to its extensions.
// A syntactically valid identifier with zero mappings returns an empty
// slice and nil error.
func (r *TypeResolver) ExtensionsForType(ctx context.Context, typeID string) ([]values.Extension, error) {
	t, err := values.NewTypeID(typeID)
	if err != nil {
		return nil, &entities.ValidationError{Code: entities.CodeInvalidType, Reason: err.Error()}
	}

	r.mu.RLock()
	cached, ok := r.byType[t.Fold()]
	r.mu.RUnlock()
	if ok {
		return cloneExtensions(cached), nil
	}

	exts, err := r.service.ExtensionsForType(ctx, t)
	if err != nil {
		return nil, &entities.SystemError{Op: "resolve extensions for type " + t.String(), Err: err}
	}

	r.mu.Lock()
	r.byType[t.Fold()] = exts
	r.mu.Unlock()

	return cloneExtensions(exts), nil
}

// ConformsTo reports whether child is-a parent, memoizing pairs.
func (r *TypeResolver) ConformsTo(ctx context.Context, child, parent values.TypeID) (bool, error) {
	key := conformanceKey{child: child.Fold(), parent: parent.Fold()}

	r.mu.RLock()
	cached, ok := r.conformance[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	conforms, err := r.service.ConformsTo(ctx, child, parent)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	r.conformance[key] = conforms
	r.mu.Unlock()

	return conforms, nil
}

func cloneTypes(in []values.TypeID) []values.TypeID {
	out := make([]values.TypeID, len(in))
	copy(out, in)
	return out
}

func cloneExtensions(in []values.Extension) []values.Extension {
	out := make([]values.Extension, len(in))
	copy(out, in)
	return out
}
