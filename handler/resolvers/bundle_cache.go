package resolvers

import (
	"context"
	"sync"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/ports"
)

// CachedBundleReader caches bundle metadata per application path for the
// process lifetime. Errors are not cached, so a transiently unreadable
// bundle can succeed on retry.
type CachedBundleReader struct {
	reader ports.BundleReader

	mu      sync.RWMutex
	entries map[string]*bundleEntry
}

type bundleEntry struct {
	descriptor   entities.Descriptor
	declarations []entities.Declaration
	schemes      []entities.SchemeDeclaration
}

// NewCachedBundleReader wraps reader with a per-path cache.
func NewCachedBundleReader(reader ports.BundleReader) *CachedBundleReader {
	return &CachedBundleReader{
		reader:  reader,
		entries: make(map[string]*bundleEntry),
	}
}

// Descriptor implements ports.BundleReader.
func (c *CachedBundleReader) Descriptor(ctx context.Context, path string) (entities.Descriptor, error) {
	entry, err := c.load(ctx, path)
	if err != nil {
		return entities.Descriptor{}, err
	}
	return entry.descriptor, nil
}

// Declarations implements ports.BundleReader.
func (c *CachedBundleReader) Declarations(ctx context.Context, path string) ([]entities.Declaration, error) {
	entry, err := c.load(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Declaration, len(entry.declarations))
	copy(out, entry.declarations)
	return out, nil
}

// SchemeDeclarations implements ports.BundleReader.
func (c *CachedBundleReader) SchemeDeclarations(ctx context.Context, path string) ([]entities.SchemeDeclaration, error) {
	entry, err := c.load(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]entities.SchemeDeclaration, len(entry.schemes))
	copy(out, entry.schemes)
	return out, nil
}

func (c *CachedBundleReader) load(ctx context.Context, path string) (*bundleEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	descriptor, err := c.reader.Descriptor(ctx, path)
	if err != nil {
		return nil, err
	}
	declarations, err := c.reader.Declarations(ctx, path)
	if err != nil {
		return nil, err
	}
	schemes, err := c.reader.SchemeDeclarations(ctx, path)
	if err != nil {
		return nil, err
	}

	entry = &bundleEntry{
		descriptor:   descriptor,
		declarations: declarations,
		schemes:      schemes,
	}

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}
