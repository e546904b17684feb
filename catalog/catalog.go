package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/typebind-dev/typebind/handler/entities"
)

// DefaultBundlePattern matches application bundle directories under a
// search root.
const DefaultBundlePattern = "**/*.app"

// DefaultManifestName is the manifest file expected inside each bundle.
const DefaultManifestName = "manifest.yaml"

// storeConfig holds configuration for the Store.
type storeConfig struct {
	roots        []string
	pattern      string
	manifestName string
	logger       *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

// WithPattern sets the glob pattern for bundle directories.
func WithPattern(pattern string) StoreOption {
	return func(c *storeConfig) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

// WithManifestName sets the manifest filename looked up inside bundles.
func WithManifestName(name string) StoreOption {
	return func(c *storeConfig) {
		if name != "" {
			c.manifestName = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Store scans search roots for application bundles and reads their
// manifests. It implements both ports.AppCatalog and ports.BundleReader;
// callers wanting per-path caching wrap it in resolvers.CachedBundleReader.
type Store struct {
	config storeConfig
}

// NewStore creates a store over the given search roots.
func NewStore(roots []string, opts ...StoreOption) *Store {
	cfg := storeConfig{
		roots:        roots,
		pattern:      DefaultBundlePattern,
		manifestName: DefaultManifestName,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{config: cfg}
}

// List implements ports.AppCatalog. Bundles whose manifest is missing or
// malformed are skipped with a debug log; one broken bundle must not hide
// the rest of the system.
func (s *Store) List(ctx context.Context) ([]entities.Descriptor, error) {
	var out []entities.Descriptor

	for _, root := range s.config.roots {
		matches, err := doublestar.Glob(os.DirFS(root), s.config.pattern)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			bundlePath := filepath.Join(root, filepath.FromSlash(match))
			manifest, err := s.readManifest(bundlePath)
			if err != nil {
				s.config.logger.Debug("skipping bundle", "path", bundlePath, "error", err)
				continue
			}
			out = append(out, manifest.descriptor(bundlePath))
		}
	}

	return out, nil
}

// Descriptor implements ports.BundleReader.
func (s *Store) Descriptor(ctx context.Context, path string) (entities.Descriptor, error) {
	manifest, err := s.readManifest(path)
	if err != nil {
		return entities.Descriptor{}, s.invalidBundle(path, err)
	}
	return manifest.descriptor(path), nil
}

// Declarations implements ports.BundleReader.
func (s *Store) Declarations(ctx context.Context, path string) ([]entities.Declaration, error) {
	manifest, err := s.readManifest(path)
	if err != nil {
		return nil, s.invalidBundle(path, err)
	}
	return manifest.declarations()
}

// SchemeDeclarations implements ports.BundleReader.
func (s *Store) SchemeDeclarations(ctx context.Context, path string) ([]entities.SchemeDeclaration, error) {
	manifest, err := s.readManifest(path)
	if err != nil {
		return nil, s.invalidBundle(path, err)
	}
	return manifest.schemeDeclarations()
}

func (s *Store) readManifest(bundlePath string) (*Manifest, error) {
	info, err := os.Stat(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("bundle not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a bundle directory", bundlePath)
	}

	data, err := os.ReadFile(filepath.Join(bundlePath, s.config.manifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validateManifest(doc); err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &manifest, nil
}

func (s *Store) invalidBundle(path string, err error) error {
	return &entities.ValidationError{
		Code:   entities.CodeInvalidApplication,
		Reason: fmt.Sprintf("%s: %v", path, err),
	}
}
