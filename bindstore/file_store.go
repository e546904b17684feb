// Package bindstore provides file-based persistence for default-handler
// bindings. It is the engine's reference BindingRegistry: a YAML file
// mapping type identifiers and URL schemes to application paths, with a
// pluggable write policy that can veto changes the way platform policy
// does — by accepting the request and not applying it.
package bindstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

// Kind distinguishes the two binding namespaces.
type Kind string

const (
	KindType   Kind = "type"
	KindScheme Kind = "scheme"
)

// WritePolicy decides whether a requested binding change is applied.
// Returning false declines the write without error; the engine's read-back
// verification is what turns that silence into an observable outcome.
type WritePolicy func(kind Kind, target, appPath string) bool

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string
	dirPerm  os.FileMode
	filePerm os.FileMode
	policy   WritePolicy
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     filepath.Join(os.Getenv("HOME"), ".typebind", "bindings.yaml"),
		dirPerm:  0o755,
		filePerm: 0o600,
		policy:   func(Kind, string, string) bool { return true },
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the bindings file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFilePermissions sets the file permissions for the bindings file.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithWritePolicy sets the policy consulted before every write.
func WithWritePolicy(policy WritePolicy) FileStoreOption {
	return func(c *fileStoreConfig) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// bindingsDoc is the YAML shape of the store.
type bindingsDoc struct {
	Types   map[string]string `yaml:"types,omitempty"`
	Schemes map[string]string `yaml:"schemes,omitempty"`
}

// FileStore implements ports.BindingRegistry over a single YAML file.
// Reads always go to disk: bindings can change outside the process and
// the engine relies on the store never caching them.
type FileStore struct {
	config fileStoreConfig
	mu     sync.Mutex // serializes read-modify-write cycles
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Path returns the bindings file location.
func (s *FileStore) Path() string {
	return s.config.path
}

// DefaultForType implements ports.BindingRegistry.
func (s *FileStore) DefaultForType(ctx context.Context, t values.TypeID) (string, error) {
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	path, ok := doc.Types[t.Fold()]
	if !ok {
		return "", &entities.NotFoundError{Kind: "binding", Target: t.String()}
	}
	return path, nil
}

// DefaultForScheme implements ports.BindingRegistry.
func (s *FileStore) DefaultForScheme(ctx context.Context, sc values.Scheme) (string, error) {
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	path, ok := doc.Schemes[sc.String()]
	if !ok {
		return "", &entities.NotFoundError{Kind: "binding", Target: sc.String()}
	}
	return path, nil
}

// SetDefaultForType implements ports.BindingRegistry. A write the policy
// vetoes returns nil without touching the file.
func (s *FileStore) SetDefaultForType(ctx context.Context, appPath string, t values.TypeID) error {
	if !s.config.policy(KindType, t.String(), appPath) {
		return nil
	}
	return s.update(func(doc *bindingsDoc) {
		if doc.Types == nil {
			doc.Types = make(map[string]string)
		}
		doc.Types[t.Fold()] = appPath
	})
}

// SetDefaultForScheme implements ports.BindingRegistry.
func (s *FileStore) SetDefaultForScheme(ctx context.Context, appPath string, sc values.Scheme) error {
	if !s.config.policy(KindScheme, sc.String(), appPath) {
		return nil
	}
	return s.update(func(doc *bindingsDoc) {
		if doc.Schemes == nil {
			doc.Schemes = make(map[string]string)
		}
		doc.Schemes[sc.String()] = appPath
	})
}

func (s *FileStore) load() (*bindingsDoc, error) {
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		return &bindingsDoc{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bindings file: %w", err)
	}

	var doc bindingsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bindings file: %w", err)
	}
	return &doc, nil
}

func (s *FileStore) update(mutate func(*bindingsDoc)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	mutate(doc)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode bindings file: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("create bindings directory: %w", err)
	}

	tmp := s.config.path + ".tmp"
	if err := os.WriteFile(tmp, data, s.config.filePerm); err != nil {
		return fmt.Errorf("write bindings file: %w", err)
	}
	if err := os.Rename(tmp, s.config.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace bindings file: %w", err)
	}
	return nil
}
