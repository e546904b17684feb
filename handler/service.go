// Package handler implements the default-handler resolution and
// registration engine: it maps file extensions to type identifiers and
// back, enumerates the applications capable of opening a type or URL
// scheme, and commits validated, read-back-verified changes to the
// system's default-handler bindings.
//
// The engine owns no persistent state. Everything it returns is derived
// per request from the collaborator ports and freshly allocated: no
// returned slice or descriptor aliases engine-internal state, and the
// engine retains no reference to anything it has returned.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/ports"
	"github.com/typebind-dev/typebind/handler/resolvers"
	"github.com/typebind-dev/typebind/handler/services"
	"github.com/typebind-dev/typebind/handler/values"
)

// Service orchestrates the resolution and registration use cases over the
// collaborator ports. It is safe for concurrent use; the only shared
// mutable state is the internally synchronized read-through caches.
type Service struct {
	types    *resolvers.TypeResolver
	bundles  *resolvers.CachedBundleReader
	catalog  ports.AppCatalog
	registry ports.BindingRegistry
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates the engine over its four collaborators. All of them
// are required; reader and typeService are wrapped in process-lifetime
// caches (installed applications and the type database are treated as
// static within a session).
func NewService(
	catalog ports.AppCatalog,
	reader ports.BundleReader,
	typeService ports.TypeService,
	registry ports.BindingRegistry,
	opts ...Option,
) *Service {
	s := &Service{
		types:    resolvers.NewTypeResolver(typeService),
		bundles:  resolvers.NewCachedBundleReader(reader),
		catalog:  catalog,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TypesForExtension resolves a file extension to its type identifiers.
// An empty result is a successful answer, not an error; callers decide
// whether an unmapped extension matters. An extension resolving to more
// than one identifier is ambiguous and the engine never picks silently.
func (s *Service) TypesForExtension(ctx context.Context, ext string) ([]values.TypeID, error) {
	return s.types.TypesForExtension(ctx, ext)
}

// ExtensionsForType resolves a type identifier to its declared extensions.
// An empty result is a successful answer.
func (s *Service) ExtensionsForType(ctx context.Context, typeID string) ([]values.Extension, error) {
	return s.types.ExtensionsForType(ctx, typeID)
}

// ListApplications returns a descriptor for every installed application,
// ordered by name then path for deterministic output. No filtering.
func (s *Service) ListApplications(ctx context.Context) ([]entities.Descriptor, error) {
	apps, err := s.catalog.List(ctx)
	if err != nil {
		return nil, &entities.SystemError{Op: "list applications", Err: err}
	}

	out := make([]entities.Descriptor, len(apps))
	copy(out, apps)
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if c := coll.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// DeclarationsFor returns the document-type declarations of the
// application at path, in declaration order.
func (s *Service) DeclarationsFor(ctx context.Context, appPath string) ([]entities.Declaration, error) {
	path, err := normalizeAppPath(appPath)
	if err != nil {
		return nil, err
	}
	decls, err := s.bundles.Declarations(ctx, path)
	if err != nil {
		return nil, mapBundleError(path, err)
	}
	return decls, nil
}

// SchemeDeclarationsFor returns the URL-scheme declarations of the
// application at path, in declaration order.
func (s *Service) SchemeDeclarationsFor(ctx context.Context, appPath string) ([]entities.SchemeDeclaration, error) {
	path, err := normalizeAppPath(appPath)
	if err != nil {
		return nil, err
	}
	decls, err := s.bundles.SchemeDeclarations(ctx, path)
	if err != nil {
		return nil, mapBundleError(path, err)
	}
	return decls, nil
}

// DefaultDeclarationsFor returns the subset of the application's
// document-type declarations it is currently the effective default handler
// for, explicit or inferred. Each kept declaration is narrowed to the
// identifiers the application actually defaults for, with its extensions
// re-derived from those identifiers; declarations with no defaulted
// identifier are dropped entirely.
func (s *Service) DefaultDeclarationsFor(ctx context.Context, appPath string) ([]entities.Declaration, error) {
	path, err := normalizeAppPath(appPath)
	if err != nil {
		return nil, err
	}
	decls, err := s.bundles.Declarations(ctx, path)
	if err != nil {
		return nil, mapBundleError(path, err)
	}

	var out []entities.Declaration
	for _, decl := range decls {
		var matched []values.TypeID
		for _, t := range decl.Types {
			sel, err := s.ResolveDefaultByType(ctx, t.String())
			if errors.Is(err, entities.ErrNotFound) {
				// A type nobody defaults for simply doesn't match.
				continue
			}
			if err != nil {
				return nil, err
			}
			if sel.App.Path == path {
				matched = append(matched, t)
			}
		}
		if len(matched) == 0 {
			continue
		}

		exts, err := s.extensionsForTypes(ctx, matched)
		if err != nil {
			return nil, err
		}

		kept := decl
		kept.Types = matched
		kept.Extensions = exts
		out = append(out, kept)
	}
	return out, nil
}

// extensionsForTypes collects the extensions of the given identifiers,
// deduplicated and sorted.
func (s *Service) extensionsForTypes(ctx context.Context, types []values.TypeID) ([]values.Extension, error) {
	seen := make(map[string]bool)
	var out []values.Extension
	for _, t := range types {
		exts, err := s.types.ExtensionsForType(ctx, t.String())
		if err != nil {
			return nil, err
		}
		for _, e := range exts {
			if seen[e.String()] {
				continue
			}
			seen[e.String()] = true
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// ListOption configures an enumeration query.
type ListOption func(*listConfig)

type listConfig struct {
	openableOnly bool
}

// WithOpenableOnly excludes Shell- and None-role candidates, keeping only
// applications that open the content for the user.
func WithOpenableOnly() ListOption {
	return func(c *listConfig) { c.openableOnly = true }
}

// ListHandlersByType returns every application capable of opening the
// identifier, deduplicated by path and ordered rank-descending, then name
// case-insensitively, then path. Index 0 is always the best candidate.
func (s *Service) ListHandlersByType(ctx context.Context, typeID string, opts ...ListOption) ([]entities.Descriptor, error) {
	t, err := values.NewTypeID(typeID)
	if err != nil {
		return nil, &entities.ValidationError{Code: entities.CodeInvalidType, Reason: err.Error()}
	}
	candidates, err := s.candidatesForType(ctx, t)
	if err != nil {
		return nil, err
	}
	return applyListOptions(candidates, opts), nil
}

// ListHandlersByScheme returns every application declaring the scheme,
// with the same ordering contract as ListHandlersByType.
func (s *Service) ListHandlersByScheme(ctx context.Context, scheme string, opts ...ListOption) ([]entities.Descriptor, error) {
	sc, err := values.NewScheme(scheme)
	if err != nil {
		return nil, &entities.ValidationError{Code: entities.CodeInvalidScheme, Reason: err.Error()}
	}
	candidates, err := s.candidatesForScheme(ctx, sc)
	if err != nil {
		return nil, err
	}
	return applyListOptions(candidates, opts), nil
}

// ResolveDefaultByType resolves the effective default handler for the
// identifier. The registry binding wins when present and still valid; with
// no binding the top-ranked candidate is returned flagged as inferred.
func (s *Service) ResolveDefaultByType(ctx context.Context, typeID string) (entities.Selection, error) {
	t, err := values.NewTypeID(typeID)
	if err != nil {
		return entities.Selection{}, &entities.ValidationError{Code: entities.CodeInvalidType, Reason: err.Error()}
	}

	binding, err := s.currentBinding(func() (string, error) {
		return s.registry.DefaultForType(ctx, t)
	})
	if err != nil {
		return entities.Selection{}, err
	}

	candidates, err := s.candidatesForType(ctx, t)
	if err != nil {
		return entities.Selection{}, err
	}
	return services.SelectDefault(t.String(), binding, candidates)
}

// ResolveDefaultByScheme resolves the effective default handler for the
// scheme.
func (s *Service) ResolveDefaultByScheme(ctx context.Context, scheme string) (entities.Selection, error) {
	sc, err := values.NewScheme(scheme)
	if err != nil {
		return entities.Selection{}, &entities.ValidationError{Code: entities.CodeInvalidScheme, Reason: err.Error()}
	}

	binding, err := s.currentBinding(func() (string, error) {
		return s.registry.DefaultForScheme(ctx, sc)
	})
	if err != nil {
		return entities.Selection{}, err
	}

	candidates, err := s.candidatesForScheme(ctx, sc)
	if err != nil {
		return entities.Selection{}, err
	}
	return services.SelectDefault(sc.String(), binding, candidates)
}

// SetDefaultByType makes the application at appPath the default handler
// for the identifier. The application must declare capability for it,
// directly or via conformance; a binding to a non-capable application
// would silently break future opens, so the engine rejects it before any
// write. Success is only reported after a read-back confirms the registry
// applied the change; a write the registry silently ignored surfaces as
// ErrDeclined, never as success and never as ErrSystemFailure.
func (s *Service) SetDefaultByType(ctx context.Context, appPath, typeID string) error {
	path, err := normalizeAppPath(appPath)
	if err != nil {
		return err
	}
	t, err := values.NewTypeID(typeID)
	if err != nil {
		return &entities.ValidationError{Code: entities.CodeInvalidType, Reason: err.Error()}
	}

	decls, err := s.bundles.Declarations(ctx, path)
	if err != nil {
		return mapBundleError(path, err)
	}
	_, capable, err := services.MatchType(ctx, decls, t, s.types.ConformsTo)
	if err != nil {
		return &entities.SystemError{Op: "check capability of " + path, Err: err}
	}
	if !capable {
		return &entities.ValidationError{
			Code:   entities.CodeInvalidApplication,
			Reason: fmt.Sprintf("application %s declares no capability for type %s", path, t),
		}
	}

	if err := s.registry.SetDefaultForType(ctx, path, t); err != nil {
		return &entities.SystemError{Op: "set default for type " + t.String(), Err: err}
	}

	return s.verifyBinding(t.String(), path, func() (string, error) {
		return s.registry.DefaultForType(ctx, t)
	})
}

// SetDefaultByScheme makes the application at appPath the default handler
// for the scheme, under the same validation and read-back contract as
// SetDefaultByType.
func (s *Service) SetDefaultByScheme(ctx context.Context, appPath, scheme string) error {
	path, err := normalizeAppPath(appPath)
	if err != nil {
		return err
	}
	sc, err := values.NewScheme(scheme)
	if err != nil {
		return &entities.ValidationError{Code: entities.CodeInvalidScheme, Reason: err.Error()}
	}

	decls, err := s.bundles.SchemeDeclarations(ctx, path)
	if err != nil {
		return mapBundleError(path, err)
	}
	if _, capable := services.MatchScheme(decls, sc); !capable {
		return &entities.ValidationError{
			Code:   entities.CodeInvalidApplication,
			Reason: fmt.Sprintf("application %s declares no capability for scheme %s", path, sc),
		}
	}

	if err := s.registry.SetDefaultForScheme(ctx, path, sc); err != nil {
		return &entities.SystemError{Op: "set default for scheme " + sc.String(), Err: err}
	}

	return s.verifyBinding(sc.String(), path, func() (string, error) {
		return s.registry.DefaultForScheme(ctx, sc)
	})
}

// currentBinding reads the registry binding, folding NotFound into the
// empty path: no binding is an expected state, not an error.
func (s *Service) currentBinding(read func() (string, error)) (string, error) {
	binding, err := read()
	if errors.Is(err, entities.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &entities.SystemError{Op: "read default binding", Err: err}
	}
	return binding, nil
}

// verifyBinding re-reads the binding after a write and turns a silent
// decline into an observable error. The registry can accept a write and
// not apply it (platform policy, user refusal); success must never be
// reported unless the binding is independently confirmed.
func (s *Service) verifyBinding(target, wantPath string, read func() (string, error)) error {
	current, err := read()
	if errors.Is(err, entities.ErrNotFound) {
		return &entities.DeclinedError{Target: target, AppPath: wantPath}
	}
	if err != nil {
		return &entities.SystemError{Op: "verify default binding for " + target, Err: err}
	}
	if current != wantPath {
		return &entities.DeclinedError{Target: target, AppPath: wantPath, Current: current}
	}

	s.logger.Info("default handler updated", "target", target, "app", wantPath)
	return nil
}

func (s *Service) candidatesForType(ctx context.Context, t values.TypeID) ([]entities.Candidate, error) {
	apps, err := s.catalog.List(ctx)
	if err != nil {
		return nil, &entities.SystemError{Op: "list applications", Err: err}
	}
	candidates, err := services.CandidatesForType(ctx, apps, s.declarationSource(), t, s.types.ConformsTo)
	if err != nil {
		return nil, &entities.SystemError{Op: "enumerate handlers for type " + t.String(), Err: err}
	}
	return candidates, nil
}

func (s *Service) candidatesForScheme(ctx context.Context, sc values.Scheme) ([]entities.Candidate, error) {
	apps, err := s.catalog.List(ctx)
	if err != nil {
		return nil, &entities.SystemError{Op: "list applications", Err: err}
	}
	candidates, err := services.CandidatesForScheme(ctx, apps, s.schemeSource(), sc)
	if err != nil {
		return nil, &entities.SystemError{Op: "enumerate handlers for scheme " + sc.String(), Err: err}
	}
	return candidates, nil
}

// declarationSource adapts the cached reader for enumeration. A bundle the
// reader cannot parse is skipped, not fatal: one broken application must
// not hide every other handler.
func (s *Service) declarationSource() services.DeclarationSource {
	return func(ctx context.Context, path string) ([]entities.Declaration, error) {
		decls, err := s.bundles.Declarations(ctx, path)
		if err != nil {
			s.logger.Debug("skipping unreadable bundle", "path", path, "error", err)
			return nil, nil
		}
		return decls, nil
	}
}

func (s *Service) schemeSource() services.SchemeSource {
	return func(ctx context.Context, path string) ([]entities.SchemeDeclaration, error) {
		decls, err := s.bundles.SchemeDeclarations(ctx, path)
		if err != nil {
			s.logger.Debug("skipping unreadable bundle", "path", path, "error", err)
			return nil, nil
		}
		return decls, nil
	}
}

func applyListOptions(candidates []entities.Candidate, opts []ListOption) []entities.Descriptor {
	var cfg listConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.openableOnly {
		candidates = services.FilterOpenable(candidates)
	}

	out := make([]entities.Descriptor, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.App)
	}
	return out
}

func normalizeAppPath(appPath string) (string, error) {
	path := strings.TrimSpace(appPath)
	if path == "" {
		return "", &entities.ValidationError{
			Code:   entities.CodeInvalidApplication,
			Reason: "application path cannot be empty",
		}
	}
	return path, nil
}

func mapBundleError(path string, err error) error {
	if errors.Is(err, entities.ErrInvalidApplication) || errors.Is(err, entities.ErrNotFound) {
		return &entities.ValidationError{
			Code:   entities.CodeInvalidApplication,
			Reason: fmt.Sprintf("%s is not a resolvable application bundle", path),
		}
	}
	return &entities.SystemError{Op: "read bundle " + path, Err: err}
}
