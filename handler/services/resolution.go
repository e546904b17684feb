// Package services implements the pure resolution algorithm: joining
// application declarations against a queried type or scheme, deduplicating
// the resulting candidates, ordering them deterministically, and selecting
// a single default.
package services

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

// ConformsFunc answers whether child is-a parent in the type hierarchy.
type ConformsFunc func(ctx context.Context, child, parent values.TypeID) (bool, error)

// DeclarationSource fetches the declarations of one application.
type DeclarationSource func(ctx context.Context, path string) ([]entities.Declaration, error)

// SchemeSource fetches the URL-scheme declarations of one application.
type SchemeSource func(ctx context.Context, path string) ([]entities.SchemeDeclaration, error)

// MatchType finds the declaration that covers the target identifier, if any.
// A declaration covers the target when it lists it directly or when the
// target conforms to a listed identifier: an app declaring a supertype is a
// candidate for subtype queries. Among multiple matching declarations the
// highest rank wins, first-declared breaking ties.
func MatchType(ctx context.Context, decls []entities.Declaration, target values.TypeID, conforms ConformsFunc) (entities.Declaration, bool, error) {
	var best entities.Declaration
	found := false

	for _, decl := range decls {
		matched := decl.DeclaresType(target)
		if !matched {
			for _, declared := range decl.Types {
				ok, err := conforms(ctx, target, declared)
				if err != nil {
					return entities.Declaration{}, false, err
				}
				if ok {
					matched = true
					break
				}
			}
		}
		if !matched {
			continue
		}
		if !found || decl.Rank.Weight() > best.Rank.Weight() {
			best = decl
			found = true
		}
	}

	return best, found, nil
}

// MatchScheme finds the scheme declaration covering the target, if any.
// Schemes have no hierarchy; matching is exact. Rank ties keep the first
// declaration.
func MatchScheme(decls []entities.SchemeDeclaration, target values.Scheme) (entities.SchemeDeclaration, bool) {
	var best entities.SchemeDeclaration
	found := false

	for _, decl := range decls {
		if !decl.DeclaresScheme(target) {
			continue
		}
		if !found || decl.Rank.Weight() > best.Rank.Weight() {
			best = decl
			found = true
		}
	}

	return best, found
}

// CandidatesForType joins every installed application against the target
// identifier. The result is deduplicated by path (List already yields one
// descriptor per path) and ordered per Order.
func CandidatesForType(ctx context.Context, apps []entities.Descriptor, source DeclarationSource, target values.TypeID, conforms ConformsFunc) ([]entities.Candidate, error) {
	seen := make(map[string]bool, len(apps))
	var candidates []entities.Candidate

	for _, app := range apps {
		if seen[app.Path] {
			continue
		}
		seen[app.Path] = true

		decls, err := source(ctx, app.Path)
		if err != nil {
			return nil, err
		}
		decl, ok, err := MatchType(ctx, decls, target, conforms)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		candidates = append(candidates, entities.Candidate{
			App:  app,
			Role: decl.Role,
			Rank: decl.Rank,
		})
	}

	Order(candidates)
	return candidates, nil
}

// CandidatesForScheme joins every installed application against the target
// scheme, deduplicated by path and ordered per Order.
func CandidatesForScheme(ctx context.Context, apps []entities.Descriptor, source SchemeSource, target values.Scheme) ([]entities.Candidate, error) {
	seen := make(map[string]bool, len(apps))
	var candidates []entities.Candidate

	for _, app := range apps {
		if seen[app.Path] {
			continue
		}
		seen[app.Path] = true

		decls, err := source(ctx, app.Path)
		if err != nil {
			return nil, err
		}
		decl, ok := MatchScheme(decls, target)
		if !ok {
			continue
		}
		candidates = append(candidates, entities.Candidate{
			App: app,
			// Scheme handlers open URLs for the user.
			Role: values.RoleViewer,
			Rank: decl.Rank,
		})
	}

	Order(candidates)
	return candidates, nil
}

// Order sorts candidates for deterministic output: rank weight descending,
// then application name case-insensitively, then path.
func Order(candidates []entities.Candidate) {
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rank.Weight() != b.Rank.Weight() {
			return a.Rank.Weight() > b.Rank.Weight()
		}
		if c := coll.CompareString(a.App.Name, b.App.Name); c != 0 {
			return c < 0
		}
		return a.App.Path < b.App.Path
	})
}

// FilterOpenable returns the candidates whose role actually opens the
// content, dropping Shell and None. The input is left untouched.
func FilterOpenable(candidates []entities.Candidate) []entities.Candidate {
	out := make([]entities.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Role.Openable() {
			out = append(out, c)
		}
	}
	return out
}

// SelectDefault resolves the effective default from the explicit binding
// and the ordered candidate list.
//
// bindingPath is the registry's current binding, empty when the registry
// has none. With a binding present the bound application must still be a
// candidate; a stale binding to an uninstalled or no-longer-capable app is
// a NotFound, never a fabricated result. Without a binding the top-ranked
// candidate becomes the inferred default.
func SelectDefault(target string, bindingPath string, candidates []entities.Candidate) (entities.Selection, error) {
	if bindingPath != "" {
		for _, c := range candidates {
			if c.App.Path == bindingPath {
				return entities.Selection{App: c.App, Explicit: true}, nil
			}
		}
		return entities.Selection{}, &entities.NotFoundError{Kind: "binding", Target: target + " (bound application " + bindingPath + " is not installed or not capable)"}
	}

	if len(candidates) == 0 {
		return entities.Selection{}, &entities.NotFoundError{Kind: "handler", Target: target}
	}
	return entities.Selection{App: candidates[0].App, Explicit: false}, nil
}
