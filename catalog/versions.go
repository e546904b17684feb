package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/typebind-dev/typebind/handler/entities"
)

// Duplicates groups installed applications that share a bundle identifier
// but live at different paths, keyed by bundle ID. Descriptors without a
// bundle ID are ignored; the path remains the identity key everywhere
// else, this is diagnostics only.
func Duplicates(apps []entities.Descriptor) map[string][]entities.Descriptor {
	byBundle := make(map[string][]entities.Descriptor)
	for _, app := range apps {
		if app.BundleID == "" {
			continue
		}
		byBundle[app.BundleID] = append(byBundle[app.BundleID], app)
	}

	out := make(map[string][]entities.Descriptor)
	for id, group := range byBundle {
		if len(group) > 1 {
			sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
			out[id] = group
		}
	}
	return out
}

// NewestByBundleID collapses duplicate installs to the copy with the
// highest version, comparing versions as semver. Copies with unparseable
// versions sort below any parseable one; full ties keep the
// lexicographically first path.
func NewestByBundleID(apps []entities.Descriptor) []entities.Descriptor {
	best := make(map[string]entities.Descriptor)
	var order []string

	for _, app := range apps {
		key := app.BundleID
		if key == "" {
			// No bundle ID means nothing to collapse on.
			key = app.Path
		}
		cur, seen := best[key]
		if !seen {
			best[key] = app
			order = append(order, key)
			continue
		}
		if newerThan(app, cur) {
			best[key] = app
		}
	}

	out := make([]entities.Descriptor, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func newerThan(a, b entities.Descriptor) bool {
	av, aerr := semver.NewVersion(a.Version)
	bv, berr := semver.NewVersion(b.Version)
	switch {
	case aerr != nil && berr != nil:
		// Both unparseable: keep the incumbent.
		return false
	case aerr != nil:
		return false
	case berr != nil:
		return true
	}
	if av.Equal(bv) {
		return a.Path < b.Path
	}
	return av.GreaterThan(bv)
}
