package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

// exactConforms only matches identical identifiers.
func exactConforms(ctx context.Context, child, parent values.TypeID) (bool, error) {
	return child.Equals(parent), nil
}

// parentEdges builds a ConformsFunc from direct child->parents edges.
func parentEdges(edges map[string][]string) ConformsFunc {
	return func(ctx context.Context, child, parent values.TypeID) (bool, error) {
		if child.Equals(parent) {
			return true, nil
		}
		queue := []string{child.Fold()}
		visited := map[string]bool{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			for _, p := range edges[cur] {
				if p == parent.Fold() {
					return true, nil
				}
				queue = append(queue, p)
			}
		}
		return false, nil
	}
}

func app(name, path string) entities.Descriptor {
	return entities.Descriptor{Name: name, Path: path, BundleID: "com.example." + name}
}

func declFor(rank values.Rank, role values.Role, types ...string) entities.Declaration {
	d := entities.Declaration{Rank: rank, Role: role}
	for _, t := range types {
		d.Types = append(d.Types, values.MustNewTypeID(t))
	}
	return d
}

func staticSource(decls map[string][]entities.Declaration) DeclarationSource {
	return func(ctx context.Context, path string) ([]entities.Declaration, error) {
		return decls[path], nil
	}
}

func Test_MatchType(t *testing.T) {
	ctx := context.Background()
	plain := values.MustNewTypeID("public.plain-text")

	t.Run("direct match", func(t *testing.T) {
		decls := []entities.Declaration{declFor(values.RankDefault, values.RoleEditor, "public.plain-text")}
		got, ok, err := MatchType(ctx, decls, plain, exactConforms)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values.RankDefault, got.Rank)
	})

	t.Run("no match", func(t *testing.T) {
		decls := []entities.Declaration{declFor(values.RankOwner, values.RoleEditor, "public.html")}
		_, ok, err := MatchType(ctx, decls, plain, exactConforms)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("conformance match via supertype", func(t *testing.T) {
		// App declares public.text; query public.plain-text which is-a public.text.
		conforms := parentEdges(map[string][]string{"public.plain-text": {"public.text"}})
		decls := []entities.Declaration{declFor(values.RankAlternate, values.RoleViewer, "public.text")}
		got, ok, err := MatchType(ctx, decls, plain, conforms)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values.RankAlternate, got.Rank)
	})

	t.Run("highest rank wins across declarations", func(t *testing.T) {
		decls := []entities.Declaration{
			declFor(values.RankAlternate, values.RoleViewer, "public.plain-text"),
			declFor(values.RankOwner, values.RoleEditor, "public.plain-text"),
		}
		got, ok, err := MatchType(ctx, decls, plain, exactConforms)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values.RankOwner, got.Rank)
		assert.Equal(t, values.RoleEditor, got.Role)
	})

	t.Run("rank tie keeps first declaration", func(t *testing.T) {
		decls := []entities.Declaration{
			declFor(values.RankDefault, values.RoleViewer, "public.plain-text"),
			declFor(values.RankDefault, values.RoleEditor, "public.plain-text"),
		}
		got, ok, err := MatchType(ctx, decls, plain, exactConforms)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values.RoleViewer, got.Role)
	})

	t.Run("conformance error propagates", func(t *testing.T) {
		boom := errors.New("hierarchy unavailable")
		failing := func(ctx context.Context, child, parent values.TypeID) (bool, error) {
			return false, boom
		}
		decls := []entities.Declaration{declFor(values.RankDefault, values.RoleEditor, "public.html")}
		_, _, err := MatchType(ctx, decls, plain, failing)
		assert.ErrorIs(t, err, boom)
	})
}

func Test_MatchScheme(t *testing.T) {
	http := values.MustNewScheme("http")

	t.Run("exact match only", func(t *testing.T) {
		decls := []entities.SchemeDeclaration{
			{Name: "Web", Schemes: []values.Scheme{values.MustNewScheme("https")}},
		}
		_, ok := MatchScheme(decls, http)
		assert.False(t, ok)

		decls[0].Schemes = append(decls[0].Schemes, http)
		_, ok = MatchScheme(decls, http)
		assert.True(t, ok)
	})

	t.Run("highest rank wins", func(t *testing.T) {
		decls := []entities.SchemeDeclaration{
			{Name: "a", Rank: values.NoRank, Schemes: []values.Scheme{http}},
			{Name: "b", Rank: values.RankOwner, Schemes: []values.Scheme{http}},
		}
		got, ok := MatchScheme(decls, http)
		require.True(t, ok)
		assert.Equal(t, "b", got.Name)
	})
}

// The ordering contract: rank weight descending, then name
// case-insensitively, then path. Re-running on the same input yields the
// same sequence.
func Test_Order(t *testing.T) {
	candidates := []entities.Candidate{
		{App: app("zed", "/Applications/Zed.app"), Rank: values.RankAlternate},
		{App: app("alpha", "/Applications/Alpha.app"), Rank: values.NoRank},
		{App: app("Beta", "/Applications/Beta.app"), Rank: values.RankAlternate},
		{App: app("gamma", "/Applications/Gamma.app"), Rank: values.RankOwner},
		{App: app("beta", "/Applications/beta-copy.app"), Rank: values.RankAlternate},
	}

	Order(candidates)

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.App.Path
	}
	assert.Equal(t, []string{
		"/Applications/Gamma.app",     // Owner
		"/Applications/Beta.app",      // Alternate, "Beta" == "beta", path break
		"/Applications/beta-copy.app", // Alternate
		"/Applications/Zed.app",       // Alternate
		"/Applications/Alpha.app",     // unspecified rank sorts last
	}, paths)

	again := make([]entities.Candidate, len(candidates))
	copy(again, candidates)
	Order(again)
	assert.Equal(t, candidates, again)
}

func Test_CandidatesForType(t *testing.T) {
	ctx := context.Background()
	plain := values.MustNewTypeID("public.plain-text")

	textEdit := app("TextEdit", "/Applications/TextEdit.app")
	sublime := app("Sublime", "/Applications/Sublime.app")
	preview := app("Preview", "/Applications/Preview.app")

	decls := map[string][]entities.Declaration{
		textEdit.Path: {declFor(values.RankDefault, values.RoleEditor, "public.plain-text")},
		sublime.Path:  {declFor(values.RankAlternate, values.RoleEditor, "public.plain-text")},
		preview.Path:  {declFor(values.RankOwner, values.RoleViewer, "public.pdf")},
	}

	t.Run("only capable apps become candidates", func(t *testing.T) {
		got, err := CandidatesForType(ctx, []entities.Descriptor{textEdit, sublime, preview}, staticSource(decls), plain, exactConforms)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, textEdit.Path, got[0].App.Path)
		assert.Equal(t, sublime.Path, got[1].App.Path)
	})

	t.Run("duplicate paths collapse", func(t *testing.T) {
		got, err := CandidatesForType(ctx, []entities.Descriptor{textEdit, textEdit}, staticSource(decls), plain, exactConforms)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	// Three apps declare the type with ranks Default, Alternate,
	// Alternate: the Default app comes first, the two Alternates follow
	// ordered by name.
	t.Run("rank scenario", func(t *testing.T) {
		anvil := app("Anvil", "/Applications/Anvil.app")
		zephyr := app("Zephyr", "/Applications/Zephyr.app")
		ds := map[string][]entities.Declaration{
			anvil.Path:    {declFor(values.RankAlternate, values.RoleEditor, "public.plain-text")},
			zephyr.Path:   {declFor(values.RankAlternate, values.RoleEditor, "public.plain-text")},
			textEdit.Path: {declFor(values.RankDefault, values.RoleEditor, "public.plain-text")},
		}
		got, err := CandidatesForType(ctx, []entities.Descriptor{zephyr, textEdit, anvil}, staticSource(ds), plain, exactConforms)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "TextEdit", got[0].App.Name)
		assert.Equal(t, "Anvil", got[1].App.Name)
		assert.Equal(t, "Zephyr", got[2].App.Name)
	})
}

func Test_FilterOpenable(t *testing.T) {
	candidates := []entities.Candidate{
		{App: app("editor", "/a"), Role: values.RoleEditor},
		{App: app("shell", "/b"), Role: values.RoleShell},
		{App: app("viewer", "/c"), Role: values.RoleViewer},
		{App: app("none", "/d"), Role: values.RoleNone},
	}

	got := FilterOpenable(candidates)
	require.Len(t, got, 2)
	assert.Equal(t, "/a", got[0].App.Path)
	assert.Equal(t, "/c", got[1].App.Path)

	// The input sequence is not mutated.
	require.Len(t, candidates, 4)
	assert.Equal(t, "/b", candidates[1].App.Path)
	assert.Equal(t, values.RoleShell, candidates[1].Role)
}

func Test_SelectDefault(t *testing.T) {
	textEdit := app("TextEdit", "/Applications/TextEdit.app")
	sublime := app("Sublime", "/Applications/Sublime.app")
	candidates := []entities.Candidate{
		{App: textEdit, Rank: values.RankDefault},
		{App: sublime, Rank: values.RankAlternate},
	}

	t.Run("explicit binding wins", func(t *testing.T) {
		sel, err := SelectDefault("public.plain-text", sublime.Path, candidates)
		require.NoError(t, err)
		assert.True(t, sel.Explicit)
		assert.Equal(t, sublime.Path, sel.App.Path)
	})

	t.Run("no binding infers top candidate", func(t *testing.T) {
		sel, err := SelectDefault("public.plain-text", "", candidates)
		require.NoError(t, err)
		assert.False(t, sel.Explicit)
		assert.Equal(t, textEdit.Path, sel.App.Path)
	})

	t.Run("stale binding is NotFound, not a fabricated result", func(t *testing.T) {
		_, err := SelectDefault("public.plain-text", "/Applications/Gone.app", candidates)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("no binding and no candidates is NotFound", func(t *testing.T) {
		_, err := SelectDefault("public.plain-text", "", nil)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}
