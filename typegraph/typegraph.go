// Package typegraph provides a file-backed type-identifier service: a
// YAML-declared conformance graph with per-type extension maps. It exists
// so the engine can run against a declarative type database anywhere the
// platform's own type machinery is unavailable, and so tests have a real
// TypeService to exercise.
package typegraph

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/typebind-dev/typebind/handler/values"
)

// Document is the on-disk shape of a type database.
type Document struct {
	Types []TypeDef `yaml:"types"`
}

// TypeDef declares one type identifier, its direct parents, and the file
// extensions that resolve to it.
type TypeDef struct {
	ID          string   `yaml:"id"`
	ConformsTo  []string `yaml:"conforms_to,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type node struct {
	id         values.TypeID
	parents    []string // folded parent ids, direct edges only
	extensions []values.Extension
}

// Graph is an immutable in-memory type hierarchy. It implements
// ports.TypeService; all lookups are case-insensitive.
type Graph struct {
	nodes       map[string]*node
	byExtension map[string][]values.TypeID
}

// New builds a graph from a parsed document. Identifiers and extensions
// are validated; a parent may be declared before or after its children,
// and may be entirely undeclared (a leaf reference into a larger external
// hierarchy).
func New(doc Document) (*Graph, error) {
	g := &Graph{
		nodes:       make(map[string]*node, len(doc.Types)),
		byExtension: make(map[string][]values.TypeID),
	}

	for _, def := range doc.Types {
		id, err := values.NewTypeID(def.ID)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", def.ID, err)
		}
		if _, exists := g.nodes[id.Fold()]; exists {
			return nil, fmt.Errorf("duplicate type %q", def.ID)
		}

		n := &node{id: id}
		for _, parent := range def.ConformsTo {
			p, err := values.NewTypeID(parent)
			if err != nil {
				return nil, fmt.Errorf("type %q: parent: %w", def.ID, err)
			}
			n.parents = append(n.parents, p.Fold())
		}
		for _, ext := range def.Extensions {
			e, err := values.NewExtension(ext)
			if err != nil {
				return nil, fmt.Errorf("type %q: extension: %w", def.ID, err)
			}
			n.extensions = append(n.extensions, e)
			g.byExtension[e.String()] = append(g.byExtension[e.String()], id)
		}

		g.nodes[id.Fold()] = n
	}

	return g, nil
}

// Load parses a YAML type database.
func Load(data []byte) (*Graph, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse type database: %w", err)
	}
	return New(doc)
}

// LoadFile reads and parses a YAML type database from disk.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type database: %w", err)
	}
	return Load(data)
}

// TypesForExtension implements ports.TypeService.
func (g *Graph) TypesForExtension(ctx context.Context, ext values.Extension) ([]values.TypeID, error) {
	types := g.byExtension[ext.String()]
	out := make([]values.TypeID, len(types))
	copy(out, types)
	return out, nil
}

// ExtensionsForType implements ports.TypeService.
func (g *Graph) ExtensionsForType(ctx context.Context, t values.TypeID) ([]values.Extension, error) {
	n, ok := g.nodes[t.Fold()]
	if !ok {
		return nil, nil
	}
	out := make([]values.Extension, len(n.extensions))
	copy(out, n.extensions)
	return out, nil
}

// ConformsTo implements ports.TypeService with a cycle-safe breadth-first
// walk over the parent edges. Every identifier conforms to itself, known
// to the graph or not.
func (g *Graph) ConformsTo(ctx context.Context, child, parent values.TypeID) (bool, error) {
	if child.Equals(parent) {
		return true, nil
	}

	target := parent.Fold()
	visited := make(map[string]bool)
	queue := []string{child.Fold()}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		n, ok := g.nodes[cur]
		if !ok {
			continue
		}
		for _, p := range n.parents {
			if p == target {
				return true, nil
			}
			queue = append(queue, p)
		}
	}

	return false, nil
}

// Contains reports whether the identifier is declared in the database.
func (g *Graph) Contains(t values.TypeID) bool {
	_, ok := g.nodes[t.Fold()]
	return ok
}

// Len returns the number of declared types.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IDs returns the declared identifiers in an unspecified order.
func (g *Graph) IDs() []values.TypeID {
	out := make([]values.TypeID, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.id)
	}
	return out
}

// String summarizes the graph for logs.
func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "typegraph(%d types, %d extensions)", len(g.nodes), len(g.byExtension))
	return sb.String()
}
