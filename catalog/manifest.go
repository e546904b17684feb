// Package catalog provides the file-backed application store: it scans
// configured roots for application bundles, reads each bundle's handler
// manifest, and exposes the result through the engine's AppCatalog and
// BundleReader ports.
package catalog

import (
	"fmt"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

// Manifest is the on-disk capability declaration of one application
// bundle. It mirrors the bundle metadata the platform's own reader would
// produce: identity, document types, and URL types.
type Manifest struct {
	Name          string         `json:"name" yaml:"name" jsonschema:"required,minLength=1"`
	BundleID      string         `json:"bundle_id" yaml:"bundle_id" jsonschema:"required,minLength=1"`
	Version       string         `json:"version,omitempty" yaml:"version,omitempty"`
	DocumentTypes []DocumentType `json:"document_types,omitempty" yaml:"document_types,omitempty"`
	URLTypes      []URLType      `json:"url_types,omitempty" yaml:"url_types,omitempty"`
}

// DocumentType declares one content kind the application handles.
// Rank is optional; an absent rank is preserved as such, distinct from an
// explicit "None".
type DocumentType struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Role       string   `json:"role,omitempty" yaml:"role,omitempty" jsonschema:"enum=Editor,enum=Viewer,enum=Shell,enum=None"`
	Rank       string   `json:"rank,omitempty" yaml:"rank,omitempty" jsonschema:"enum=Owner,enum=Default,enum=Alternate,enum=None"`
	Types      []string `json:"types,omitempty" yaml:"types,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Package    bool     `json:"package,omitempty" yaml:"package,omitempty"`
}

// URLType declares one group of URL schemes the application handles.
type URLType struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Rank    string   `json:"rank,omitempty" yaml:"rank,omitempty" jsonschema:"enum=Owner,enum=Default,enum=Alternate,enum=None"`
	Schemes []string `json:"schemes" yaml:"schemes" jsonschema:"required"`
}

// descriptor maps the manifest identity onto the engine's descriptor.
func (m *Manifest) descriptor(path string) entities.Descriptor {
	return entities.Descriptor{
		Name:     m.Name,
		Path:     path,
		BundleID: m.BundleID,
		Version:  m.Version,
	}
}

// declarations converts the manifest's document types, preserving
// declaration order.
func (m *Manifest) declarations() ([]entities.Declaration, error) {
	out := make([]entities.Declaration, 0, len(m.DocumentTypes))
	for i, dt := range m.DocumentTypes {
		role, err := values.ParseRole(dt.Role)
		if err != nil {
			return nil, fmt.Errorf("document type %d: %w", i, err)
		}
		rank, err := values.ParseRank(dt.Rank)
		if err != nil {
			return nil, fmt.Errorf("document type %d: %w", i, err)
		}

		decl := entities.Declaration{
			TypeName:  dt.Name,
			Role:      role,
			Rank:      rank,
			IsPackage: dt.Package,
		}
		for _, raw := range dt.Types {
			t, err := values.NewTypeID(raw)
			if err != nil {
				return nil, fmt.Errorf("document type %d: %w", i, err)
			}
			decl.Types = append(decl.Types, t)
		}
		for _, raw := range dt.Extensions {
			e, err := values.NewExtension(raw)
			if err != nil {
				return nil, fmt.Errorf("document type %d: %w", i, err)
			}
			decl.Extensions = append(decl.Extensions, e)
		}
		out = append(out, decl)
	}
	return out, nil
}

// schemeDeclarations converts the manifest's URL types, preserving
// declaration order.
func (m *Manifest) schemeDeclarations() ([]entities.SchemeDeclaration, error) {
	out := make([]entities.SchemeDeclaration, 0, len(m.URLTypes))
	for i, ut := range m.URLTypes {
		rank, err := values.ParseRank(ut.Rank)
		if err != nil {
			return nil, fmt.Errorf("url type %d: %w", i, err)
		}

		decl := entities.SchemeDeclaration{Name: ut.Name, Rank: rank}
		for _, raw := range ut.Schemes {
			s, err := values.NewScheme(raw)
			if err != nil {
				return nil, fmt.Errorf("url type %d: %w", i, err)
			}
			decl.Schemes = append(decl.Schemes, s)
		}
		out = append(out, decl)
	}
	return out, nil
}
