package entities

import (
	"github.com/typebind-dev/typebind/handler/values"
)

// Declaration is one document-type capability an application declares:
// the content kinds it handles, in what role, and at what precedence.
// An application owns an ordered sequence of declarations; the order is the
// declaration order from the source metadata and is only meaningful as the
// rank tie-break.
type Declaration struct {
	TypeName   string
	Role       values.Role
	Rank       values.Rank
	Types      []values.TypeID
	Extensions []values.Extension
	IsPackage  bool
}

// DeclaresType reports whether the declaration lists the identifier directly.
func (d Declaration) DeclaresType(t values.TypeID) bool {
	for _, dt := range d.Types {
		if dt.Equals(t) {
			return true
		}
	}
	return false
}

// DeclaresExtension reports whether the declaration lists the extension.
func (d Declaration) DeclaresExtension(e values.Extension) bool {
	for _, de := range d.Extensions {
		if de == e {
			return true
		}
	}
	return false
}

// SchemeDeclaration is one URL-scheme capability an application declares.
// Schemes are declared separately from document types and usually carry no
// rank.
type SchemeDeclaration struct {
	Name    string
	Rank    values.Rank
	Schemes []values.Scheme
}

// DeclaresScheme reports whether the declaration lists the scheme.
func (d SchemeDeclaration) DeclaresScheme(s values.Scheme) bool {
	for _, ds := range d.Schemes {
		if ds == s {
			return true
		}
	}
	return false
}
