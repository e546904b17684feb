package values

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeID represents a validated hierarchical type identifier
// (e.g. "public.plain-text"). Identifiers are opaque to the engine;
// conformance relationships between them are owned by the type service.
type TypeID struct {
	value string
}

// NewTypeID creates a TypeID with strict validation.
// A valid identifier must:
// - Be non-empty after trimming
// - Contain no whitespace or control characters
func NewTypeID(id string) (TypeID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return TypeID{}, fmt.Errorf("type identifier cannot be empty")
	}

	for _, r := range id {
		if unicode.IsSpace(r) {
			return TypeID{}, fmt.Errorf("invalid type identifier %q: contains whitespace", id)
		}
		if unicode.IsControl(r) {
			return TypeID{}, fmt.Errorf("invalid type identifier %q: contains control characters", id)
		}
	}

	return TypeID{value: id}, nil
}

// MustNewTypeID creates a TypeID or panics.
func MustNewTypeID(id string) TypeID {
	t, err := NewTypeID(id)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the identifier token.
func (t TypeID) String() string {
	return t.value
}

// IsEmpty returns true if this is the zero value.
func (t TypeID) IsEmpty() bool {
	return t.value == ""
}

// Equals compares two identifiers case-insensitively.
// The type hierarchy treats "Public.Plain-Text" and "public.plain-text"
// as the same identifier.
func (t TypeID) Equals(other TypeID) bool {
	return strings.EqualFold(t.value, other.value)
}

// Fold returns the canonical lowercase form, used as a cache and map key.
func (t TypeID) Fold() string {
	return strings.ToLower(t.value)
}
