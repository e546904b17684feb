package values

import (
	"fmt"
	"strings"
)

// Extension represents a normalized file extension without the leading dot.
// Extensions are case-insensitive; the constructor lowercases them so two
// Extension values are comparable with ==.
type Extension struct {
	value string
}

// NewExtension creates an Extension with strict validation.
// A single leading dot is stripped. The remainder must:
// - Be non-empty
// - Contain no path separators, dots, or whitespace
func NewExtension(ext string) (Extension, error) {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return Extension{}, fmt.Errorf("extension cannot be empty")
	}

	if strings.ContainsAny(ext, `/\.`) {
		return Extension{}, fmt.Errorf("invalid extension %q: must be a bare token without separators", ext)
	}
	if strings.ContainsAny(ext, " \t\r\n") {
		return Extension{}, fmt.Errorf("invalid extension %q: contains whitespace", ext)
	}

	return Extension{value: strings.ToLower(ext)}, nil
}

// MustNewExtension creates an Extension or panics.
func MustNewExtension(ext string) Extension {
	e, err := NewExtension(ext)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the normalized extension without the leading dot.
func (e Extension) String() string {
	return e.value
}

// IsEmpty returns true if this is the zero value.
func (e Extension) IsEmpty() bool {
	return e.value == ""
}
