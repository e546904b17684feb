package values

import (
	"fmt"
	"strings"
)

// Scheme represents a normalized URL scheme (e.g. "http", "mailto").
// Schemes are case-insensitive and flat: unlike type identifiers they have
// no conformance hierarchy.
type Scheme struct {
	value string
}

// NewScheme creates a Scheme with strict validation.
// Per RFC 3986 a scheme starts with a letter followed by letters, digits,
// "+", "-", or ".". A trailing ":" or "://" is stripped for convenience.
func NewScheme(scheme string) (Scheme, error) {
	scheme = strings.TrimSpace(scheme)
	scheme = strings.TrimSuffix(scheme, "://")
	scheme = strings.TrimSuffix(scheme, ":")
	if scheme == "" {
		return Scheme{}, fmt.Errorf("scheme cannot be empty")
	}

	for i, r := range scheme {
		if i == 0 {
			if !isAlpha(r) {
				return Scheme{}, fmt.Errorf("invalid scheme %q: must start with a letter", scheme)
			}
			continue
		}
		if !isAlpha(r) && !isDigit(r) && r != '+' && r != '-' && r != '.' {
			return Scheme{}, fmt.Errorf("invalid scheme %q: allowed characters are letters, digits, '+', '-', '.'", scheme)
		}
	}

	return Scheme{value: strings.ToLower(scheme)}, nil
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// MustNewScheme creates a Scheme or panics.
func MustNewScheme(scheme string) Scheme {
	s, err := NewScheme(scheme)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the normalized lowercase scheme.
func (s Scheme) String() string {
	return s.value
}

// IsEmpty returns true if this is the zero value.
func (s Scheme) IsEmpty() bool {
	return s.value == ""
}
