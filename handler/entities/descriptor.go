package entities

// Descriptor identifies one installed application.
// Path is the identity key: two descriptors with equal paths are the same
// application. Name, BundleID and Version are display and lookup metadata.
type Descriptor struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	BundleID string `json:"bundle_id" yaml:"bundle_id"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Same reports whether two descriptors identify the same application.
func (d Descriptor) Same(other Descriptor) bool {
	return d.Path == other.Path
}

// IsEmpty returns true if this is the zero value.
func (d Descriptor) IsEmpty() bool {
	return d.Path == ""
}
