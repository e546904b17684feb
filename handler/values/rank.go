package values

import "fmt"

// Rank is the precedence an application declares for a content kind.
// The zero value NoRank means the declaration specified no rank at all,
// which is distinct from an explicit RankNone and sorts below it.
type Rank int

const (
	// NoRank means the source declaration carried no rank field.
	NoRank Rank = iota
	RankNone
	RankAlternate
	RankDefault
	RankOwner
)

// ParseRank parses a declared rank token. The empty string yields NoRank.
func ParseRank(s string) (Rank, error) {
	switch s {
	case "":
		return NoRank, nil
	case "Owner":
		return RankOwner, nil
	case "Default":
		return RankDefault, nil
	case "Alternate":
		return RankAlternate, nil
	case "None":
		return RankNone, nil
	}
	return NoRank, fmt.Errorf("unknown handler rank %q", s)
}

// IsSpecified reports whether the declaration carried an explicit rank.
func (r Rank) IsSpecified() bool {
	return r != NoRank
}

// Weight returns the ordering weight: Owner > Default > Alternate > None > unspecified.
// Weights only order and select candidates; an unspecified rank never
// excludes a candidate, it just sorts last.
func (r Rank) Weight() int {
	return int(r)
}

// String returns the declared token, or "" for NoRank.
func (r Rank) String() string {
	switch r {
	case RankOwner:
		return "Owner"
	case RankDefault:
		return "Default"
	case RankAlternate:
		return "Alternate"
	case RankNone:
		return "None"
	}
	return ""
}

// Role is the relationship an application declares to a content kind.
type Role int

const (
	RoleNone Role = iota
	RoleShell
	RoleViewer
	RoleEditor
)

// ParseRole parses a declared role token. The empty string yields RoleNone.
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "None":
		return RoleNone, nil
	case "Shell":
		return RoleShell, nil
	case "Viewer":
		return RoleViewer, nil
	case "Editor":
		return RoleEditor, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// Openable reports whether the role represents an app that opens the
// content for the user, as opposed to a shell or passive registration.
func (r Role) Openable() bool {
	return r == RoleEditor || r == RoleViewer
}

func (r Role) String() string {
	switch r {
	case RoleShell:
		return "Shell"
	case RoleViewer:
		return "Viewer"
	case RoleEditor:
		return "Editor"
	}
	return "None"
}
