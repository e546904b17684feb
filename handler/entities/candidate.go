package entities

import (
	"github.com/typebind-dev/typebind/handler/values"
)

// Candidate is one application's claim on a queried type or scheme,
// derived per request by joining its declarations against the target.
// Candidates are never stored.
type Candidate struct {
	App  Descriptor
	Role values.Role
	Rank values.Rank
}

// Selection is the outcome of resolving a default handler.
// Explicit is true when the registry held a binding for the target;
// false when the default was inferred from the ranked candidate list.
type Selection struct {
	App      Descriptor
	Explicit bool
}
