package store

// Outcome reports what a mutation did. Every mutation is total: invalid ids
// and duplicates degrade to no-ops rather than errors, and the Outcome lets
// callers and tests distinguish the cases without inspecting side effects.
type Outcome int

const (
	// Applied means a new collection was committed, persisted, and published.
	Applied Outcome = iota
	// NoopNotFound means the target playlist or item id did not exist.
	NoopNotFound
	// NoopDuplicate means the candidate item matched an existing one by id
	// or by non-empty (kind, externalId).
	NoopDuplicate
	// NoopUnchanged means the candidate collection was structurally equal to
	// the current one, so nothing was written or published.
	NoopUnchanged
	// NoopInvalid means the input failed a basic validity check (e.g. an
	// empty playlist name).
	NoopInvalid
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NoopNotFound:
		return "noop_not_found"
	case NoopDuplicate:
		return "noop_duplicate"
	case NoopUnchanged:
		return "noop_unchanged"
	case NoopInvalid:
		return "noop_invalid"
	default:
		return ""
	}
}

// Changed reports whether the operation committed a new collection.
func (o Outcome) Changed() bool {
	return o == Applied
}
