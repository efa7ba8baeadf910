package vault

import (
	"time"
)

// Document is the engine's read-only view of a single note. IDs are
// vault-relative slash paths and double as link targets.
type Document struct {
	ID          string
	Path        string
	Title       string
	Tags        []string
	Frontmatter map[string]any
	// OutgoingLinks and IncomingLinks hold resolved document IDs, not raw
	// link text.
	OutgoingLinks []string
	IncomingLinks []string
	ModifiedAt    time.Time
}

// Store supplies raw note text on demand. TASK queries are the only engine
// path that needs it; everything else runs off extracted metadata.
type Store interface {
	ReadText(id string) ([]byte, error)
}
