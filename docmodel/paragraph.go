// Package docmodel implements the versioned text buffer at the core of the
// server: a document holding one active paragraph, a monotonic version
// counter, and the operational-transform-style rebase rules that let an
// edit produced against a stale snapshot still apply against current state.
package docmodel

import "github.com/google/uuid"

// Paragraph is a unit of logical grouping within a Document. The current
// design gives a document exactly one active paragraph; the identifier
// exists so paragraphs have proper identity, but it plays no part in merge
// semantics or routing.
type Paragraph struct {
	ID   uuid.UUID
	Text string
}

func newParagraph(text string) *Paragraph {
	return &Paragraph{ID: uuid.New(), Text: text}
}
