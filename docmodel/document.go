package docmodel

import (
	"time"
)

type mutationKind int

const (
	mutationInsert mutationKind = iota
	mutationDelete
)

// mutation is one recorded entry in a Document's history, indexed by the
// version in effect after it was applied.
type mutation struct {
	kind   mutationKind
	pos    int
	text   string // set for mutationInsert
	length int    // set for mutationDelete
}

// Document is a versioned text buffer plus the metadata the session
// registry needs to report on it: who created it, who has ever opened it,
// and its chat log.
//
// A Document is mutated only by the dispatcher fiber (see package dispatch),
// so it carries no internal locking of its own.
type Document struct {
	Name          string
	Paragraphs    []*Paragraph
	Version       int
	Collaborators []string
	Chat          string
	LastEdit      time.Time
	Creator       string

	history []mutation
}

// New creates a Document with one empty paragraph and creator as its first
// collaborator.
func New(name, creator string) *Document {
	d := &Document{
		Name:       name,
		Paragraphs: []*Paragraph{newParagraph("")},
		Creator:    creator,
		LastEdit:   time.Now(),
	}
	d.AddCollaborator(creator)
	return d
}

func (d *Document) paragraph() *Paragraph {
	return d.Paragraphs[0]
}

// Text returns the document's current content.
func (d *Document) Text() string {
	return d.paragraph().Text
}

// HistoryLen reports the number of recorded mutations; per spec this always
// equals Version.
func (d *Document) HistoryLen() int {
	return len(d.history)
}

// AddCollaborator appends name to the collaborator list if it isn't already
// present. Order is first-open order; there is no removal.
func (d *Document) AddCollaborator(name string) {
	for _, c := range d.Collaborators {
		if c == name {
			return
		}
	}
	d.Collaborators = append(d.Collaborators, name)
}

// AppendChat appends line verbatim to the chat log. line must already end
// in "\n".
func (d *Document) AppendChat(line string) {
	d.Chat += line
}

func (d *Document) setLastEdit() {
	d.LastEdit = time.Now()
}

// GetDate formats LastEdit the way the client table expects.
func (d *Document) GetDate() string {
	return d.LastEdit.Format("3:04 PM , 01/02")
}

// rebase walks the mutations committed strictly after version and adjusts
// pos per spec: pushed right by an earlier insert at or before pos, pulled
// left by an earlier delete that lies entirely before pos, and snapped to
// the delete's start when the delete straddles pos.
func (d *Document) rebase(pos, version int) int {
	for i := version; i < len(d.history); i++ {
		m := d.history[i]
		switch m.kind {
		case mutationInsert:
			if m.pos <= pos {
				pos += len(m.text)
			}
		case mutationDelete:
			if m.pos+m.length <= pos {
				pos -= m.length
			} else if m.pos >= pos {
				// no change
			} else {
				pos = m.pos
			}
		}
	}
	return pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Insert rebases pos against history committed since version, splices text
// into the current content at the rebased position, and returns the
// position it actually landed at along with the resulting version.
func (d *Document) Insert(pos int, text string, version int) (rebasedPos, newVersion int) {
	p := d.paragraph()
	pos = d.rebase(pos, version)
	pos = clamp(pos, 0, len(p.Text))
	p.Text = p.Text[:pos] + text + p.Text[pos:]
	d.history = append(d.history, mutation{kind: mutationInsert, pos: pos, text: text})
	d.Version++
	d.setLastEdit()
	return pos, d.Version
}

// Delete rebases pos against history committed since version, clamps length
// so the range stays within the current content, and splices the range out.
// A rebase that collapses length to zero still records a history entry and
// bumps the version, so clients observe the version tick.
func (d *Document) Delete(pos, length, version int) (rebasedPos, rebasedLength, newVersion int) {
	p := d.paragraph()
	pos = d.rebase(pos, version)
	pos = clamp(pos, 0, len(p.Text))
	if length < 0 {
		length = 0
	}
	if pos+length > len(p.Text) {
		length = len(p.Text) - pos
	}
	if length > 0 {
		p.Text = p.Text[:pos] + p.Text[pos+length:]
	}
	d.history = append(d.history, mutation{kind: mutationDelete, pos: pos, length: length})
	d.Version++
	d.setLastEdit()
	return pos, length, d.Version
}
