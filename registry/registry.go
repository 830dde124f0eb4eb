// Package registry tracks the process-wide state a single server instance
// needs beyond any one document: who's online, what color each user has,
// which connection belongs to which user, which writers are currently
// reachable, and the set of documents that have ever been created.
//
// Every mutation, and every iteration over the writer set, happens under
// one mutex, mirroring the single-lock-over-shared-state discipline the
// teacher's hub uses for its client set.
package registry

import (
	"strconv"
	"strings"
	"sync"

	"github.com/deepakn94/CollabTeX/docmodel"
	"github.com/deepakn94/CollabTeX/wire"
)

// Writer is anything the dispatcher can push a response line to. The
// concrete implementation (package netio) wraps a net.Conn; Registry only
// depends on this interface so it never needs to import netio.
type Writer interface {
	WriteLine(line string) error
}

// Registry holds the process-wide session and document state.
type Registry struct {
	mu sync.Mutex

	palette []Color

	onlineUsers map[string]bool
	userColor   map[string]Color
	socketUser  map[uint64]string
	writers     map[uint64]Writer
	nextConnID  uint64

	documents  []*docmodel.Document
	docsByName map[string]*docmodel.Document
}

// New creates an empty Registry. A nil or empty palette falls back to
// DefaultPalette.
func New(palette []Color) *Registry {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Registry{
		palette:     palette,
		onlineUsers: make(map[string]bool),
		userColor:   make(map[string]Color),
		socketUser:  make(map[uint64]string),
		writers:     make(map[uint64]Writer),
		docsByName:  make(map[string]*docmodel.Document),
	}
}

// Connect allocates the next connection id and registers w as its writer.
// Call this once, at accept time, before anything is read from the
// connection.
func (r *Registry) Connect(w Writer) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextConnID++
	id := r.nextConnID
	r.writers[id] = w
	return id
}

// Disconnect removes connID's writer and, if a user was bound to it, logs
// that user out. It returns the user name that was bound, if any.
func (r *Registry) Disconnect(connID uint64) (userName string, hadUser bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.writers, connID)
	name, ok := r.socketUser[connID]
	if ok {
		delete(r.onlineUsers, name)
		delete(r.socketUser, connID)
	}
	return name, ok
}

// Broadcast writes msg to every currently registered writer and returns how
// many writers it reached. A write error on one writer does not stop the
// broadcast to the rest; that connection's eventual read failure is what
// triggers its Disconnect.
func (r *Registry) Broadcast(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.writers {
		if err := w.WriteLine(msg); err == nil {
			n++
		}
	}
	return n
}

// DocumentsCount reports how many documents have ever been created.
func (r *Registry) DocumentsCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.documents)
}

// Login implements spec.md 4.3's login operation.
func (r *Registry) Login(name string, connID uint64) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.onlineUsers[name] {
		b := wire.NewBuilder("notloggedin")
		b.Field("id", strconv.FormatUint(connID, 10))
		return b.String()
	}

	r.onlineUsers[name] = true
	if _, ok := r.userColor[name]; !ok {
		r.userColor[name] = r.palette[len(r.onlineUsers)%len(r.palette)]
	}
	r.socketUser[connID] = name

	b := wire.NewBuilder("loggedin")
	b.Field("userName", name)
	b.Field("id", strconv.FormatUint(connID, 10))
	return wire.Join(b.String(), r.docInfoListing(name))
}

// Logout implements spec.md 4.3's logout operation. The color mapping is
// retained so a returning user gets the same color.
func (r *Registry) Logout(name string, connID uint64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.onlineUsers, name)
	delete(r.socketUser, connID)

	b := wire.NewBuilder("loggedout")
	b.Field("userName", name)
	return b.String()
}

// NewDoc implements spec.md 4.3's newDoc operation.
func (r *Registry) NewDoc(user, docName string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docsByName[docName]; ok {
		b := wire.NewBuilder("notcreatedduplicate")
		b.Field("userName", user)
		return b.String()
	}

	d := docmodel.New(docName, user)
	r.documents = append(r.documents, d)
	r.docsByName[docName] = d

	b := wire.NewBuilder("created")
	b.Field("userName", user)
	b.Field("docName", docName)
	b.Field("date", d.GetDate())
	return b.String()
}

// OpenDoc implements spec.md 4.3's openDoc operation. ok is false when
// docName does not exist.
func (r *Registry) OpenDoc(user, docName string) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docsByName[docName]
	if !found {
		return "", false
	}
	d.AddCollaborator(user)

	collab := strings.Join(d.Collaborators, ",")
	colors := r.colorsFor(d.Collaborators)

	upd := wire.NewBuilder("update")
	upd.Field("docName", docName)
	upd.Field("collaborators", collab)
	upd.Field("colors", colors)

	opened := wire.NewBuilder("opened")
	opened.Field("userName", user)
	opened.Field("docName", docName)
	opened.Field("collaborators", collab)
	opened.Field("version", strconv.Itoa(d.Version))
	opened.Field("colors", colors)
	opened.Field("chatContent", d.Chat)
	opened.Field("docContent", wire.EncodeDocContent(d.Text()))

	return wire.Join(upd.String(), opened.String()), true
}

// ExitDoc implements spec.md 4.3's exitDoc operation. Per spec it does not
// mutate the registry: the user remains a collaborator and remains online.
func (r *Registry) ExitDoc(user, docName string) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.docsByName[docName]; !found {
		return "", false
	}

	b := wire.NewBuilder("exiteddoc")
	b.Field("userName", user)
	b.Field("docName", docName)
	return wire.Join(b.String(), r.docInfoListing(user)), true
}

// CorrectError implements spec.md 4.3's correctError operation: a resync
// response carrying the document's full current content.
func (r *Registry) CorrectError(user, docName string) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docsByName[docName]
	if !found {
		return "", false
	}

	b := wire.NewBuilder("corrected")
	b.Field("userName", user)
	b.Field("docName", docName)
	b.Field("content", wire.EncodeDocContent(d.Text()))
	return b.String(), true
}

// Chat implements spec.md 4.3's chat operation.
func (r *Registry) Chat(user, docName, line string) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docsByName[docName]
	if !found {
		return "", false
	}
	d.AppendChat(user + " : " + line + "\n")

	b := wire.NewBuilder("chat")
	b.Field("userName", user)
	b.Field("docName", docName)
	b.Field("chatContent", line)
	return b.String(), true
}

// InsertChange rebases and applies a CHANGE insertion against docName.
func (r *Registry) InsertChange(user, docName string, pos int, text string, version int) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docsByName[docName]
	if !found {
		return "", false
	}
	rPos, newVersion := d.Insert(pos, text, version)
	color := r.userColor[user]

	b := wire.NewBuilder("changed")
	b.Field("type", "insertion")
	b.Field("userName", user)
	b.Field("docName", docName)
	b.Field("position", strconv.Itoa(rPos))
	b.Field("length", strconv.Itoa(len(text)))
	b.Field("version", strconv.Itoa(newVersion))
	b.Field("color", color.String())
	b.Field("change", wire.EncodeDocContent(text))
	return b.String(), true
}

// DeleteChange rebases and applies a CHANGE deletion against docName.
func (r *Registry) DeleteChange(user, docName string, pos, length, version int) (resp string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, found := r.docsByName[docName]
	if !found {
		return "", false
	}
	rPos, rLen, newVersion := d.Delete(pos, length, version)

	b := wire.NewBuilder("changed")
	b.Field("type", "deletion")
	b.Field("userName", user)
	b.Field("docName", docName)
	b.Field("position", strconv.Itoa(rPos))
	b.Field("length", strconv.Itoa(rLen))
	b.Field("version", strconv.Itoa(newVersion))
	return b.String(), true
}

// colorsFor returns the color list for names, in order, as "R,G,B " per
// collaborator (including the trailing space), matching the original
// server's openDoc serialization. Must be called with r.mu held.
func (r *Registry) colorsFor(names []string) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(r.userColor[n].String())
		b.WriteByte(' ')
	}
	return b.String()
}

// docInfoListing renders the "docinfo&...&\n...\nenddocinfo&...&" block
// that LOGIN and EXITDOC responses carry. Must be called with r.mu held.
func (r *Registry) docInfoListing(userName string) string {
	lines := make([]string, 0, len(r.documents)+1)
	for _, d := range r.documents {
		b := wire.NewBuilder("docinfo")
		b.Field("docName", d.Name)
		b.Field("date", d.GetDate())
		b.Field("collab", strings.Join(d.Collaborators, ","))
		b.Field("userName", userName)
		lines = append(lines, b.String())
	}
	end := wire.NewBuilder("enddocinfo")
	end.Field("userName", userName)
	lines = append(lines, end.String())
	return strings.Join(lines, "\n")
}
