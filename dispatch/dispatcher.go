// Package dispatch implements the single serialization point described by
// spec.md 4.5: requests from every connection funnel through one FIFO
// queue, a single fiber drains it, mutates the registry/document state for
// each request in turn, and broadcasts the resulting response to every
// writer currently registered. Because that fiber is single-threaded and
// finishes each broadcast before it takes the next request, every client
// observes every response in the same global order — the convergence
// property the document model's rebase rules depend on. The order in which
// writers are visited within one broadcast is not fixed.
package dispatch

import (
	"log"
	"strconv"

	"github.com/deepakn94/CollabTeX/internal/metrics"
	"github.com/deepakn94/CollabTeX/registry"
	"github.com/deepakn94/CollabTeX/wire"
)

// invalidRequestLine is sent, unframed, for malformed lines, unknown
// kinds, or a recognized kind missing required fields (spec.md 7).
const invalidRequestLine = "Invalid request"

// Dispatcher is the single fiber that dequeues requests, mutates state via
// Registry, and broadcasts responses.
type Dispatcher struct {
	reg     *registry.Registry
	metrics *metrics.Metrics
	logger  *log.Logger
	q       *queue
}

// New creates a Dispatcher. Call Run in its own goroutine to start it.
func New(reg *registry.Registry, m *metrics.Metrics, logger *log.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, metrics: m, logger: logger, q: newQueue()}
}

// Enqueue is the callback connection reader fibers call for every line
// they read. It never blocks for long: the queue is unbounded.
func (d *Dispatcher) Enqueue(connID uint64, line string) {
	d.q.push(queuedRequest{connID: connID, line: line})
}

// Run drains the queue forever, dispatching and broadcasting one request
// at a time. It does not return.
func (d *Dispatcher) Run() {
	for {
		item := d.q.pop()
		r := wire.Parse(item.connID, item.line)
		resp := d.handle(r)
		if resp == "" {
			continue
		}
		n := d.reg.Broadcast(resp)
		d.metrics.IncRequests(string(r.Kind))
		d.metrics.ObserveFanout(n)
		d.metrics.SetDocuments(d.reg.DocumentsCount())
	}
}

func (d *Dispatcher) handle(r wire.Request) string {
	switch r.Kind {
	case wire.KindLogin:
		name, ok := r.Field("userName")
		if !ok {
			return invalidRequestLine
		}
		return d.reg.Login(name, r.ConnID)

	case wire.KindLogout:
		name, ok := r.Field("userName")
		if !ok {
			return invalidRequestLine
		}
		return d.reg.Logout(name, r.ConnID)

	case wire.KindNewDoc:
		user, ok1 := r.Field("userName")
		doc, ok2 := r.Field("docName")
		if !ok1 || !ok2 {
			return invalidRequestLine
		}
		return d.reg.NewDoc(user, doc)

	case wire.KindOpenDoc:
		user, ok1 := r.Field("userName")
		doc, ok2 := r.Field("docName")
		if !ok1 || !ok2 {
			return invalidRequestLine
		}
		resp, found := d.reg.OpenDoc(user, doc)
		if !found {
			return invalidDocResponse()
		}
		return resp

	case wire.KindExitDoc:
		user, ok1 := r.Field("userName")
		doc, ok2 := r.Field("docName")
		if !ok1 || !ok2 {
			return invalidRequestLine
		}
		resp, found := d.reg.ExitDoc(user, doc)
		if !found {
			return invalidDocResponse()
		}
		return resp

	case wire.KindCorrectError:
		user, ok1 := r.Field("userName")
		doc, ok2 := r.Field("docName")
		if !ok1 || !ok2 {
			return invalidRequestLine
		}
		resp, found := d.reg.CorrectError(user, doc)
		if !found {
			return invalidDocResponse()
		}
		return resp

	case wire.KindChat:
		user, ok1 := r.Field("userName")
		doc, ok2 := r.Field("docName")
		line, ok3 := r.Field("chatContent")
		if !ok1 || !ok2 || !ok3 {
			return invalidRequestLine
		}
		resp, found := d.reg.Chat(user, doc, line)
		if !found {
			return invalidDocResponse()
		}
		return resp

	case wire.KindChange:
		return d.handleChange(r)

	default:
		return invalidRequestLine
	}
}

func (d *Dispatcher) handleChange(r wire.Request) string {
	user, ok1 := r.Field("userName")
	doc, ok2 := r.Field("docName")
	posStr, ok3 := r.Field("position")
	versionStr, ok4 := r.Field("version")
	typ, ok5 := r.Field("type")
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return invalidRequestLine
	}
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return invalidRequestLine
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return invalidRequestLine
	}

	switch typ {
	case "insertion":
		change, ok := r.Field("change")
		if !ok {
			return invalidRequestLine
		}
		resp, found := d.reg.InsertChange(user, doc, pos, wire.DecodeDocContent(change), version)
		if !found {
			return invalidDocResponse()
		}
		return resp

	case "deletion":
		lengthStr, ok := r.Field("length")
		if !ok {
			return invalidRequestLine
		}
		length, err := strconv.Atoi(lengthStr)
		if err != nil {
			return invalidRequestLine
		}
		resp, found := d.reg.DeleteChange(user, doc, pos, length, version)
		if !found {
			return invalidDocResponse()
		}
		return resp

	default:
		return invalidRequestLine
	}
}

// invalidDocResponse is the typed, framed response spec.md 9 recommends in
// place of the source's silent no-op or crash when a document name can't
// be found.
func invalidDocResponse() string {
	b := wire.NewBuilder("invalid")
	b.Field("reason", "nodocument")
	return b.String()
}
