package netio

import (
	"log"
	"net"
	"strconv"

	"github.com/deepakn94/CollabTeX/internal/metrics"
	"github.com/deepakn94/CollabTeX/registry"
	"github.com/deepakn94/CollabTeX/wire"
)

// EnqueueFunc is called once per line read from a connection.
type EnqueueFunc func(connID uint64, line string)

// Listener is the accept loop: one goroutine blocks on Accept, and each
// accepted connection gets its own reader fiber, per spec.md 4.4.
type Listener struct {
	ln      net.Listener
	reg     *registry.Registry
	enqueue EnqueueFunc
	metrics *metrics.Metrics
	logger  *log.Logger
}

// Listen binds addr and returns a Listener ready to Serve.
func Listen(addr string, reg *registry.Registry, enqueue EnqueueFunc, m *metrics.Metrics, logger *log.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Listener{ln: ln, reg: reg, enqueue: enqueue, metrics: m, logger: logger}, nil
}

// Addr returns the address actually bound, useful when addr was ":0".
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve runs the accept loop. It returns only on an unrecoverable listener
// error (spec.md 7: fatal, the caller should exit the process).
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		go l.handleAccept(conn)
	}
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

func (l *Listener) handleAccept(nc net.Conn) {
	c := newConn(0, nc)
	id := l.reg.Connect(c)
	c.id = id
	l.metrics.IncConnections()

	b := wire.NewBuilder("id")
	b.Field("id", strconv.FormatUint(id, 10))
	if err := c.WriteLine(b.String()); err != nil {
		l.logger.Printf("conn %d: failed to send id: %v", id, err)
	}

	c.readLoop(l.enqueue)

	name, hadUser := l.reg.Disconnect(id)
	l.metrics.DecConnections()
	if hadUser {
		l.logger.Printf("conn %d (%s): disconnected", id, name)
	} else {
		l.logger.Printf("conn %d: disconnected", id)
	}
	nc.Close()
}
