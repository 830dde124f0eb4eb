package main

import (
	"bufio"
	"net"
	"os"
	"strings"
	"testing"

	"github.com/asadovsky/gosh"

	"github.com/deepakn94/CollabTeX/server"
)

// serveFn lets the test re-exec this binary as a gosh-managed subprocess
// running server.Serve, the same pattern the teacher's demo used to drive
// ot.Serve out of process.
var serveFn = gosh.RegisterFunc("serve", server.Serve)

func TestMain(m *testing.M) {
	gosh.InitMain()
	os.Exit(m.Run())
}

func dialAndReadID(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read id: %v", err)
	}
	if !strings.HasPrefix(line, "id&id=") {
		t.Fatalf("got %q", line)
	}
	return conn, r
}

func send(t *testing.T, conn net.Conn, line string) {
	t.Helper()
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

// readResponse reads n physical lines and joins them with "\n", matching
// how Conn.WriteLine frames a multi-line response (e.g. LOGIN's
// "loggedin&...&\nenddocinfo&...&" or OPENDOC's "update&...&\nopened&...&")
// as one write whose embedded newlines split it into several physical
// lines. Reading fewer than n lines here is what let earlier
// reads silently drift behind a multi-line response.
func readResponse(t *testing.T, r *bufio.Reader, n int) string {
	t.Helper()
	lines := make([]string, n)
	for i := range lines {
		lines[i] = readLine(t, r)
	}
	return strings.Join(lines, "\n")
}

// TestConvergenceAcrossTwoConnections drives spec.md 8's concrete
// scenarios end to end: two real TCP connections to a subprocess server,
// asserting every client sees the same responses in the same order.
func TestConvergenceAcrossTwoConnections(t *testing.T) {
	sh := gosh.NewShell(t)
	defer sh.Cleanup()

	addr := "localhost:14444"
	c := sh.FuncCmd(serveFn, addr)
	c.Start()
	c.AwaitVars("ready")

	connA, rA := dialAndReadID(t, addr)
	defer connA.Close()
	connB, rB := dialAndReadID(t, addr)
	defer connB.Close()

	// LOGIN replies with "loggedin&...&" followed by a docinfo listing that
	// always ends in "enddocinfo&...&", two physical lines even with zero
	// documents.
	send(t, connA, "LOGIN&userName=alice&")
	readResponse(t, rA, 2)
	readResponse(t, rB, 2)

	send(t, connA, "LOGIN&userName=bob&")
	readResponse(t, rA, 2)
	readResponse(t, rB, 2)

	send(t, connA, "NEWDOC&userName=alice&docName=paper&")
	readResponse(t, rA, 1)
	readResponse(t, rB, 1)

	// OPENDOC replies with "update&...&" followed by "opened&...&", two
	// physical lines.
	send(t, connA, "OPENDOC&userName=alice&docName=paper&")
	readResponse(t, rA, 2)
	readResponse(t, rB, 2)

	send(t, connA, "CHANGE&userName=alice&docName=paper&type=insertion&position=0&length=5&version=0&change=hello&")
	readResponse(t, rA, 1)
	readResponse(t, rB, 1)

	// scenario 4: insert vs. delete rebase, both issued against version 1.
	send(t, connA, "CHANGE&userName=alice&docName=paper&type=insertion&position=5&length=1&version=1&change=!&")
	respA := readResponse(t, rA, 1)
	respB := readResponse(t, rB, 1)
	if respA != respB {
		t.Fatalf("clients diverged: %q vs %q", respA, respB)
	}

	send(t, connB, "CHANGE&userName=bob&docName=paper&type=deletion&position=0&length=2&version=1&")
	delA := readResponse(t, rA, 1)
	delB := readResponse(t, rB, 1)
	if delA != delB {
		t.Fatalf("clients diverged: %q vs %q", delA, delB)
	}

	send(t, connB, "CORRECT_ERROR&userName=bob&docName=paper&")
	corrA := readResponse(t, rA, 1)
	corrB := readResponse(t, rB, 1)
	if corrA != corrB {
		t.Fatalf("clients diverged: %q vs %q", corrA, corrB)
	}
	if !strings.Contains(corrA, "content=llo!&") {
		t.Fatalf("expected converged content llo!, got %q", corrA)
	}
}
