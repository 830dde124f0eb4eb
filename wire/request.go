package wire

import "strings"

// Kind identifies the type of a parsed request.
type Kind string

const (
	KindLogin        Kind = "LOGIN"
	KindNewDoc       Kind = "NEWDOC"
	KindOpenDoc      Kind = "OPENDOC"
	KindChange       Kind = "CHANGE"
	KindExitDoc      Kind = "EXITDOC"
	KindLogout       Kind = "LOGOUT"
	KindCorrectError Kind = "CORRECT_ERROR"
	KindChat         Kind = "CHAT"
	KindInvalid      Kind = "INVALID"
)

// kindAliases maps every wire spelling (including the aliases spec.md
// names) to its canonical Kind.
var kindAliases = map[string]Kind{
	"LOGIN":         KindLogin,
	"NEWDOC":        KindNewDoc,
	"OPENDOC":       KindOpenDoc,
	"CHANGE":        KindChange,
	"CHANGEDOC":     KindChange,
	"EXITDOC":       KindExitDoc,
	"LOGOUT":        KindLogout,
	"CORRECT_ERROR": KindCorrectError,
	"CORRECTERROR":  KindCorrectError,
	"CHAT":          KindChat,
	"CHATMESSAGE":   KindChat,
}

// Request is one parsed wire line, tagged with the connection it arrived
// on.
type Request struct {
	Kind   Kind
	ConnID uint64
	Fields map[string]string
	Raw    string
}

// Field returns the named field and whether it was present.
func (r Request) Field(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Parse tokenizes one wire line into a Request. An unrecognized kind, or a
// line with no kind token at all, yields Kind == KindInvalid.
func Parse(connID uint64, line string) Request {
	line = strings.TrimRight(line, "\r\n")
	fields := splitUnescaped(line, '&')

	kind := KindInvalid
	if len(fields) > 0 {
		if k, ok := kindAliases[fields[0]]; ok {
			kind = k
		}
	}

	m := make(map[string]string)
	if len(fields) > 1 {
		for _, f := range fields[1:] {
			if f == "" {
				continue
			}
			idx := indexUnescaped(f, '=')
			if idx < 0 {
				m[Unescape(f)] = ""
				continue
			}
			m[Unescape(f[:idx])] = Unescape(f[idx+1:])
		}
	}

	return Request{Kind: kind, ConnID: connID, Fields: m, Raw: line}
}
