// Package wire implements the request grammar and response framing
// described by the protocol: one request per line, "&"-delimited fields,
// "="-delimited key/value pairs, with backslash escaping so field values
// can carry literal "&", "=", "\" and newlines without colliding with the
// delimiters.
package wire

import "strings"

// Escape renders s so that none of its bytes are mistaken for a field or
// key/value delimiter: "\" becomes "\\", "&" becomes "\&", "=" becomes
// "\=", and a literal newline becomes the two-character sequence "\n".
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '&':
			b.WriteString(`\&`)
		case '=':
			b.WriteString(`\=`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape is the inverse of Escape.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitUnescaped splits s on occurrences of sep that are not themselves
// escaped, leaving any escape sequences inside each returned piece intact
// (call Unescape on the pieces you actually keep).
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			cur.WriteByte(c)
			escaped = true
			continue
		}
		if c == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, cur.String())
	return parts
}

// indexUnescaped returns the index of the first unescaped occurrence of sep
// in s, or -1 if there is none.
func indexUnescaped(s string, sep byte) int {
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == sep {
			return i
		}
	}
	return -1
}

// EncodeDocContent renders document text for the wire: the client
// guarantees a user can never type a literal tab, so newlines are sent as
// "\t" and restored by the client on receipt.
func EncodeDocContent(s string) string {
	return strings.ReplaceAll(s, "\n", "\t")
}

// DecodeDocContent is the inverse of EncodeDocContent.
func DecodeDocContent(s string) string {
	return strings.ReplaceAll(s, "\t", "\n")
}
