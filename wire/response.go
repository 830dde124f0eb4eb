package wire

import "strings"

// Builder assembles one "<kind>&key=val&...&" response line, escaping
// every field value as it's added.
type Builder struct {
	b strings.Builder
}

// NewBuilder starts a response line of the given kind.
func NewBuilder(kind string) *Builder {
	bld := &Builder{}
	bld.b.WriteString(kind)
	bld.b.WriteByte('&')
	return bld
}

// Field appends key=value, escaping value.
func (b *Builder) Field(key, value string) *Builder {
	b.b.WriteString(key)
	b.b.WriteByte('=')
	b.b.WriteString(Escape(value))
	b.b.WriteByte('&')
	return b
}

func (b *Builder) String() string {
	return b.b.String()
}

// Join concatenates response lines with "\n", the way a single dispatch
// can yield several logical sub-responses (e.g. "loggedin" followed by a
// docinfo listing).
func Join(lines ...string) string {
	return strings.Join(lines, "\n")
}
