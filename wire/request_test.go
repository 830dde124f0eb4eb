package wire_test

import (
	"testing"

	"github.com/deepakn94/CollabTeX/wire"
)

func eq(t *testing.T, got, want interface{}) {
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain",
		"a&b=c\\d\ne",
		"",
		"\n\n&&==\\\\",
	} {
		got := wire.Unescape(wire.Escape(s))
		eq(t, got, s)
	}
}

func TestParseLogin(t *testing.T) {
	r := wire.Parse(1, `LOGIN&userName=alice&`)
	eq(t, r.Kind, wire.KindLogin)
	name, ok := r.Field("userName")
	eq(t, ok, true)
	eq(t, name, "alice")
}

func TestParseUnknownKindIsInvalid(t *testing.T) {
	r := wire.Parse(1, `FROBNICATE&x=1&`)
	eq(t, r.Kind, wire.KindInvalid)
}

func TestParseAliases(t *testing.T) {
	eq(t, wire.Parse(1, "CHANGEDOC&").Kind, wire.KindChange)
	eq(t, wire.Parse(1, "CORRECTERROR&").Kind, wire.KindCorrectError)
	eq(t, wire.Parse(1, "CHATMESSAGE&").Kind, wire.KindChat)
}

func TestParseEscapedFieldValue(t *testing.T) {
	line := "CHAT&userName=alice&docName=paper&chatContent=" + wire.Escape("a & b = c\nnext") + "&"
	r := wire.Parse(1, line)
	got, _ := r.Field("chatContent")
	eq(t, got, "a & b = c\nnext")
}

func TestBuilderRoundTripsThroughParse(t *testing.T) {
	b := wire.NewBuilder("CHAT")
	b.Field("userName", "alice")
	b.Field("chatContent", "x&y=z")
	r := wire.Parse(1, b.String())
	v, _ := r.Field("chatContent")
	eq(t, v, "x&y=z")
}
