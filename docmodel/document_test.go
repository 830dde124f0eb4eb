package docmodel_test

import (
	"testing"

	"github.com/deepakn94/CollabTeX/docmodel"
)

func eq(t *testing.T, got, want interface{}) {
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertNoRebaseNeeded(t *testing.T) {
	d := docmodel.New("paper", "alice")
	pos, v := d.Insert(0, "hello", 0)
	eq(t, pos, 0)
	eq(t, v, 1)
	eq(t, d.Text(), "hello")
	eq(t, d.HistoryLen(), 1)
}

func TestConcurrentInsertsAgainstSameVersion(t *testing.T) {
	// spec.md section 8, scenario 3.
	d := docmodel.New("paper", "alice")
	d.Insert(0, "abc", 0) // v1, bring it to "abc" at version 1
	base := d.Version

	posA, vA := d.Insert(1, "X", base)
	eq(t, posA, 1)
	eq(t, vA, base+1)
	eq(t, d.Text(), "aXbc")

	posB, vB := d.Insert(1, "Y", base)
	eq(t, posB, 2)
	eq(t, vB, base+2)
	eq(t, d.Text(), "aXYbc")
}

func TestInsertVsDeleteRebase(t *testing.T) {
	// spec.md section 8, scenario 4.
	d := docmodel.New("paper", "alice")
	d.Insert(0, "hello", 0) // version 1, text "hello"
	base := d.Version

	posA, vA := d.Insert(5, "!", base)
	eq(t, posA, 5)
	eq(t, vA, base+1)
	eq(t, d.Text(), "hello!")

	posB, lenB, vB := d.Delete(0, 2, base)
	eq(t, posB, 0)
	eq(t, lenB, 2)
	eq(t, vB, base+2)
	eq(t, d.Text(), "llo!")
}

func TestDeleteCollapsesToNoOpButBumpsVersion(t *testing.T) {
	d := docmodel.New("paper", "alice")
	d.Insert(0, "ab", 0) // v1, text "ab"
	v0 := d.Version

	// Another client deletes everything from a stale version.
	d.Delete(0, 2, v0) // v2, text ""
	v1 := d.Version
	eq(t, d.Text(), "")

	// A third edit, rebased against a delete that already removed the
	// region it targeted, should collapse to a zero-length delete but
	// still tick the version.
	_, length, v2 := d.Delete(0, 2, v0)
	eq(t, length, 0)
	eq(t, v2, v1+1)
	eq(t, d.HistoryLen(), v2)
}

func TestRebaseIdentityAtCurrentVersion(t *testing.T) {
	d := docmodel.New("paper", "alice")
	d.Insert(0, "abc", 0)
	pos, _ := d.Insert(1, "X", d.Version)
	eq(t, pos, 1)
	eq(t, d.Text(), "aXbc")
}

func TestHistoryLenMatchesVersion(t *testing.T) {
	d := docmodel.New("paper", "alice")
	for i := 0; i < 5; i++ {
		d.Insert(0, "x", d.Version)
	}
	eq(t, d.HistoryLen(), d.Version)
}

func TestIdempotentCollaborator(t *testing.T) {
	d := docmodel.New("paper", "alice")
	d.AddCollaborator("bob")
	d.AddCollaborator("bob")
	eq(t, len(d.Collaborators), 2)
}

func TestAppendChat(t *testing.T) {
	d := docmodel.New("paper", "alice")
	d.AppendChat("alice : hi\n")
	if got, want := d.Chat, "alice : hi\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
