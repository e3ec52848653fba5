package predict

import (
	"testing"
)

func newTestCycler(t *testing.T, text string) *Cycler {
	t.Helper()
	engine, _ := newTestEngine(t, text)
	return NewCycler(engine)
}

func TestCyclerStartsIdle(t *testing.T) {
	c := newTestCycler(t, "hello world")

	if c.Active() {
		t.Error("new cycler is active")
	}
	if _, ok := c.Current(); ok {
		t.Error("idle cycler returned a current candidate")
	}
}

func TestCyclerQueryActivates(t *testing.T) {
	c := newTestCycler(t, "testing tested tester")

	session := c.Query(doc, "test", "")
	if session == nil {
		t.Fatal("query with matches returned nil session")
	}
	if !c.Active() {
		t.Error("cycler idle after successful query")
	}
	if session.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", session.Cursor)
	}
	if session.PrefixLength != 4 {
		t.Errorf("prefix length = %d, want 4", session.PrefixLength)
	}

	current, ok := c.Current()
	if !ok {
		t.Fatal("no current candidate in active state")
	}
	if current.Word != session.Candidates[0].Word {
		t.Errorf("current = %q, want best candidate %q", current.Word, session.Candidates[0].Word)
	}
}

func TestCyclerEmptyQueryGoesIdle(t *testing.T) {
	c := newTestCycler(t, "testing tested tester")

	if c.Query(doc, "test", "") == nil {
		t.Fatal("setup query failed")
	}
	if session := c.Query(doc, "zzz", ""); session != nil {
		t.Errorf("query with no matches returned %v, want nil", session)
	}
	if c.Active() {
		t.Error("cycler still active after empty query")
	}
}

func TestCyclerWraparound(t *testing.T) {
	c := newTestCycler(t, "testing tested tester")

	session := c.Query(doc, "test", "")
	if len(session.Candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(session.Candidates))
	}

	// forward past the end wraps to 0
	c.Next()
	c.Next()
	if session.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2", session.Cursor)
	}
	c.Next()
	if session.Cursor != 0 {
		t.Errorf("cursor after wrap = %d, want 0", session.Cursor)
	}

	// backward from 0 wraps to the last index
	c.Prev()
	if session.Cursor != 2 {
		t.Errorf("cursor after reverse wrap = %d, want 2", session.Cursor)
	}
}

func TestCyclerIdleNavigationIsNoop(t *testing.T) {
	c := newTestCycler(t, "hello world")

	// must not panic or change state
	c.Next()
	c.Prev()
	if c.Active() {
		t.Error("navigation activated an idle cycler")
	}
}

func TestCyclerReset(t *testing.T) {
	c := newTestCycler(t, "testing tested")

	c.Query(doc, "test", "")
	c.Reset()

	if c.Active() {
		t.Error("cycler active after reset")
	}
	if _, ok := c.Current(); ok {
		t.Error("current candidate available after reset")
	}

	// reset while idle stays idle
	c.Reset()
	if c.Active() {
		t.Error("reset activated an idle cycler")
	}
}

func TestCyclerQueryReplacesSession(t *testing.T) {
	c := newTestCycler(t, "testing tested walker walking")

	c.Query(doc, "test", "")
	c.Next()

	session := c.Query(doc, "walk", "")
	if session.Cursor != 0 {
		t.Errorf("cursor after new query = %d, want 0", session.Cursor)
	}
	current, _ := c.Current()
	if current.Word != "walker" && current.Word != "walking" {
		t.Errorf("current %q does not belong to the new query", current.Word)
	}
}
