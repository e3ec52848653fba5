package predict

import (
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/charmbracelet/log"
)

// Session holds the ranked candidates of the last successful query plus the
// cursor the renderer follows. Replaced wholesale on every query; never
// shared across documents.
type Session struct {
	Candidates   []Candidate
	Cursor       int
	PrefixLength int
}

// Cycler is the candidate selection state machine. It is either idle (no
// session) or active with a non-empty candidate list and a valid cursor.
// All mutation happens on the host's synchronous event chain; the cycler
// itself does no locking.
type Cycler struct {
	engine  *Engine
	session *Session
}

// NewCycler creates an idle cycler over engine.
func NewCycler(engine *Engine) *Cycler {
	return &Cycler{engine: engine}
}

// Query runs the engine and replaces the session. An empty result drops the
// cycler back to idle and returns nil so the renderer knows there is
// nothing to show.
func (c *Cycler) Query(id model.DocumentID, prefix, previousWord string) *Session {
	candidates := c.engine.Candidates(id, prefix, previousWord, 0)
	if len(candidates) == 0 {
		c.session = nil
		return nil
	}
	c.session = &Session{
		Candidates:   candidates,
		Cursor:       0,
		PrefixLength: len(prefix),
	}
	return c.session
}

// Next advances the cursor with wraparound. No-op while idle.
func (c *Cycler) Next() {
	if c.session == nil {
		log.Debug("cycler: next ignored, no active session")
		return
	}
	c.session.Cursor = (c.session.Cursor + 1) % len(c.session.Candidates)
}

// Prev retreats the cursor with wraparound. No-op while idle.
func (c *Cycler) Prev() {
	if c.session == nil {
		log.Debug("cycler: prev ignored, no active session")
		return
	}
	n := len(c.session.Candidates)
	c.session.Cursor = (c.session.Cursor + n - 1) % n
}

// Current returns the candidate under the cursor, or false while idle.
func (c *Cycler) Current() (Candidate, bool) {
	if c.session == nil {
		return Candidate{}, false
	}
	return c.session.Candidates[c.session.Cursor], true
}

// Active reports whether a session is live.
func (c *Cycler) Active() bool {
	return c.session != nil
}

// Session returns the live session, nil while idle.
func (c *Cycler) Session() *Session {
	return c.session
}

// Reset forces the cycler back to idle. Used on mode exit or explicit hide.
func (c *Cycler) Reset() {
	c.session = nil
}
