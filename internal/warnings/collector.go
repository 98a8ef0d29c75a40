// Package warnings buffers advisory messages raised during an export run so
// they land in the export log instead of interrupting the user.
package warnings

import "sync"

// Collector is a run-scoped, deduplicating warning buffer.
// Thread-safe for concurrent use.
//
// Lifecycle: Start clears everything, Collect appends, Drain hands the
// buffered messages to the caller between units, Stop ends the run.
type Collector struct {
	collecting bool
	messages   []string
	seen       map[string]struct{}
	mu         sync.Mutex
}

// NewCollector returns an idle collector. Collect returns false until Start.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Start begins collecting. Starting an already-started collector resets the
// buffer and the dedup set (last start wins); the return value reports
// whether that happened so callers can flag unpaired Start/Stop.
func (c *Collector) Start() (restarted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	restarted = c.collecting
	c.collecting = true
	c.messages = nil
	c.seen = make(map[string]struct{})
	return restarted
}

// Collect buffers msg if a run is active. It returns true when the message
// was absorbed, including when it duplicates an earlier one (even one that
// has since been drained). It returns false when no run is active, in which
// case the caller should notify the user immediately.
func (c *Collector) Collect(msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.collecting {
		return false
	}
	if _, dup := c.seen[msg]; dup {
		return true
	}
	c.seen[msg] = struct{}{}
	c.messages = append(c.messages, msg)
	return true
}

// Drain returns the buffered messages and clears the buffer. The dedup set is
// kept, so a drained message repeated later in the run is still suppressed.
func (c *Collector) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.messages
	c.messages = nil
	return out
}

// Stop ends the run and returns whatever was still buffered.
func (c *Collector) Stop() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.messages
	c.messages = nil
	c.seen = make(map[string]struct{})
	c.collecting = false
	return out
}

// Collecting reports whether a run is active.
func (c *Collector) Collecting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collecting
}

// Sink receives advisory messages from the generator and the copy plan.
type Sink interface {
	Warn(msg string)
}

// Reporter routes warnings to a collector while a run is active and to an
// immediate notification otherwise.
type Reporter struct {
	Collector *Collector
	Notify    func(msg string)
}

// Warn implements Sink.
func (r Reporter) Warn(msg string) {
	if r.Collector != nil && r.Collector.Collect(msg) {
		return
	}
	if r.Notify != nil {
		r.Notify(msg)
	}
}

// Discard is a Sink that drops every message.
type Discard struct{}

// Warn implements Sink.
func (Discard) Warn(string) {}
