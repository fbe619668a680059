package crawler

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/nao1215/linkcrawl/internal/model"
)

// Unit is a URL awaiting a check. It is owned by the Frontier until a worker
// claims it, then by that worker until its outcome is published.
type Unit struct {
	// URL is the canonical URL to check.
	URL *url.URL

	// Key is the canonical string form of URL, used as the visited-set key.
	Key string

	// Referrer is the page the URL was discovered on. Empty for the seed.
	Referrer string
}

// Frontier is the shared state of one crawl session: the work queue, the
// visited set, the active-work counter and the outcome buffer.
//
// Design decision: A single mutex guards all of them because:
//  1. Claiming must check the queue and insert into visited atomically
//  2. Termination (queue empty AND active == 0) must be read as one snapshot
//  3. The stream must never see "terminal" while an outcome is unbuffered
//
// Waiters never spin. Every state change closes the current changed channel
// and installs a fresh one, which wakes all goroutines waiting on it.
type Frontier struct {
	mu sync.Mutex

	// changed is closed and replaced on every state change.
	changed chan struct{}

	// queue holds claimable units in FIFO order.
	queue []Unit

	// pending contains the keys currently in queue.
	pending map[string]struct{}

	// visited contains every key that has been claimed. Append-only.
	visited map[string]struct{}

	// active is the number of claimed units whose outcome is not yet published.
	active int

	// limit is the pool size; active must never exceed it.
	limit int

	// outcomes buffers published outcomes until the stream reads them.
	// It is unbounded so that workers never block on a slow consumer.
	outcomes []model.Outcome

	// claims, completed and malformed count units claimed, unit outcomes
	// published and Malformed outcomes published.
	claims    int
	completed int
	malformed int

	// maxActive is the highest value active has reached.
	maxActive int
}

// NewFrontier creates an empty frontier for a pool of limit workers.
func NewFrontier(limit int) *Frontier {
	if limit <= 0 {
		limit = 1
	}
	return &Frontier{
		changed:  make(chan struct{}),
		queue:    make([]Unit, 0),
		pending:  make(map[string]struct{}),
		visited:  make(map[string]struct{}),
		limit:    limit,
		outcomes: make([]model.Outcome, 0),
	}
}

// Offer enqueues u unless it has already been claimed or is already queued.
// Offering a known URL is a silent no-op. Returns true if u was enqueued.
func (f *Frontier) Offer(u *url.URL, referrer string) bool {
	key := u.String()

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.visited[key]; ok {
		return false
	}
	if _, ok := f.pending[key]; ok {
		return false
	}

	f.pending[key] = struct{}{}
	f.queue = append(f.queue, Unit{URL: u, Key: key, Referrer: referrer})
	f.notifyLocked()
	return true
}

// TryClaim removes the head of the queue, marks it visited and counts it as
// active. It returns false when the queue is empty.
func (f *Frontier) TryClaim() (Unit, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimLocked()
}

// Claim is the blocking form of TryClaim. It waits while the queue is empty
// but other workers are still active, and returns false once the frontier is
// terminal.
func (f *Frontier) Claim() (Unit, bool) {
	for {
		f.mu.Lock()
		if unit, ok := f.claimLocked(); ok {
			f.mu.Unlock()
			return unit, true
		}
		if f.terminalLocked() {
			f.mu.Unlock()
			return Unit{}, false
		}
		changed := f.changed
		f.mu.Unlock()

		<-changed
	}
}

// Complete publishes the outcome of a claimed unit and releases the claim.
// Both happen in one critical section, so a terminal snapshot always
// includes the outcome in the buffer.
func (f *Frontier) Complete(outcome model.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outcomes = append(f.outcomes, outcome)
	f.completed++

	f.active--
	if f.active < 0 {
		panic(fmt.Sprintf("crawler: active count went negative (%d)", f.active))
	}
	f.notifyLocked()
}

// Publish buffers an outcome that does not correspond to a claim, such as a
// Malformed link found while expanding a page. The caller must still hold
// its own claim, which keeps the frontier from turning terminal first.
func (f *Frontier) Publish(outcome model.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.outcomes = append(f.outcomes, outcome)
	f.malformed++
	f.notifyLocked()
}

// Terminal reports whether the queue is empty and no unit is active.
func (f *Frontier) Terminal() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminalLocked()
}

// next pops the oldest buffered outcome. When the buffer is empty it reports
// whether the frontier is terminal and, if not, the channel to wait on.
func (f *Frontier) next() (outcome model.Outcome, ready, done bool, changed <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.outcomes) > 0 {
		outcome = f.outcomes[0]
		f.outcomes[0] = model.Outcome{}
		f.outcomes = f.outcomes[1:]
		return outcome, true, false, nil
	}
	if f.terminalLocked() {
		return model.Outcome{}, false, true, nil
	}
	return model.Outcome{}, false, false, f.changed
}

// claimLocked implements TryClaim. f.mu must be held.
func (f *Frontier) claimLocked() (Unit, bool) {
	if len(f.queue) == 0 {
		return Unit{}, false
	}

	unit := f.queue[0]
	f.queue[0] = Unit{}
	f.queue = f.queue[1:]
	delete(f.pending, unit.Key)

	f.visited[unit.Key] = struct{}{}
	f.claims++

	f.active++
	if f.active > f.limit {
		panic(fmt.Sprintf("crawler: active count %d exceeds pool size %d", f.active, f.limit))
	}
	if f.active > f.maxActive {
		f.maxActive = f.active
	}

	return unit, true
}

// terminalLocked reports the termination invariant. f.mu must be held.
func (f *Frontier) terminalLocked() bool {
	return len(f.queue) == 0 && f.active == 0
}

// notifyLocked wakes every goroutine waiting for a state change. f.mu must be held.
func (f *Frontier) notifyLocked() {
	close(f.changed)
	f.changed = make(chan struct{})
}

// Stats returns a consistent snapshot of the frontier counters.
func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Stats{
		Visited:   len(f.visited),
		Queued:    len(f.queue),
		Active:    f.active,
		MaxActive: f.maxActive,
		Limit:     f.limit,
		Claims:    f.claims,
		Completed: f.completed,
		Malformed: f.malformed,
		Buffered:  len(f.outcomes),
	}
}

// Stats contains crawl statistics.
type Stats struct {
	// Visited is the number of unique URLs claimed.
	Visited int

	// Queued is the number of URLs waiting to be claimed.
	Queued int

	// Active is the number of claimed URLs still being processed.
	Active int

	// MaxActive is the highest Active value observed.
	MaxActive int

	// Limit is the worker pool size.
	Limit int

	// Claims is the number of claims made. Equal to Visited.
	Claims int

	// Completed is the number of outcomes published for claimed URLs.
	// Equal to Claims once the crawl is done.
	Completed int

	// Malformed is the number of Malformed outcomes published.
	Malformed int

	// Buffered is the number of outcomes not yet read from the stream.
	Buffered int
}
