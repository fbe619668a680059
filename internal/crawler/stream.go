package crawler

import (
	"context"
	"iter"
	"sync"

	"github.com/nao1215/linkcrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// PollState is the result of a non-blocking Stream.Poll.
type PollState int

const (
	// PollReady means an outcome was returned.
	PollReady PollState = iota

	// PollPending means no outcome is buffered yet but the crawl is still running.
	PollPending

	// PollDone means the crawl is complete and every outcome has been read.
	PollDone
)

// String returns the state name.
func (s PollState) String() string {
	switch s {
	case PollReady:
		return "ready"
	case PollPending:
		return "pending"
	case PollDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stream is the consumer side of a crawl session. Outcomes are yielded in
// completion order. A single consumer is expected.
//
// The stream reports done only when the outcome buffer is empty and the
// frontier is terminal, evaluated under the frontier lock, so no outcome can
// be produced after done is observed.
type Stream struct {
	frontier *Frontier
	group    *errgroup.Group

	waitOnce sync.Once
	waitErr  error
}

// newStream wraps a running session.
func newStream(frontier *Frontier, group *errgroup.Group) *Stream {
	return &Stream{frontier: frontier, group: group}
}

// Poll returns the next buffered outcome without blocking.
func (s *Stream) Poll() (model.Outcome, PollState) {
	outcome, ready, done, _ := s.frontier.next()
	switch {
	case ready:
		return outcome, PollReady
	case done:
		return model.Outcome{}, PollDone
	default:
		return model.Outcome{}, PollPending
	}
}

// Next blocks until an outcome is available or the crawl is done.
// It returns false once the crawl is done. Cancelling ctx stops the wait
// but not the crawl.
func (s *Stream) Next(ctx context.Context) (model.Outcome, bool, error) {
	for {
		outcome, ready, done, changed := s.frontier.next()
		if ready {
			return outcome, true, nil
		}
		if done {
			return model.Outcome{}, false, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return model.Outcome{}, false, ctx.Err()
		}
	}
}

// All returns an iterator over the remaining outcomes.
// Iteration ends when the crawl is done or ctx is cancelled; check ctx.Err()
// afterwards to tell the two apart.
func (s *Stream) All(ctx context.Context) iter.Seq[model.Outcome] {
	return func(yield func(model.Outcome) bool) {
		for {
			outcome, ok, err := s.Next(ctx)
			if err != nil || !ok {
				return
			}
			if !yield(outcome) {
				return
			}
		}
	}
}

// Wait blocks until every worker has exited. Workers exit on their own once
// the frontier is terminal.
func (s *Stream) Wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.group.Wait()
	})
	return s.waitErr
}

// Stats returns the session counters.
func (s *Stream) Stats() Stats {
	return s.frontier.Stats()
}
