package model

import (
	"sort"
	"time"
)

// Summary aggregates the outcomes of one crawl session.
// It is built incrementally by Add while the result stream is consumed and
// is the data source for every report writer.
type Summary struct {
	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// StartedAt is when the crawl started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the result stream signalled completion.
	FinishedAt time.Time `json:"finished_at"`

	// Accessible is the number of URLs that answered with a 2xx status.
	Accessible int `json:"accessible"`

	// BadStatus is the number of URLs that answered with a non-2xx status.
	BadStatus int `json:"bad_status"`

	// ConnectionFailed is the number of URLs whose host could not be reached.
	ConnectionFailed int `json:"connection_failed"`

	// TimedOut is the number of URLs that did not answer before the deadline.
	TimedOut int `json:"timed_out"`

	// Malformed is the number of link texts that could not be resolved.
	Malformed int `json:"malformed"`

	// Broken lists every non-accessible outcome.
	// Sorted by URL after Finish is called.
	Broken []Outcome `json:"broken"`
}

// NewSummary creates an empty summary for a crawl starting at seed.
func NewSummary(seed string) *Summary {
	return &Summary{
		Seed:      seed,
		StartedAt: time.Now(),
		Broken:    make([]Outcome, 0),
	}
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	switch o.Kind {
	case KindAccessible:
		s.Accessible++
		return
	case KindBadStatus:
		s.BadStatus++
	case KindConnectionFailed:
		s.ConnectionFailed++
	case KindTimedOut:
		s.TimedOut++
	case KindMalformed:
		s.Malformed++
	}
	s.Broken = append(s.Broken, o)
}

// Finish stamps the finish time and sorts the broken list so that reports
// are stable regardless of completion order.
func (s *Summary) Finish() {
	s.FinishedAt = time.Now()
	sort.SliceStable(s.Broken, func(i, j int) bool {
		if s.Broken[i].URL == s.Broken[j].URL {
			return s.Broken[i].Referrer < s.Broken[j].Referrer
		}
		return s.Broken[i].URL < s.Broken[j].URL
	})
}

// Succeeded returns the number of accessible URLs.
func (s *Summary) Succeeded() int {
	return s.Accessible
}

// Failed returns the number of outcomes of any failing kind.
func (s *Summary) Failed() int {
	return s.BadStatus + s.ConnectionFailed + s.TimedOut + s.Malformed
}

// Total returns the number of outcomes recorded.
func (s *Summary) Total() int {
	return s.Succeeded() + s.Failed()
}

// HasBroken reports whether any failing outcome was recorded.
func (s *Summary) HasBroken() bool {
	return s.Failed() > 0
}

// Duration returns how long the crawl took.
// Zero until Finish is called.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// BrokenByKind returns the broken outcomes of the given kind, in report order.
func (s *Summary) BrokenByKind(kind Kind) []Outcome {
	result := make([]Outcome, 0)
	for _, o := range s.Broken {
		if o.Kind == kind {
			result = append(result, o)
		}
	}
	return result
}
