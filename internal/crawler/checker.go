package crawler

import (
	"context"
	"net/url"
	"time"

	"github.com/nao1215/linkcrawl/internal/model"
)

// DefaultTimeout is the deadline for a single URL check.
const DefaultTimeout = 10 * time.Second

// CheckResult is the outcome of one check plus, for accessible pages whose
// body was requested, the response needed for link expansion.
type CheckResult struct {
	Outcome  model.Outcome
	Response *Response
}

// Checker checks a single URL within a fixed deadline.
type Checker struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewChecker creates a Checker. A non-positive timeout selects DefaultTimeout.
func NewChecker(fetcher Fetcher, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{fetcher: fetcher, timeout: timeout}
}

// Check fetches u and classifies the result. It always returns within the
// checker's deadline.
//
// The network request runs in its own goroutine and races the deadline
// timer. The request is not cancelled when the timer wins: it finishes in
// the background and its result lands in a one-slot channel nobody reads.
// The send never blocks, and the goroutine holds no engine state, so losing
// the race has no observable effect.
func (c *Checker) Check(u *url.URL, referrer string, readBody bool) CheckResult {
	target := u.String()
	done := make(chan CheckResult, 1)

	go func() {
		resp, err := c.fetcher.Fetch(context.Background(), target, readBody)
		select {
		case done <- classify(target, referrer, resp, err):
		default:
		}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case result := <-done:
		return result
	case <-timer.C:
		return CheckResult{Outcome: model.TimedOut(target, referrer)}
	}
}

// classify maps a fetch result to an outcome.
// Only 2xx counts as accessible; redirects are reported, not followed.
func classify(target, referrer string, resp *Response, err error) CheckResult {
	if err != nil {
		return CheckResult{Outcome: model.ConnectionFailed(target, referrer, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return CheckResult{
			Outcome:  model.Accessible(target, referrer, resp.StatusCode),
			Response: resp,
		}
	}

	return CheckResult{Outcome: model.BadStatus(target, referrer, resp.StatusCode)}
}
