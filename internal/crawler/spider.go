package crawler

import (
	"bytes"
	"log/slog"
	"net/url"
	"time"

	"github.com/nao1215/linkcrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default size of the worker pool.
const DefaultWorkers = 10

// Spider crawls a website and checks every link it can discover on the
// seed's domain.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher performs the raw GET requests.
	fetcher Fetcher

	// workers is the number of parallel workers.
	workers int

	// timeout is the deadline for a single URL check.
	timeout time.Duration

	// scope decides which same-domain URLs are enqueued.
	scope scope

	// logger receives debug output about individual checks.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithWorkers sets the worker pool size. Values <= 0 are ignored.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeout sets the deadline for a single URL check. Values <= 0 are ignored.
func WithTimeout(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
// Only same-domain links are filtered.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.scope.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only same-domain links matching at least one pattern are crawled.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.scope.followPatterns = patterns
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider that fetches through fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher: fetcher,
		workers: DefaultWorkers,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl validates the seed, starts the worker pool and returns the stream
// of outcomes. The returned error is always one of the seed errors; once the
// crawl has started, every failure is reported as an outcome.
//
// There is no way to stop a running crawl: it runs until nothing is queued
// and no worker is active.
func (s *Spider) Crawl(seed string) (*Stream, error) {
	start, err := ParseSeed(seed)
	if err != nil {
		return nil, err
	}

	sess := &session{
		spider:   s,
		domain:   start.Host,
		frontier: NewFrontier(s.workers),
		checker:  NewChecker(s.fetcher, s.timeout),
	}
	sess.frontier.Offer(start, "")

	s.logger.Debug("starting crawl",
		"seed", start.String(),
		"domain", sess.domain,
		"workers", s.workers,
		"timeout", s.timeout,
	)

	var g errgroup.Group
	for id := range s.workers {
		g.Go(func() error {
			sess.work(id)
			return nil
		})
	}

	return newStream(sess.frontier, &g), nil
}

// session holds the state shared by the workers of one crawl.
type session struct {
	spider   *Spider
	domain   string
	frontier *Frontier
	checker  *Checker
}

// work is the worker loop: Idle -> Claimed -> Completed -> Idle, until the
// frontier is terminal.
func (sess *session) work(id int) {
	logger := sess.spider.logger.With("worker", id)

	for {
		unit, ok := sess.frontier.Claim()
		if !ok {
			logger.Debug("worker exiting")
			return
		}

		outcome := sess.process(unit, logger)
		sess.frontier.Complete(outcome)
	}
}

// process checks one claimed unit and, for accessible same-domain HTML
// pages, offers every link found on it. Cross-domain URLs are checked but
// never expanded.
func (sess *session) process(unit Unit, logger *slog.Logger) model.Outcome {
	internal := sameDomain(unit.URL, sess.domain)

	result := sess.checker.Check(unit.URL, unit.Referrer, internal)

	logger.Debug("checked url",
		"url", unit.Key,
		"kind", result.Outcome.Kind.String(),
		"status", result.Outcome.StatusCode,
	)

	if internal && result.Outcome.OK() && result.Response != nil && isHTML(result.Response.ContentType) {
		sess.expand(unit, result.Response.Body, logger)
	}

	return result.Outcome
}

// expand extracts links from body, publishes unresolvable ones as Malformed
// and offers the rest to the frontier.
func (sess *session) expand(unit Unit, body []byte, logger *slog.Logger) {
	links, err := ExtractLinks(bytes.NewReader(body))
	if err != nil {
		logger.Debug("failed to parse page", "url", unit.Key, "error", err)
		return
	}

	for _, raw := range links {
		resolved, err := Resolve(unit.URL, raw)
		if err != nil {
			sess.frontier.Publish(model.Malformed(raw, unit.Key, err))
			continue
		}

		if sameDomain(resolved, sess.domain) && !sess.spider.scope.allows(resolved) {
			continue
		}

		sess.frontier.Offer(resolved, unit.Key)
	}
}

// scope holds the ignore/follow path patterns of a crawl.
type scope struct {
	ignorePatterns []string
	followPatterns []string
}

// allows checks if a URL should be crawled based on ignore/follow patterns.
//
// Logic:
//  1. If URL matches any ignorePattern, skip it (return false)
//  2. If followPatterns is set and URL matches none, skip it (return false)
//  3. Otherwise, crawl it (return true)
func (sc scope) allows(u *url.URL) bool {
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range sc.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(sc.followPatterns) > 0 {
		for _, pattern := range sc.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}
