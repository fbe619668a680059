// Package crawler implements the concurrent link-checking crawl engine.
//
// # Architecture
//
// A crawl is a session owned by a Spider. The session consists of:
//
//   - Frontier: FIFO work queue, visited set, active-work counter and
//     outcome buffer, all guarded by one mutex
//   - Workers: a fixed pool that claims units, checks them and expands
//     same-domain pages into new units
//   - Checker: a single URL check raced against a fixed deadline
//   - Stream: the consumer handle that yields outcomes and signals the end
//
// # Termination
//
// The crawl is complete when the queue is empty and no claimed unit is still
// being processed. Both are read under the frontier lock. A worker offers
// every link it found and buffers its outcome before it releases its claim,
// so "complete" can never be observed while more work or more outcomes are
// about to appear.
//
// # Collaborators
//
//   - ExtractLinks: HTML document to raw link strings (golang.org/x/net/html)
//   - Resolve: raw link to canonical absolute URL, or *MalformedError
//   - Fetcher: a single GET returning status, content type and body
//
// # Usage
//
//	spider := crawler.NewSpider(crawler.NewHTTPFetcher(client), crawler.WithWorkers(10))
//	stream, err := spider.Crawl("http://example.com/")
//	if err != nil {
//		return err
//	}
//	for outcome := range stream.All(ctx) {
//		fmt.Println(outcome)
//	}
//
// Per-URL failures (bad status, connection failure, timeout, malformed link)
// are data on the stream, never errors.
package crawler
