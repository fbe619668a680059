// Package main provides the entry point for the linkcrawl CLI.
//
// linkcrawl crawls a website starting from a seed URL, follows every link
// it can discover on the seed's domain, and reports which links are
// reachable and which are broken.
//
// Usage:
//
//	linkcrawl crawl <seed-url>
//	linkcrawl crawl --json -o report.json https://example.com/
//
// See --help for all available options.
package main

// main is the entry point for linkcrawl.
func main() {
	Execute()
}
