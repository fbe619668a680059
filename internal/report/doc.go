// Package report provides crawl output: live progress and the final summary.
//
// Progress prints each broken link as soon as it is found, with a running
// succeeded/failed tally. After the crawl, a Writer renders the
// model.Summary in one of three formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables, alerts and a pie chart
//
// Design decision: We separate report writing from report data structures
// (which are in the model package). This allows adding new output formats
// without modifying the core data structures.
package report
