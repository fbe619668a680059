package report

import (
	"io"
	"time"

	"github.com/nao1215/linkcrawl/internal/model"
)

// Writer defines the interface for summary output.
// Implementations write the result of a crawl in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.Summary) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// durationPrecision is the rounding applied to crawl durations in reports.
const durationPrecision = time.Millisecond

// kindOrder is the order in which broken-link sections are reported,
// most actionable first.
var kindOrder = []model.Kind{
	model.KindBadStatus,
	model.KindMalformed,
	model.KindConnectionFailed,
	model.KindTimedOut,
}

// countOf returns the summary counter for kind.
func countOf(summary *model.Summary, kind model.Kind) int {
	switch kind {
	case model.KindAccessible:
		return summary.Accessible
	case model.KindBadStatus:
		return summary.BadStatus
	case model.KindConnectionFailed:
		return summary.ConnectionFailed
	case model.KindTimedOut:
		return summary.TimedOut
	case model.KindMalformed:
		return summary.Malformed
	default:
		return 0
	}
}
