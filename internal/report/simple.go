package report

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nao1215/linkcrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display and plain-text files.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and is easy to pipe to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether kinds with no broken links are shown.
	showEmpty bool

	// verbose adds the failure reason to each broken link.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSummary(&sb, summary)
	w.writeBroken(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeRule writes a horizontal rule of 70 characters.
func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, 70))
	sb.WriteString("\n")
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	sb.WriteString("                         LINK CHECK REPORT\n")
	writeRule(sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "Seed:           %s\n", summary.Seed)
	fmt.Fprintf(sb, "Started:        %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:       %s\n", summary.Duration().Round(durationPrecision))
	fmt.Fprintf(sb, "URLs Checked:   %d\n", summary.Total())

	if summary.HasBroken() {
		sb.WriteString("Status:         BROKEN LINKS FOUND\n")
	} else {
		sb.WriteString("Status:         OK\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the per-kind counters.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *model.Summary) {
	writeRule(sb, "-")
	sb.WriteString("SUMMARY\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  ACCESSIBLE:        %d\n", summary.Accessible)
	fmt.Fprintf(sb, "  BAD STATUS:        %d\n", summary.BadStatus)
	fmt.Fprintf(sb, "  MALFORMED:         %d\n", summary.Malformed)
	fmt.Fprintf(sb, "  CONNECTION FAILED: %d\n", summary.ConnectionFailed)
	fmt.Fprintf(sb, "  TIMED OUT:         %d\n", summary.TimedOut)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  SUCCEEDED: %d  FAILED: %d\n", summary.Succeeded(), summary.Failed())
	sb.WriteString("\n")
}

// writeBroken writes the broken links grouped by kind.
func (w *SimpleWriter) writeBroken(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasBroken() && !w.showEmpty {
		return
	}

	writeRule(sb, "-")
	sb.WriteString("BROKEN LINKS\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	for _, kind := range kindOrder {
		outcomes := summary.BrokenByKind(kind)
		if len(outcomes) == 0 && !w.showEmpty {
			continue
		}

		fmt.Fprintf(sb, "[%s] %s\n", indicator(kind), strings.ToUpper(kind.String()))
		if len(outcomes) == 0 {
			sb.WriteString("  None\n\n")
			continue
		}

		for _, o := range outcomes {
			fmt.Fprintf(sb, "  * %s\n", o.URL)
			if o.StatusCode != 0 {
				fmt.Fprintf(sb, "    Status: %d %s\n", o.StatusCode, http.StatusText(o.StatusCode))
			}
			if o.Referrer != "" {
				fmt.Fprintf(sb, "    Found on: %s\n", o.Referrer)
			}
			if w.verbose && o.Reason != "" {
				fmt.Fprintf(sb, "    Reason: %s\n", o.Reason)
			}
		}
		sb.WriteString("\n")
	}
}

// indicator returns a visual indicator for a failure kind.
func indicator(kind model.Kind) string {
	switch kind {
	case model.KindBadStatus:
		return "!!"
	case model.KindMalformed:
		return "!"
	case model.KindConnectionFailed:
		return "x"
	case model.KindTimedOut:
		return "~"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	writeRule(sb, "=")
	sb.WriteString("Report generated by linkcrawl\n")
	sb.WriteString("https://github.com/nao1215/linkcrawl\n")
	writeRule(sb, "=")
}
