package report

import (
	"io"
	"net/http"
	"strconv"

	"github.com/nao1215/linkcrawl/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing, e.g. as a pull
// request comment.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides tables, mermaid charts and GitHub-flavored
// markdown alerts.
type MarkdownWriter struct {
	baseWriter

	// title formats kind names as section headers.
	title cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeBroken(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Link Check Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + summary.Seed + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(durationPrecision).String()},
			{"URLs Checked", strconv.Itoa(summary.Total())},
			{"Status", statusText(summary)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell of the header table.
func statusText(summary *model.Summary) string {
	if summary.HasBroken() {
		return "❌ Broken links found"
	}
	return "✅ All links OK"
}

// writeSummary writes the per-kind counters, a chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"🟢 Accessible", strconv.Itoa(summary.Accessible)},
			{"🔴 Bad Status", strconv.Itoa(summary.BadStatus)},
			{"🟠 Malformed", strconv.Itoa(summary.Malformed)},
			{"🟡 Connection Failed", strconv.Itoa(summary.ConnectionFailed)},
			{"🔵 Timed Out", strconv.Itoa(summary.TimedOut)},
			{"**Total**", "**" + strconv.Itoa(summary.Total()) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total() > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Check Results"),
		piechart.WithShowData(true),
	)

	kinds := append([]model.Kind{model.KindAccessible}, kindOrder...)
	for _, kind := range kinds {
		if n := countOf(summary, kind); n > 0 {
			chart.LabelAndIntValue(w.title.String(kind.String()), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most serious failure kind.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.BadStatus+summary.Malformed > 0:
		md.Cautionf(
			"%d broken link(s) found. Pages answered with an error status or links could not be parsed.",
			summary.BadStatus+summary.Malformed,
		)
	case summary.ConnectionFailed+summary.TimedOut > 0:
		md.Warningf(
			"%d link(s) could not be reached. The hosts may be down or slow.",
			summary.ConnectionFailed+summary.TimedOut,
		)
	default:
		md.Tip("No broken links found.")
	}
	md.PlainText("")
}

// writeBroken writes one table of broken links per failure kind.
func (w *MarkdownWriter) writeBroken(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Broken Links")
	md.PlainText("")

	if !summary.HasBroken() {
		md.PlainText("No broken links detected.")
		md.PlainText("")
		return
	}

	for _, kind := range kindOrder {
		outcomes := summary.BrokenByKind(kind)
		if len(outcomes) == 0 {
			continue
		}

		md.H3(w.title.String(kind.String()))
		md.PlainText("")
		w.writeBrokenTable(md, outcomes)
	}
}

// writeBrokenTable writes a table of broken links with their referrers.
func (w *MarkdownWriter) writeBrokenTable(md *markdown.Markdown, outcomes []model.Outcome) {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		status := "-"
		if o.StatusCode != 0 {
			status = strconv.Itoa(o.StatusCode) + " " + http.StatusText(o.StatusCode)
		}
		referrer := o.Referrer
		if referrer == "" {
			referrer = "(seed)"
		}

		rows[i] = []string{
			"`" + truncateString(o.URL, 80) + "`",
			status,
			truncateString(referrer, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Found On"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, o := range outcomes {
		if o.Reason != "" {
			md.Details(truncateString(o.URL, 80), o.Reason)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [linkcrawl](https://github.com/nao1215/linkcrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
