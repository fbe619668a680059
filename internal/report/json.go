package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkcrawl/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing,
// e.g. failing a CI job when broken links are found.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for a single summary document.
type JSONWriter struct {
	baseWriter

	// version is recorded in the report wrapper.
	version string

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the linkcrawl version recorded in the report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    "dev",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document written by JSONWriter.
//
// Design decision: We wrap the summary rather than adding output-specific
// fields to model.Summary, which is also used by the other writers.
type JSONReport struct {
	// Version is the linkcrawl version that generated this report.
	Version string `json:"version"`

	// DurationMS is the crawl duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Succeeded is the number of accessible URLs.
	Succeeded int `json:"succeeded"`

	// Failed is the number of broken links of any kind.
	Failed int `json:"failed"`

	// Summary holds the per-kind counters and the broken links.
	Summary *model.Summary `json:"summary"`
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *model.Summary) (int, error) {
	wrapped := &JSONReport{
		Version:    w.version,
		DurationMS: summary.Duration().Milliseconds(),
		Succeeded:  summary.Succeeded(),
		Failed:     summary.Failed(),
		Summary:    summary,
	}

	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(wrapped, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(wrapped)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
