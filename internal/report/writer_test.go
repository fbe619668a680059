package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkcrawl/internal/model"
)

// createTestSummary creates a finished summary with one broken link of each kind.
func createTestSummary() *model.Summary {
	summary := model.NewSummary("http://example.com/")
	summary.Add(model.Accessible("http://example.com/", "", 200))
	summary.Add(model.Accessible("http://example.com/about", "http://example.com/", 200))
	summary.Add(model.BadStatus("http://example.com/missing", "http://example.com/about", 404))
	summary.Add(model.Malformed("ht!tp://bad", "http://example.com/", errors.New("first path segment in URL cannot contain colon")))
	summary.Add(model.ConnectionFailed("http://down.example/", "http://example.com/", errors.New("connection refused")))
	summary.Add(model.TimedOut("http://slow.example/", "http://example.com/about"))
	summary.Finish()
	return summary
}

// createCleanSummary creates a finished summary without broken links.
func createCleanSummary() *model.Summary {
	summary := model.NewSummary("http://example.com/")
	summary.Add(model.Accessible("http://example.com/", "", 200))
	summary.Finish()
	return summary
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"LINK CHECK REPORT",
			"Seed:           http://example.com/",
			"URLs Checked:   6",
			"BROKEN LINKS FOUND",
			"ACCESSIBLE:        2",
			"SUCCEEDED: 2  FAILED: 4",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes broken links with referrers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"[!!] BAD STATUS",
			"* http://example.com/missing",
			"Status: 404 Not Found",
			"Found on: http://example.com/about",
			"[!] MALFORMED",
			"* ht!tp://bad",
			"[x] CONNECTION FAILED",
			"[~] TIMED OUT",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "Reason:") {
			t.Error("reasons should only be shown in verbose mode")
		}
		if strings.Index(output, "BAD STATUS\n") > strings.Index(output, "TIMED OUT\n") {
			t.Error("expected bad status section before timed out section")
		}
	})

	t.Run("verbose shows reasons", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Reason: connection refused") {
			t.Error("expected connection failure reason in verbose output")
		}
	})

	t.Run("clean crawl omits broken section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "BROKEN LINKS\n") {
			t.Error("expected no broken links section")
		}
		if !strings.Contains(output, "Status:         OK") {
			t.Error("expected OK status")
		}
	})

	t.Run("show empty lists every kind", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "BROKEN LINKS\n") {
			t.Error("expected broken links section")
		}
		if strings.Count(output, "  None\n") != len(kindOrder) {
			t.Errorf("expected %d empty sections, got output:\n%s", len(kindOrder), output)
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createCleanSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("n = %d, buffer has %d bytes", n, buf.Len())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON with counts and broken links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Version   string `json:"version"`
			Succeeded int    `json:"succeeded"`
			Failed    int    `json:"failed"`
			Summary   struct {
				Seed      string `json:"seed"`
				BadStatus int    `json:"bad_status"`
				Broken    []struct {
					Kind     string `json:"kind"`
					URL      string `json:"url"`
					Referrer string `json:"referrer"`
				} `json:"broken"`
			} `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if decoded.Version != "v1.2.3" {
			t.Errorf("version = %q", decoded.Version)
		}
		if decoded.Succeeded != 2 || decoded.Failed != 4 {
			t.Errorf("succeeded = %d, failed = %d", decoded.Succeeded, decoded.Failed)
		}
		if decoded.Summary.Seed != "http://example.com/" || decoded.Summary.BadStatus != 1 {
			t.Errorf("unexpected summary: %+v", decoded.Summary)
		}
		if len(decoded.Summary.Broken) != 4 {
			t.Fatalf("expected 4 broken links, got %d", len(decoded.Summary.Broken))
		}
		kinds := make(map[string]bool)
		for _, b := range decoded.Summary.Broken {
			kinds[b.Kind] = true
		}
		for _, want := range []string{"bad status", "malformed", "connection failed", "timed out"} {
			if !kinds[want] {
				t.Errorf("expected a broken link of kind %q", want)
			}
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(output, "\n") {
			t.Error("expected single-line JSON")
		}
		if !strings.Contains(output, `"version":"dev"`) {
			t.Errorf("expected default version, got %s", output)
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"version\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n>\t\"version\"") {
			t.Errorf("expected prefixed tab indentation, got %s", buf.String())
		}
	})

	t.Run("duration is recorded", func(t *testing.T) {
		t.Parallel()

		summary := createCleanSummary()
		summary.FinishedAt = summary.StartedAt.Add(1500 * time.Millisecond)

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"duration_ms":1500`) {
			t.Errorf("expected duration in output, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables, chart and caution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero length")
		}

		output := buf.String()
		for _, want := range []string{
			"# Link Check Report",
			"`http://example.com/`",
			"## Summary",
			"```mermaid",
			"pie",
			"Bad Status",
			"[!CAUTION]",
			"## Broken Links",
			"### Bad Status",
			"### Connection Failed",
			"`http://example.com/missing`",
			"404 Not Found",
			"connection refused",
			"linkcrawl",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("unreachable hosts only produce a warning", func(t *testing.T) {
		t.Parallel()

		summary := model.NewSummary("http://example.com/")
		summary.Add(model.Accessible("http://example.com/", "", 200))
		summary.Add(model.TimedOut("http://slow.example/", "http://example.com/"))
		summary.Finish()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected warning alert")
		}
		if strings.Contains(output, "[!CAUTION]") {
			t.Error("did not expect caution alert")
		}
	})

	t.Run("clean crawl writes a tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if !strings.Contains(output, "No broken links detected.") {
			t.Error("expected no broken links message")
		}
	})
}

// TestCountOf tests the per-kind counter lookup.
func TestCountOf(t *testing.T) {
	t.Parallel()

	summary := createTestSummary()
	tests := []struct {
		kind model.Kind
		want int
	}{
		{model.KindAccessible, 2},
		{model.KindBadStatus, 1},
		{model.KindMalformed, 1},
		{model.KindConnectionFailed, 1},
		{model.KindTimedOut, 1},
		{model.Kind(99), 0},
	}

	for _, tt := range tests {
		if got := countOf(summary, tt.kind); got != tt.want {
			t.Errorf("countOf(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

// TestTruncateString tests the truncateString helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
