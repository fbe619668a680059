package report

import (
	"fmt"
	"io"

	"github.com/nao1215/linkcrawl/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Progress prints outcomes as they arrive, followed by a running tally
// that is redrawn in place with a carriage return.
//
// Output looks like:
//
//	✘ http://example.com/missing (404 Not Found)
//	Succeeded: 1,204 Failed: 3
//
// Progress is not safe for concurrent use; it is driven by the single
// goroutine that consumes the crawl stream.
type Progress struct {
	out     io.Writer
	printer *message.Printer

	// verbose also prints accessible URLs.
	verbose bool

	succeeded int
	failed    int
}

// NewProgress creates a Progress writing to out.
func NewProgress(out io.Writer, verbose bool) *Progress {
	return &Progress{
		out:     out,
		printer: message.NewPrinter(language.English),
		verbose: verbose,
	}
}

// Record prints one outcome and redraws the tally.
// Accessible outcomes are only printed in verbose mode.
func (p *Progress) Record(o model.Outcome) error {
	if o.OK() {
		p.succeeded++
	} else {
		p.failed++
	}

	if !o.OK() || p.verbose {
		if _, err := fmt.Fprintln(p.out, o.String()); err != nil {
			return err
		}
	}

	_, err := p.printer.Fprintf(p.out, "Succeeded: %d Failed: %d\r", p.succeeded, p.failed)
	return err
}

// Finish moves past the tally line so that later output starts on a fresh line.
func (p *Progress) Finish() error {
	_, err := fmt.Fprintln(p.out)
	return err
}

// Succeeded returns the number of accessible outcomes recorded.
func (p *Progress) Succeeded() int {
	return p.succeeded
}

// Failed returns the number of failing outcomes recorded.
func (p *Progress) Failed() int {
	return p.failed
}
