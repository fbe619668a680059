package model

import (
	"fmt"
	"net/http"
)

// Kind classifies the result of checking a single URL.
//
// Every kind is terminal and local to one URL. The crawler makes exactly one
// attempt per discovered URL, so there is no "retrying" state.
type Kind int

const (
	// KindAccessible means the URL answered with a 2xx status.
	KindAccessible Kind = iota

	// KindBadStatus means the URL answered with a non-2xx status.
	// Redirects are reported here as well; they are never followed.
	KindBadStatus

	// KindConnectionFailed means the host could not be reached at all
	// (DNS failure, refused connection, TLS error, reset, ...).
	KindConnectionFailed

	// KindTimedOut means no result was available before the deadline.
	KindTimedOut

	// KindMalformed means the raw link text could not be resolved to an
	// absolute http(s) URL. No network request is made for it.
	KindMalformed
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAccessible:
		return "accessible"
	case KindBadStatus:
		return "bad status"
	case KindConnectionFailed:
		return "connection failed"
	case KindTimedOut:
		return "timed out"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so that JSON reports contain
// the kind name rather than its ordinal.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that JSON reports can
// be read back.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind := KindAccessible; kind <= KindMalformed; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", text)
}

// Outcome is the immutable classification of one URL check.
//
// Design decision: We use a single struct with a Kind tag rather than one
// type per outcome because:
//  1. Outcomes travel through one buffer and one stream
//  2. Reports need uniform access to URL and referrer
//  3. A switch on Kind reads the same as a type switch, without allocations
type Outcome struct {
	// Kind is the classification of the check.
	Kind Kind `json:"kind"`

	// URL is the canonical URL that was checked.
	// For KindMalformed it is the original link text, preserved verbatim.
	URL string `json:"url"`

	// StatusCode is the HTTP status for KindAccessible and KindBadStatus.
	// Zero for every other kind.
	StatusCode int `json:"status_code,omitempty"`

	// Referrer is the page on which the link was found.
	// Empty for the seed URL.
	Referrer string `json:"referrer,omitempty"`

	// Reason carries the transport or parse error text, if any.
	Reason string `json:"reason,omitempty"`
}

// Accessible creates an outcome for a URL that answered with a 2xx status.
func Accessible(url, referrer string, status int) Outcome {
	return Outcome{Kind: KindAccessible, URL: url, Referrer: referrer, StatusCode: status}
}

// BadStatus creates an outcome for a URL that answered with a non-2xx status.
func BadStatus(url, referrer string, status int) Outcome {
	return Outcome{Kind: KindBadStatus, URL: url, Referrer: referrer, StatusCode: status}
}

// ConnectionFailed creates an outcome for a URL whose host could not be reached.
func ConnectionFailed(url, referrer string, err error) Outcome {
	o := Outcome{Kind: KindConnectionFailed, URL: url, Referrer: referrer}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// TimedOut creates an outcome for a URL that did not answer before the deadline.
func TimedOut(url, referrer string) Outcome {
	return Outcome{Kind: KindTimedOut, URL: url, Referrer: referrer}
}

// Malformed creates an outcome for link text that could not be resolved.
// raw must be the text exactly as it appeared in the document.
func Malformed(raw, referrer string, err error) Outcome {
	o := Outcome{Kind: KindMalformed, URL: raw, Referrer: referrer}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// OK reports whether the outcome counts as a success.
func (o Outcome) OK() bool {
	return o.Kind == KindAccessible
}

// String renders the outcome as a single report line, for example
// "✔ http://example.com/" or "✘ http://example.com/a (404 Not Found)".
func (o Outcome) String() string {
	switch o.Kind {
	case KindAccessible:
		return "✔ " + o.URL
	case KindBadStatus:
		return fmt.Sprintf("✘ %s (%d %s)", o.URL, o.StatusCode, http.StatusText(o.StatusCode))
	default:
		return fmt.Sprintf("✘ %s (%s)", o.URL, o.Kind)
	}
}
