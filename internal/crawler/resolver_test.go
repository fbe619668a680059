package crawler

import (
	"errors"
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

func TestResolve(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "http://example.com/docs/index.html")

	t.Run("resolves links", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw  string
			want string
		}{
			{"/a", "http://example.com/a"},
			{"page.html", "http://example.com/docs/page.html"},
			{"../up", "http://example.com/up"},
			{"?q=1", "http://example.com/docs/index.html?q=1"},
			{"/a#section", "http://example.com/a"},
			{"  /trimmed  ", "http://example.com/trimmed"},
			{"//other.example/x", "http://other.example/x"},
			{"HTTPS://Other.Example", "https://other.example/"},
		}

		for _, tt := range tests {
			got, err := Resolve(base, tt.raw)
			if err != nil {
				t.Errorf("Resolve(%q) unexpected error: %v", tt.raw, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got.String(), tt.want)
			}
		}
	})

	t.Run("reports malformed links verbatim", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw    string
			target error
		}{
			{"ht!tp://bad", nil},
			{"http://[::1", nil},
			{"ftp://files.example/x", ErrUnsupportedScheme},
			{"http:///nohost", ErrMissingHost},
		}

		for _, tt := range tests {
			_, err := Resolve(base, tt.raw)
			if err == nil {
				t.Errorf("Resolve(%q) expected error", tt.raw)
				continue
			}

			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Errorf("Resolve(%q) error %T is not *MalformedError", tt.raw, err)
				continue
			}
			if malformed.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", malformed.Raw, tt.raw)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Resolve(%q) error %v, want %v", tt.raw, err, tt.target)
			}
		}
	})
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"http://example.com", "http://example.com/"},
		{"HTTP://EXAMPLE.COM/Path", "http://example.com/Path"},
		{"http://example.com/page#section", "http://example.com/page"},
		{"http://example.com:8080/a?b=c", "http://example.com:8080/a?b=c"},
	}

	for _, tt := range tests {
		u := mustParse(t, tt.input)
		before := u.String()
		got := Canonicalize(u).String()
		if got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if u.String() != before {
			t.Errorf("Canonicalize(%q) modified its argument", tt.input)
		}
	}
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	t.Run("valid seeds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input string
			want  string
		}{
			{"http://example.com", "http://example.com/"},
			{"https://example.com/docs/", "https://example.com/docs/"},
			{"example.com", "http://example.com/"},
			{"  http://Example.com/#top  ", "http://example.com/"},
			{"http://127.0.0.1:8080", "http://127.0.0.1:8080/"},
			{"localhost:8080/", "http://localhost:8080/"},
			{"localhost:8080/docs", "http://localhost:8080/docs"},
			{"127.0.0.1:3000", "http://127.0.0.1:3000/"},
			{"[::1]:8080", "http://[::1]:8080/"},
		}

		for _, tt := range tests {
			got, err := ParseSeed(tt.input)
			if err != nil {
				t.Errorf("ParseSeed(%q) unexpected error: %v", tt.input, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("ParseSeed(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		}
	})

	t.Run("fatal seeds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input string
			want  error
		}{
			{"", ErrInvalidSeed},
			{"http://[::1", ErrInvalidSeed},
			{"ftp://example.com", ErrInvalidSeed},
			{"mailto:user@example.com", ErrInvalidSeed},
			{"http:///path-only", ErrNoDomain},
			{"http:example.com", ErrNoPath},
		}

		for _, tt := range tests {
			_, err := ParseSeed(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseSeed(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		}
	})
}
