package sheets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/carrotlabs/zshare/internal/shared"
	tu "github.com/carrotlabs/zshare/internal/testing"
)

func TestParseSheetURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		id      string
		gid     string
		wantErr bool
	}{
		{
			name: "edit url with gid fragment",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=42",
			id:   "1AbC-dEf_123",
			gid:  "42",
		},
		{
			name: "gid query parameter",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/export?gid=7",
			id:   "1AbC-dEf_123",
			gid:  "7",
		},
		{
			name: "bare document url defaults gid",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123",
			id:   "1AbC-dEf_123",
			gid:  "0",
		},
		{
			name: "fragment with trailing range",
			url:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=9&range=A1",
			id:   "1AbC-dEf_123",
			gid:  "9",
		},
		{
			name:    "not a sheets url",
			url:     "https://example.com/spreadsheet",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := ParseSheetURL(tc.url)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src.SpreadsheetID != tc.id || src.GID != tc.gid {
				t.Errorf("got id=%q gid=%q, want id=%q gid=%q", src.SpreadsheetID, src.GID, tc.id, tc.gid)
			}
		})
	}
}

func TestExportURL(t *testing.T) {
	src := Source{SpreadsheetID: "abc123", GID: "5"}
	want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=5"
	if got := src.ExportURL(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	src.GID = ""
	if got := src.ExportURL(); !strings.HasSuffix(got, "gid=0") {
		t.Errorf("empty gid should default to 0, got %q", got)
	}
}

func csvResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func testLoader(rt http.RoundTripper) *Loader {
	return NewLoader(&http.Client{Transport: rt}, shared.NewLogger(io.Discard))
}

func TestLoad(t *testing.T) {
	src := Source{SpreadsheetID: "abc", GID: "0", Column: "email"}

	t.Run("fetch failure", func(t *testing.T) {
		loader := testLoader(tu.NewMockRoundTripper(nil, errors.New("connection refused")))
		_, err := loader.Load(context.Background(), src)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		loader := testLoader(tu.NewMockRoundTripper(csvResponse(http.StatusForbidden, "denied"), nil))
		_, err := loader.Load(context.Background(), src)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		loader := testLoader(tu.NewMockRoundTripper(csvResponse(http.StatusOK, "  \n"), nil))
		_, err := loader.Load(context.Background(), src)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("requests the export endpoint with a browser agent", func(t *testing.T) {
		var gotURL, gotAgent string
		loader := testLoader(&tu.FuncRoundTripper{Handler: func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			gotAgent = req.Header.Get("User-Agent")
			return csvResponse(http.StatusOK, "email\na@x.com\n"), nil
		}})

		recipients, err := loader.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recipients) != 1 || recipients[0] != "a@x.com" {
			t.Errorf("unexpected recipients: %v", recipients)
		}
		if gotURL != src.ExportURL() {
			t.Errorf("requested %q, want %q", gotURL, src.ExportURL())
		}
		if !strings.Contains(gotAgent, "Mozilla") {
			t.Errorf("expected browser-like agent, got %q", gotAgent)
		}
	})

	t.Run("no valid recipients is not an error", func(t *testing.T) {
		body := "email\nnot-an-email\n\n"
		loader := testLoader(tu.NewMockRoundTripper(csvResponse(http.StatusOK, body), nil))
		recipients, err := loader.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recipients) != 0 {
			t.Errorf("expected empty list, got %v", recipients)
		}
	})
}

func TestExtract(t *testing.T) {
	loader := NewLoader(nil, shared.NewLogger(io.Discard))

	t.Run("normalizes, filters, and dedupes in order", func(t *testing.T) {
		body := "Name,Email\nAlice,A@x.com\nAl,a@x.com\nBob,bad\nBea,B@x.com\n"
		recipients, err := loader.extract(body, "email")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"a@x.com", "b@x.com"}
		if len(recipients) != len(want) {
			t.Fatalf("got %v, want %v", recipients, want)
		}
		for i := range want {
			if recipients[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, recipients[i], want[i])
			}
		}
	})

	t.Run("case-insensitive header match", func(t *testing.T) {
		recipients, err := loader.extract("EMAIL\nc@x.com\n", "email")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recipients) != 1 {
			t.Errorf("expected one recipient, got %v", recipients)
		}
	})

	t.Run("missing column lists headers", func(t *testing.T) {
		_, err := loader.extract("name,address\nAlice,somewhere\n", "email")
		if !errors.Is(err, shared.ErrColumnNotFound) {
			t.Fatalf("expected ErrColumnNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "name, address") {
			t.Errorf("error should list available headers, got %q", err.Error())
		}
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		recipients, err := loader.extract("name,email\nonly-name\nBea,b@x.com\n", "email")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recipients) != 1 || recipients[0] != "b@x.com" {
			t.Errorf("unexpected recipients: %v", recipients)
		}
	})
}

func TestParseCSV(t *testing.T) {
	t.Run("quoted comma stays one field", func(t *testing.T) {
		rows := parseCSV("name,email\n\"Smith, John\",john@x.com\n")
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if len(rows[1]) != 2 || rows[1][0] != "Smith, John" || rows[1][1] != "john@x.com" {
			t.Errorf("unexpected row: %v", rows[1])
		}
	})

	t.Run("doubled quote is a literal", func(t *testing.T) {
		rows := parseCSV("note\n\"say \"\"hi\"\"\"\n")
		if rows[1][0] != `say "hi"` {
			t.Errorf("got %q", rows[1][0])
		}
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		rows := parseCSV("email\r\n\r\na@x.com\r\n")
		if len(rows) != 2 || rows[1][0] != "a@x.com" {
			t.Errorf("unexpected rows: %v", rows)
		}
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		rows := parseCSV("email\n  a@x.com  \n")
		if rows[1][0] != "a@x.com" {
			t.Errorf("got %q", rows[1][0])
		}
	})
}
