package browser_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/shared"
	tu "github.com/carrotlabs/zshare/internal/testing"
)

func TestFirst(t *testing.T) {
	strategies := []browser.Strategy{
		{Name: "testid", Selector: `[data-testid="submit"]`},
		{Name: "type", Selector: `button[type="submit"]`},
	}

	t.Run("picks the first visible candidate", func(t *testing.T) {
		page := tu.NewFakePage()
		page.Visible[`button[type="submit"]`] = true

		s, found, err := browser.First(context.Background(), page, strategies, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found || s.Name != "type" {
			t.Errorf("expected type strategy, got %q found=%v", s.Name, found)
		}
	})

	t.Run("prefers earlier strategies", func(t *testing.T) {
		page := tu.NewFakePage()
		page.Visible[`[data-testid="submit"]`] = true
		page.Visible[`button[type="submit"]`] = true

		s, found, _ := browser.First(context.Background(), page, strategies, time.Second)
		if !found || s.Name != "testid" {
			t.Errorf("expected testid strategy to win, got %q", s.Name)
		}
	})

	t.Run("nothing visible", func(t *testing.T) {
		page := tu.NewFakePage()
		_, found, err := browser.First(context.Background(), page, strategies, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found {
			t.Error("expected no match")
		}
	})
}

func TestClickFirst(t *testing.T) {
	strategies := []browser.Strategy{
		{Name: "primary", Selector: "#a"},
		{Name: "fallback", Selector: "#b"},
	}

	t.Run("clicks the winning selector", func(t *testing.T) {
		page := tu.NewFakePage()
		page.Visible["#b"] = true

		s, clicked, err := browser.ClickFirst(context.Background(), page, strategies, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !clicked || s.Name != "fallback" {
			t.Errorf("expected fallback clicked, got %q clicked=%v", s.Name, clicked)
		}
		if len(page.Clicks) != 1 || page.Clicks[0] != "#b" {
			t.Errorf("unexpected clicks: %v", page.Clicks)
		}
	})

	t.Run("click failure surfaces with strategy name", func(t *testing.T) {
		page := tu.NewFakePage()
		page.Visible["#a"] = true
		page.ClickErrs = map[string]error{"#a": errors.New("detached node")}

		_, clicked, err := browser.ClickFirst(context.Background(), page, strategies, time.Second)
		if clicked || err == nil {
			t.Fatalf("expected click error, got clicked=%v err=%v", clicked, err)
		}
		if !strings.Contains(err.Error(), "primary") {
			t.Errorf("error should name the strategy, got %q", err.Error())
		}
	})

	t.Run("no match means no click", func(t *testing.T) {
		page := tu.NewFakePage()
		_, clicked, err := browser.ClickFirst(context.Background(), page, strategies, time.Second)
		if err != nil || clicked {
			t.Errorf("expected quiet miss, got clicked=%v err=%v", clicked, err)
		}
		if len(page.Clicks) != 0 {
			t.Errorf("unexpected clicks: %v", page.Clicks)
		}
	})
}

func TestDirScreenshotter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	shots, err := browser.NewDirScreenshotter(dir, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := tu.NewFakePage()
	path, err := shots.Capture(context.Background(), page, "share-dialog-missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "share-dialog-missing-") {
		t.Errorf("unexpected filename: %s", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected png extension: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("screenshot file missing: %v", err)
	}
}

func TestNopScreenshotter(t *testing.T) {
	path, err := browser.NopScreenshotter{}.Capture(context.Background(), tu.NewFakePage(), "anything")
	if err != nil || path != "" {
		t.Errorf("expected quiet no-op, got %q %v", path, err)
	}
}

func TestNewSessionRemote(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := browser.NewSession(context.Background(), browser.SessionOpts{Remote: true})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("session api rejection", func(t *testing.T) {
		var gotKey, gotBody string
		client := &http.Client{Transport: &tu.FuncRoundTripper{Handler: func(req *http.Request) (*http.Response, error) {
			gotKey = req.Header.Get("X-BB-API-Key")
			body, _ := io.ReadAll(req.Body)
			gotBody = string(body)
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(strings.NewReader(`{"error":"invalid key"}`)),
				Header:     make(http.Header),
			}, nil
		}}}

		_, err := browser.NewSession(context.Background(), browser.SessionOpts{
			Remote:     true,
			APIKey:     "bb-key",
			ProjectID:  "proj-1",
			HTTPClient: client,
		})
		if !errors.Is(err, shared.ErrSessionCreate) {
			t.Fatalf("expected ErrSessionCreate, got %v", err)
		}
		if gotKey != "bb-key" {
			t.Errorf("expected api key header, got %q", gotKey)
		}
		if !strings.Contains(gotBody, `"projectId":"proj-1"`) {
			t.Errorf("expected projectId in payload, got %s", gotBody)
		}
	})

	t.Run("response without connect url", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader(`{"id":"sess-1"}`)),
			Header:     make(http.Header),
		}, nil)}

		_, err := browser.NewSession(context.Background(), browser.SessionOpts{
			Remote:     true,
			APIKey:     "bb-key",
			ProjectID:  "proj-1",
			HTTPClient: client,
		})
		if !errors.Is(err, shared.ErrSessionCreate) {
			t.Errorf("expected ErrSessionCreate, got %v", err)
		}
	})
}
