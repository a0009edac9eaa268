// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FuncRoundTripper dispatches each request to a handler function.
type FuncRoundTripper struct {
	Handler func(*http.Request) (*http.Response, error)
}

func (f *FuncRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f.Handler(req)
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// FakePage is a scripted browser.Page double. Visibility, evaluation and
// navigation behavior are controlled through maps and optional hooks;
// every interaction is recorded for assertions.
type FakePage struct {
	URL string

	// Visible marks selectors WaitVisible should report as present.
	// VisibleFunc, when set, takes precedence and allows state-dependent
	// answers.
	Visible     map[string]bool
	VisibleFunc func(selector string) bool

	// EvalFunc handles Evaluate calls. Use SetResult to fill out.
	EvalFunc func(expression string, out any) error

	NavigateErr error
	ClickErrs   map[string]error

	Navigations []string
	Clicks      []string
	TypedText   []string
	PressedKeys []string
	Evaluated   []string
	Screenshots int
	Slept       time.Duration
}

// NewFakePage returns a FakePage with empty scripting maps.
func NewFakePage() *FakePage {
	return &FakePage{
		Visible:   make(map[string]bool),
		ClickErrs: make(map[string]error),
	}
}

// SetResult JSON-copies v into the out pointer of an Evaluate call.
func SetResult(out any, v any) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *FakePage) Navigate(ctx context.Context, url string) error {
	f.Navigations = append(f.Navigations, url)
	if f.NavigateErr != nil {
		return f.NavigateErr
	}
	f.URL = url
	return nil
}

func (f *FakePage) Location(ctx context.Context) (string, error) {
	return f.URL, nil
}

func (f *FakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	if f.VisibleFunc != nil {
		return f.VisibleFunc(selector), nil
	}
	return f.Visible[selector], nil
}

func (f *FakePage) Click(ctx context.Context, selector string) error {
	f.Clicks = append(f.Clicks, selector)
	if err := f.ClickErrs[selector]; err != nil {
		return err
	}
	return nil
}

func (f *FakePage) Type(ctx context.Context, text string) error {
	f.TypedText = append(f.TypedText, text)
	return nil
}

func (f *FakePage) Press(ctx context.Context, key string) error {
	f.PressedKeys = append(f.PressedKeys, key)
	return nil
}

func (f *FakePage) Evaluate(ctx context.Context, expression string, out any) error {
	f.Evaluated = append(f.Evaluated, expression)
	if f.EvalFunc != nil {
		return f.EvalFunc(expression, out)
	}
	return nil
}

func (f *FakePage) Screenshot(ctx context.Context) ([]byte, error) {
	f.Screenshots++
	return []byte("png"), nil
}

func (f *FakePage) Sleep(ctx context.Context, d time.Duration) error {
	f.Slept += d
	return nil
}

func (f *FakePage) WaitIdle(ctx context.Context, timeout time.Duration) error {
	return nil
}
