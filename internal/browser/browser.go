// Package browser wraps chromedp behind a small page-driver interface so
// automation flows can run against a live Chrome session or a test double.
package browser

import (
	"context"
	"time"
)

// Page is the surface the automation flows drive. Implementations wrap a
// live browser tab (see ChromePage) or script responses for tests.
//
// Wait methods resolve (false, nil) on timeout rather than erroring:
// callers own the fallback decision. Only transport-level failures
// (lost session, cancelled context) produce errors.
type Page interface {
	// Navigate loads the URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Location returns the tab's current URL.
	Location(ctx context.Context) (string, error)

	// WaitVisible waits up to timeout for the selector to be visible.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error)

	// Click clicks the first node matching the selector.
	Click(ctx context.Context, selector string) error

	// Type sends the text to the currently focused element.
	Type(ctx context.Context, text string) error

	// Press sends a named key (e.g. "Enter", "Escape") to the focused element.
	Press(ctx context.Context, key string) error

	// Evaluate runs the JS expression and JSON-decodes the result into out.
	// Promises are awaited. A nil out discards the result.
	Evaluate(ctx context.Context, expression string, out any) error

	// Screenshot captures the viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Sleep pauses for the duration, honoring context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// WaitIdle waits for the page to settle after navigation or mutation.
	WaitIdle(ctx context.Context, timeout time.Duration) error
}
