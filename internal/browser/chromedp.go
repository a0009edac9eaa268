package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromePage drives a single tab of a chromedp-managed browser.
type ChromePage struct {
	ctx context.Context
}

// NewChromePage wraps a chromedp tab context as a Page.
func NewChromePage(tabCtx context.Context) *ChromePage {
	return &ChromePage{ctx: tabCtx}
}

// run executes chromedp actions on the tab, cancelling if the caller's
// context is done first.
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	tabCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *ChromePage) Location(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

func (p *ChromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := p.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		// Selector never showed up; not a transport failure.
		return false, nil
	}
	return false, fmt.Errorf("wait for %s: %w", selector, err)
}

func (p *ChromePage) Click(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *ChromePage) Type(ctx context.Context, text string) error {
	if err := p.run(ctx, chromedp.KeyEvent(text)); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

// namedKeys maps the key names used by automation flows to the control
// characters chromedp's keyboard layer understands.
var namedKeys = map[string]string{
	"Enter":     kb.Enter,
	"Escape":    kb.Escape,
	"Tab":       kb.Tab,
	"Backspace": kb.Backspace,
}

func (p *ChromePage) Press(ctx context.Context, key string) error {
	seq, ok := namedKeys[key]
	if !ok {
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := p.run(ctx, chromedp.KeyEvent(seq)); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

func (p *ChromePage) Evaluate(ctx context.Context, expression string, out any) error {
	if out == nil {
		var discard any
		out = &discard
	}

	action := chromedp.Evaluate(expression, out, func(params *runtime.EvaluateParams) *runtime.EvaluateParams {
		return params.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	})
	if err := p.run(ctx, action); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (p *ChromePage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (p *ChromePage) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitIdle polls document.readyState until the page reports complete or
// the timeout passes. Settling is best-effort: a page that never quiets
// down is not an error.
func (p *ChromePage) WaitIdle(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var state string
		if err := p.Evaluate(ctx, "document.readyState", &state); err != nil {
			return err
		}
		if state == "complete" {
			return p.Sleep(ctx, 250*time.Millisecond)
		}
		if time.Now().After(deadline) {
			return nil
		}
		if err := p.Sleep(ctx, 100*time.Millisecond); err != nil {
			return err
		}
	}
}
