package zight

import (
	"context"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const dialogSelector = `[role="dialog"]`

var shareOpenStrategies = []browser.Strategy{
	{Name: "share-testid", Selector: `[data-testid="viewer-actions-share"]`},
}

var recipientInputStrategies = []browser.Strategy{
	{Name: "add-people-input", Selector: `input[placeholder*="Add People" i]`},
	{Name: "add-input", Selector: `input[placeholder*="Add" i]`},
	{Name: "editable-region", Selector: `[contenteditable="true"]`},
}

// ShareAttempt is the terminal outcome of one recipient within one batch.
type ShareAttempt struct {
	Email   string
	Sent    bool
	Message string
}

// classification captures the UI's post-submit signals.
type classification struct {
	Positive    bool   `json:"positive"`
	RateLimited bool   `json:"rateLimited"`
	ErrorText   string `json:"errorText"`
}

// ShareControllerOpts tunes pacing and classification delays.
type ShareControllerOpts struct {
	// EntryDelay paces recipient entry to absorb chip-creation latency.
	EntryDelay time.Duration
	// SettleDelay is waited after submit before classifying the outcome.
	SettleDelay time.Duration
}

// ShareController drives the share dialog through its per-batch states:
// closed, open, recipients entered, submitted, classified outcome.
type ShareController struct {
	page    browser.Page
	shots   browser.Screenshotter
	limiter *rate.Limiter
	settle  time.Duration
	input   string
	logger  *log.Logger
}

// NewShareController builds a controller over an open asset page.
func NewShareController(p browser.Page, shots browser.Screenshotter, opts ShareControllerOpts, logger *log.Logger) *ShareController {
	entry := opts.EntryDelay
	if entry <= 0 {
		entry = 150 * time.Millisecond
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = 3 * time.Second
	}
	return &ShareController{
		page:    p,
		shots:   shots,
		limiter: rate.NewLimiter(rate.Every(entry), 1),
		settle:  settle,
		logger:  logger,
	}
}

// Open dismisses overlays, clicks the share action and waits for the
// dialog with a usable recipient input.
func (c *ShareController) Open(ctx context.Context) error {
	if err := DismissOverlays(ctx, c.page); err != nil {
		return err
	}

	s, clicked, err := browser.ClickFirst(ctx, c.page, shareOpenStrategies, 8*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrShareSurface, err)
	}
	if clicked {
		c.logger.Debug("opened share dialog", "strategy", s.Name)
	} else {
		// The share action sometimes renders as a plain link or button
		// whose only stable feature is its label. Exact match only, so
		// labels like "Shared with" never swallow the click.
		textClicked, err := clickByText(ctx, c.page, `^share$`)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrShareSurface, err)
		}
		if !textClicked {
			c.captureFailure(ctx, "no-share-button")
			return fmt.Errorf("%w: no share control found", shared.ErrShareSurface)
		}
		c.logger.Debug("opened share dialog", "strategy", "share-text")
	}

	found, err := c.page.WaitVisible(ctx, dialogSelector, 15*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrShareSurface, err)
	}
	if !found {
		c.captureFailure(ctx, "no-share-dialog")
		return fmt.Errorf("%w: dialog never appeared", shared.ErrShareSurface)
	}

	input, found, err := browser.First(ctx, c.page, recipientInputStrategies, 5*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrShareSurface, err)
	}
	if !found {
		c.captureFailure(ctx, "no-add-people-input")
		return fmt.Errorf("%w: recipient input never appeared", shared.ErrShareSurface)
	}
	c.input = input.Selector
	c.logger.Debug("located recipient input", "strategy", input.Name)
	return nil
}

// EnterRecipients types each address and commits it with Enter, paced by
// the entry limiter so the dialog's client-side validation keeps up.
func (c *ShareController) EnterRecipients(ctx context.Context, emails []string) error {
	if c.input == "" {
		return fmt.Errorf("%w: dialog not open", shared.ErrShareSurface)
	}

	if err := c.page.Click(ctx, c.input); err != nil {
		return fmt.Errorf("%w: focusing recipient input: %v", shared.ErrShareSurface, err)
	}

	for _, email := range emails {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := c.page.Type(ctx, email); err != nil {
			return fmt.Errorf("%w: typing %s: %v", shared.ErrShareSurface, email, err)
		}
		if err := c.page.Press(ctx, "Enter"); err != nil {
			return fmt.Errorf("%w: committing %s: %v", shared.ErrShareSurface, email, err)
		}
	}

	return nil
}

// Submit clicks the dialog's send control: the stable test id first, then
// the button geometrically nearest to the right of the input, then the
// first button after the input in document order.
func (c *ShareController) Submit(ctx context.Context) error {
	found, err := c.page.WaitVisible(ctx, `[data-testid="submit"]`, 3*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSubmitControl, err)
	}
	if found {
		if err := c.page.Click(ctx, `[data-testid="submit"]`); err == nil {
			c.logger.Debug("submitted batch", "strategy", "submit-testid")
			return nil
		}
	}

	clicked, err := c.clickNearestButton(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSubmitControl, err)
	}
	if clicked {
		c.logger.Debug("submitted batch", "strategy", "nearest-button")
		return nil
	}

	clicked, err = c.clickFollowingButton(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSubmitControl, err)
	}
	if clicked {
		c.logger.Debug("submitted batch", "strategy", "following-button")
		return nil
	}

	c.captureFailure(ctx, "no-send-button")
	return fmt.Errorf("%w: no clickable send control", shared.ErrSubmitControl)
}

// clickNearestButton scans the dialog's buttons for the one on the same
// row as the recipient input and closest to its right edge.
func (c *ShareController) clickNearestButton(ctx context.Context) (bool, error) {
	expr := fmt.Sprintf(`(() => {
		const root = document.querySelector('[role="dialog"]') || document.body;
		const input = root.querySelector(%q);
		if (!input) return false;
		const ib = input.getBoundingClientRect();
		let best = null;
		let bestDx = Infinity;
		for (const b of root.querySelectorAll('button')) {
			const bb = b.getBoundingClientRect();
			if (!bb.width || !bb.height) continue;
			const sameRow = Math.abs((bb.y + bb.height / 2) - (ib.y + ib.height / 2)) < Math.max(ib.height, 28);
			const toRight = bb.x > ib.x + ib.width * 0.7;
			if (!sameRow || !toRight) continue;
			const dx = Math.abs(bb.x - (ib.x + ib.width));
			if (dx < bestDx) { best = b; bestDx = dx; }
		}
		if (!best) return false;
		best.click();
		return true;
	})()`, c.input)

	var clicked bool
	if err := c.page.Evaluate(ctx, expr, &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}

// clickFollowingButton clicks the first button after the input in
// document order.
func (c *ShareController) clickFollowingButton(ctx context.Context) (bool, error) {
	expr := fmt.Sprintf(`(() => {
		const root = document.querySelector('[role="dialog"]') || document.body;
		const input = root.querySelector(%q);
		if (!input) return false;
		const all = Array.from(root.querySelectorAll('*'));
		const after = all.slice(all.indexOf(input) + 1);
		const btn = after.find((el) => el.tagName === 'BUTTON');
		if (!btn) return false;
		btn.click();
		return true;
	})()`, c.input)

	var clicked bool
	if err := c.page.Evaluate(ctx, expr, &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}

// classify reads the dialog's post-submit signals after the settle delay.
// Positive signals win over everything. Defaulting to success when no
// signal is detected is deliberate: the provider frequently reports
// nothing at all on a successful share.
func (c *ShareController) classify(ctx context.Context) (classification, error) {
	if err := c.page.Sleep(ctx, c.settle); err != nil {
		return classification{}, err
	}

	const expr = `(() => {
		const root = document.querySelector('[role="dialog"]') || document.body;
		const text = root.innerText || '';
		const positive = /\bsent\b|\bsuccess\b/i.test(text) ||
			!!root.querySelector('[class*="success" i]');
		const rateLimited = /more than 20 people|limit[^.]*20/i.test(text);
		let errorText = '';
		for (const el of root.querySelectorAll('[role="alert"], .error, .alert-error')) {
			const t = (el.textContent || '').trim();
			if (t && t.length <= 200) { errorText = t; break; }
		}
		if (!errorText && /\berror\b|\bfailed\b|\binvalid\b/i.test(text)) {
			const m = text.match(/^.*(error|failed|invalid).*$/im);
			if (m && m[0].trim().length <= 200) errorText = m[0].trim();
		}
		return { positive, rateLimited, errorText };
	})()`

	var result classification
	if err := c.page.Evaluate(ctx, expr, &result); err != nil {
		return classification{}, fmt.Errorf("classifying outcome: %w", err)
	}
	return result, nil
}

// ShareBatch runs one full dialog cycle for the batch and returns one
// attempt record per recipient. A nil error means the whole batch was
// classified sent; on rate-limit or other detected errors every
// recipient in the batch is recorded failed and the error propagates.
func (c *ShareController) ShareBatch(ctx context.Context, batch []string) ([]ShareAttempt, error) {
	if err := c.Open(ctx); err != nil {
		return failedAttempts(batch, err.Error()), err
	}
	if err := c.EnterRecipients(ctx, batch); err != nil {
		return failedAttempts(batch, err.Error()), err
	}
	if err := c.Submit(ctx); err != nil {
		return failedAttempts(batch, err.Error()), err
	}

	signals, err := c.classify(ctx)
	if err != nil {
		return failedAttempts(batch, err.Error()), err
	}

	switch {
	case signals.Positive:
		c.logger.Info("batch sent", "recipients", len(batch))
	case signals.RateLimited:
		c.captureFailure(ctx, "rate-limited")
		err := fmt.Errorf("%w: provider reported the invitee ceiling", shared.ErrRateLimited)
		return failedAttempts(batch, err.Error()), err
	case signals.ErrorText != "":
		c.captureFailure(ctx, "share-error")
		err := fmt.Errorf("%w: %s", shared.ErrShareRejected, signals.ErrorText)
		return failedAttempts(batch, signals.ErrorText), err
	default:
		c.logger.Info("batch sent (no explicit signal)", "recipients", len(batch))
	}

	if err := c.page.Press(ctx, "Escape"); err != nil {
		c.logger.Debug("could not dismiss dialog", "error", err)
	}
	if err := c.page.Sleep(ctx, 500*time.Millisecond); err != nil {
		return nil, err
	}

	attempts := make([]ShareAttempt, 0, len(batch))
	for _, email := range batch {
		attempts = append(attempts, ShareAttempt{Email: email, Sent: true})
	}
	return attempts, nil
}

// SetPublicVisibility switches the dialog's visibility mode to "anyone
// with the link can view". Used only by finalization.
func (c *ShareController) SetPublicVisibility(ctx context.Context) error {
	if err := c.Open(ctx); err != nil {
		return err
	}

	clicked, err := clickByText(ctx, c.page, visibilityPublicLink)
	if err != nil {
		return fmt.Errorf("%w: switching to public visibility: %v", shared.ErrShareSurface, err)
	}
	if !clicked {
		return fmt.Errorf("%w: public visibility option not found", shared.ErrShareSurface)
	}

	if err := c.page.Sleep(ctx, time.Second); err != nil {
		return err
	}
	if err := c.page.Press(ctx, "Escape"); err != nil {
		c.logger.Debug("could not dismiss dialog", "error", err)
	}
	return nil
}

// setInviteesOnlyVisibility switches the dialog to "only emailed people",
// the mode in which existing invitee chips are visible and removable.
// The switch itself never adds or removes invitees.
func (c *ShareController) setInviteesOnlyVisibility(ctx context.Context) (bool, error) {
	return clickByText(ctx, c.page, visibilityInviteesOnly)
}

func (c *ShareController) captureFailure(ctx context.Context, name string) {
	if path, err := c.shots.Capture(ctx, c.page, name); err != nil {
		c.logger.Debug("screenshot failed", "name", name, "error", err)
	} else if path != "" {
		c.logger.Warn("captured failure screenshot", "path", path)
	}
}

func failedAttempts(batch []string, msg string) []ShareAttempt {
	attempts := make([]ShareAttempt, 0, len(batch))
	for _, email := range batch {
		attempts = append(attempts, ShareAttempt{Email: email, Message: msg})
	}
	return attempts
}
