// Package zight drives the Zight web UI: login, opening the dashboard's
// single asset, the share dialog, and invitee-list reconciliation.
//
// Selectors are specific to Zight's current UI. Every multi-candidate
// interaction point runs through ranked strategies (browser.First /
// browser.ClickFirst) or a text-matching JS fallback, in the order the
// live UI is known to resolve them.
package zight

import (
	"context"
	"fmt"

	"github.com/carrotlabs/zshare/internal/browser"
)

const (
	BaseURL      = "https://share.zight.com"
	LoginURL     = BaseURL + "/login"
	DashboardURL = BaseURL + "/dashboard"
)

// Credentials holds one Zight account login.
type Credentials struct {
	Username string
	Password string
}

// Visibility mode labels as the share dialog renders them.
const (
	visibilityInviteesOnly = `only emailed people`
	visibilityPublicLink   = `anyone with the link can view`
)

// clickByText clicks the innermost element inside the share dialog (or
// the page body when no dialog is open) whose text matches the pattern
// case-insensitively. Returns whether anything was clicked.
func clickByText(ctx context.Context, p browser.Page, pattern string) (bool, error) {
	expr := fmt.Sprintf(`(() => {
		const re = new RegExp(%q, 'i');
		const root = document.querySelector('[role="dialog"]') || document.body;
		let best = null;
		let bestLen = Infinity;
		for (const el of root.querySelectorAll('a, button, [role="button"], li, span, div, label')) {
			const text = (el.textContent || '').trim();
			if (!text || !re.test(text)) continue;
			if (text.length < bestLen) { best = el; bestLen = text.length; }
		}
		if (!best) return false;
		best.click();
		return true;
	})()`, pattern)

	var clicked bool
	if err := p.Evaluate(ctx, expr, &clicked); err != nil {
		return false, err
	}
	return clicked, nil
}
