package zight

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	assetCardSelector  = `#items.zt-grid-view .zt-dashboard-card [data-testid="item-card-0"]`
	viewerLinkSelector = `#items a[data-testid="item-viewer-link-0"]`
	thumbLinkSelector  = `#items a.zt-thumbnail-link[data-testid="item-viewer-link-0"]`
)

// assetPathPattern matches a viewer URL path: a single segment of 5+
// word characters that is neither the dashboard nor the login page.
var assetPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_-]{5,}$`)

// OpenAsset locates the first item on the dashboard grid and opens its
// viewer page, trying the viewer link, the thumbnail link, then direct
// navigation to the captured href. Blocking overlays are dismissed on
// arrival.
func OpenAsset(ctx context.Context, p browser.Page, shots browser.Screenshotter, logger *log.Logger) error {
	found, err := p.WaitVisible(ctx, assetCardSelector, 30*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssetNotFound, err)
	}
	if !found {
		if path, _ := shots.Capture(ctx, p, "no-items-grid"); path != "" {
			logger.Warn("dashboard grid never appeared", "screenshot", path)
		}
		return fmt.Errorf("%w: item grid never appeared on dashboard", shared.ErrAssetNotFound)
	}

	startURL, err := p.Location(ctx)
	if err != nil {
		return err
	}

	var href string
	hrefExpr := fmt.Sprintf(`(document.querySelector(%q) || {}).getAttribute ? (document.querySelector(%q).getAttribute('href') || '') : ''`, viewerLinkSelector, viewerLinkSelector)
	if err := p.Evaluate(ctx, hrefExpr, &href); err != nil {
		logger.Debug("could not capture viewer href", "error", err)
	}
	logger.Debug("asset link", "href", href)

	// Click chain: viewer link, thumbnail link, direct navigation.
	if err := p.Click(ctx, viewerLinkSelector); err != nil {
		logger.Debug("viewer link click failed", "error", err)
	}
	if err := p.Sleep(ctx, 600*time.Millisecond); err != nil {
		return err
	}

	if still, err := stillOnDashboard(ctx, p, startURL); err != nil {
		return err
	} else if still {
		logger.Debug("viewer link did not navigate, trying thumbnail")
		if err := p.Click(ctx, thumbLinkSelector); err != nil {
			logger.Debug("thumbnail click failed", "error", err)
		}
		if err := p.Sleep(ctx, 600*time.Millisecond); err != nil {
			return err
		}
	}

	if still, err := stillOnDashboard(ctx, p, startURL); err != nil {
		return err
	} else if still && strings.HasPrefix(href, "/") {
		logger.Debug("clicks did not navigate, going to href directly")
		if err := p.Navigate(ctx, BaseURL+href); err != nil {
			return fmt.Errorf("%w: direct navigation: %v", shared.ErrAssetNotFound, err)
		}
	}

	if err := waitForAssetURL(ctx, p, 20*time.Second); err != nil {
		if path, _ := shots.Capture(ctx, p, "not-on-asset-page"); path != "" {
			logger.Warn("never arrived on asset page", "screenshot", path)
		}
		return err
	}
	if err := p.WaitIdle(ctx, 10*time.Second); err != nil {
		return err
	}

	if err := DismissOverlays(ctx, p); err != nil {
		return err
	}

	loc, _ := p.Location(ctx)
	logger.Info("asset page opened", "url", loc)
	return nil
}

// stillOnDashboard reports whether the page has not navigated away yet.
func stillOnDashboard(ctx context.Context, p browser.Page, startURL string) (bool, error) {
	loc, err := p.Location(ctx)
	if err != nil {
		return false, err
	}
	return loc == startURL || IsDashboardURL(loc), nil
}

// IsDashboardURL reports whether the URL points at the dashboard.
func IsDashboardURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, "/dashboard")
}

// IsAssetURL reports whether the URL looks like a viewer page for one asset.
func IsAssetURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.HasPrefix(u.Path, "/dashboard") || strings.HasPrefix(u.Path, "/login") {
		return false
	}
	return assetPathPattern.MatchString(u.Path)
}

// AssetIDFromURL extracts the asset identifier (the final path segment)
// from a viewer URL.
func AssetIDFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if !IsAssetURL(rawURL) {
		return "", fmt.Errorf("%w: not an asset URL: %s", shared.ErrInvalidInput, rawURL)
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}

// waitForAssetURL polls until the location matches an asset viewer path.
func waitForAssetURL(ctx context.Context, p browser.Page, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		loc, err := p.Location(ctx)
		if err != nil {
			return err
		}
		if IsAssetURL(loc) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: still on %s after asset open", shared.ErrTimeout, loc)
		}
		if err := p.Sleep(ctx, 250*time.Millisecond); err != nil {
			return err
		}
	}
}

// DismissOverlays removes blocking modal structures from the page
// outright. Removal (not visual dismissal) is required because Zight's
// promo modals re-trap focus. Idempotent and safe to call repeatedly.
func DismissOverlays(ctx context.Context, p browser.Page) error {
	const expr = `(() => {
		const selectors = ['[role="dialog"]', '.modal', '.modal-backdrop', '[class*="backdrop" i]'];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach((el) => el.remove());
		}
		document.body.style.overflow = 'auto';
		document.documentElement.style.overflow = 'auto';
		return true;
	})()`

	return p.Evaluate(ctx, expr, nil)
}
