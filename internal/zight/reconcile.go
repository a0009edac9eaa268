package zight

import (
	"context"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
)

// ReconcilerOpts bounds the clearing loop.
type ReconcilerOpts struct {
	MaxRounds          int // full open-clear-verify rounds, default 10
	PerRoundCap        int // chip removals per round, default 500
	ConsecutiveFailCap int // consecutive failed removal clicks per round, default 5
}

// Reconciler drives the provider-side invitee count to zero. The UI's
// chip list can lag server state, so the provider's item-detail API is
// the only count this code trusts.
type Reconciler struct {
	page   browser.Page
	dialog *ShareController
	opts   ReconcilerOpts
	logger *log.Logger
}

// NewReconciler builds a Reconciler sharing the controller's dialog handling.
func NewReconciler(p browser.Page, dialog *ShareController, opts ReconcilerOpts, logger *log.Logger) *Reconciler {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 10
	}
	if opts.PerRoundCap <= 0 {
		opts.PerRoundCap = 500
	}
	if opts.ConsecutiveFailCap <= 0 {
		opts.ConsecutiveFailCap = 5
	}
	return &Reconciler{page: p, dialog: dialog, opts: opts, logger: logger}
}

// InviteeCount reads the authoritative invitee count through the
// provider's item-detail endpoint, fetched from inside the authenticated
// page. Any failure yields -1 (unknown), never 0.
func (r *Reconciler) InviteeCount(ctx context.Context) int {
	loc, err := r.page.Location(ctx)
	if err != nil {
		r.logger.Debug("could not read location for invitee count", "error", err)
		return -1
	}
	assetID, err := AssetIDFromURL(loc)
	if err != nil {
		r.logger.Debug("could not extract asset id", "url", loc, "error", err)
		return -1
	}

	expr := fmt.Sprintf(`fetch(%q)
		.then((res) => res.json())
		.then((json) => {
			const users = (((((json || {}).data || {}).item || {}).attributes || {}).security || {}).specific_users;
			return Array.isArray(users) ? users.length : 0;
		})
		.catch(() => -1)`, BaseURL+"/api/v5/items/"+assetID)

	var count int
	if err := r.page.Evaluate(ctx, expr, &count); err != nil {
		r.logger.Debug("invitee count query failed", "error", err)
		return -1
	}
	return count
}

// ClearInvitees removes every existing invitee from the asset. When the
// authoritative count is already zero and force is false it returns
// immediately without touching the UI. Otherwise it loops: open the
// dialog, switch to invitees-only visibility, scroll the chip list into
// full render, remove chips one by one, close, and re-verify against the
// API. The loop stops on an authoritative zero.
//
// This method never switches visibility to the public-link mode; doing
// so would leave the invitee set intact server-side while the UI looks
// reset. Only the orchestrator's finalization changes it.
func (r *Reconciler) ClearInvitees(ctx context.Context, force bool) error {
	count := r.InviteeCount(ctx)
	r.logger.Info("reconciling invitees", "count", count, "force", force)

	if count == 0 && !force {
		return nil
	}

	for round := 0; round < r.opts.MaxRounds; round++ {
		removed, err := r.clearRound(ctx)
		if err != nil {
			return err
		}

		count = r.InviteeCount(ctx)
		r.logger.Debug("clear round finished", "round", round+1, "removed", removed, "count", count)

		if count == 0 {
			return nil
		}

		if removed == 0 && count > 0 {
			// The UI rendered no removable chips while the API still
			// reports invitees: the list is desynced. Give the backend
			// time before the next round.
			r.logger.Warn("invitee list desync, waiting before retry", "count", count)
			if err := r.page.Sleep(ctx, 3*time.Second); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w: %d invitees remain after %d rounds", shared.ErrReconcile, count, r.opts.MaxRounds)
}

// clearRound runs one open-switch-scroll-remove-close cycle and reports
// how many chips it removed.
func (r *Reconciler) clearRound(ctx context.Context) (int, error) {
	if err := r.dialog.Open(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}

	switched, err := r.dialog.setInviteesOnlyVisibility(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrReconcile, err)
	}
	if !switched {
		r.logger.Debug("invitees-only option not found, assuming already in list mode")
	}
	if err := r.page.Sleep(ctx, time.Second); err != nil {
		return 0, err
	}

	if err := r.scrollInviteeList(ctx); err != nil {
		return 0, err
	}

	removed, err := r.removeChips(ctx)
	if err != nil {
		return removed, err
	}

	if err := r.page.Press(ctx, "Escape"); err != nil {
		r.logger.Debug("could not dismiss dialog", "error", err)
	}
	if err := r.page.Sleep(ctx, 500*time.Millisecond); err != nil {
		return removed, err
	}

	return removed, nil
}

// scrollInviteeList scrolls scrollable regions inside the dialog to the
// bottom a few times so lazily-rendered chips mount.
func (r *Reconciler) scrollInviteeList(ctx context.Context) error {
	const expr = `(() => {
		const root = document.querySelector('[role="dialog"]');
		if (!root) return false;
		for (const el of root.querySelectorAll('ul, [class*="list" i], [class*="scroll" i]')) {
			el.scrollTop = el.scrollHeight;
		}
		return true;
	})()`

	for i := 0; i < 3; i++ {
		if err := r.page.Evaluate(ctx, expr, nil); err != nil {
			return err
		}
		if err := r.page.Sleep(ctx, 300*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

// removeChips clicks the first remove affordance repeatedly until none
// remain or a cap is hit. Each click targets the first chip because the
// list reflows after every removal.
func (r *Reconciler) removeChips(ctx context.Context) (int, error) {
	const expr = `(() => {
		const root = document.querySelector('[role="dialog"]') || document.body;
		let el = root.querySelector('button[aria-label*="remove" i], [data-testid*="remove" i]');
		if (!el) {
			for (const b of root.querySelectorAll('button')) {
				const t = (b.textContent || '').trim();
				if (t === '×' || t === 'x' || t === 'X') { el = b; break; }
			}
		}
		if (!el) return false;
		el.click();
		return true;
	})()`

	removed := 0
	failures := 0
	for removed < r.opts.PerRoundCap {
		var clicked bool
		if err := r.page.Evaluate(ctx, expr, &clicked); err != nil {
			failures++
			if failures >= r.opts.ConsecutiveFailCap {
				r.logger.Warn("giving up on chip removal this round", "failures", failures)
				break
			}
			continue
		}
		if !clicked {
			break
		}
		failures = 0
		removed++
		if err := r.page.Sleep(ctx, 200*time.Millisecond); err != nil {
			return removed, err
		}
	}

	return removed, nil
}
