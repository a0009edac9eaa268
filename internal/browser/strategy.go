package browser

import (
	"context"
	"fmt"
	"time"
)

// Strategy names one candidate selector for an interaction point. The
// flows try strategies in order and use the first visible match, so the
// most specific selector always goes first.
type Strategy struct {
	Name     string
	Selector string
}

// First returns the first strategy whose selector is currently visible,
// giving each candidate the per-candidate timeout.
func First(ctx context.Context, p Page, strategies []Strategy, timeout time.Duration) (Strategy, bool, error) {
	for _, s := range strategies {
		found, err := p.WaitVisible(ctx, s.Selector, timeout)
		if err != nil {
			return Strategy{}, false, fmt.Errorf("strategy %s: %w", s.Name, err)
		}
		if found {
			return s, true, nil
		}
	}
	return Strategy{}, false, nil
}

// ClickFirst clicks the first visible strategy and reports which one won.
func ClickFirst(ctx context.Context, p Page, strategies []Strategy, timeout time.Duration) (Strategy, bool, error) {
	s, found, err := First(ctx, p, strategies, timeout)
	if err != nil || !found {
		return s, found, err
	}
	if err := p.Click(ctx, s.Selector); err != nil {
		return s, false, fmt.Errorf("strategy %s: %w", s.Name, err)
	}
	return s, true, nil
}
