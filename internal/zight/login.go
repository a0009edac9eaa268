package zight

import (
	"context"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	emailInputSelector    = `input[type="email"]`
	passwordInputSelector = `input[type="password"]`
)

var loginSubmitStrategies = []browser.Strategy{
	{Name: "submit-button", Selector: `button[type="submit"]`},
	{Name: "submit-input", Selector: `input[type="submit"]`},
}

// Login authenticates the session and lands on the dashboard. Arrival on
// the dashboard is not independently verified; if the login silently
// failed, the asset-open step will not find the item grid and surfaces
// the failure there.
func Login(ctx context.Context, p browser.Page, creds Credentials, logger *log.Logger) error {
	logger.Info("logging in", "account", creds.Username)

	if err := p.Navigate(ctx, LoginURL); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if err := p.Sleep(ctx, 800*time.Millisecond); err != nil {
		return err
	}

	found, err := p.WaitVisible(ctx, emailInputSelector, 15*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if !found {
		return fmt.Errorf("%w: login form never appeared", shared.ErrAuthFailed)
	}

	if err := fillField(ctx, p, emailInputSelector, creds.Username); err != nil {
		return fmt.Errorf("%w: filling email: %v", shared.ErrAuthFailed, err)
	}
	if err := fillField(ctx, p, passwordInputSelector, creds.Password); err != nil {
		return fmt.Errorf("%w: filling password: %v", shared.ErrAuthFailed, err)
	}

	if err := submitLogin(ctx, p, logger); err != nil {
		return err
	}

	if err := p.WaitIdle(ctx, 10*time.Second); err != nil {
		return err
	}
	if err := p.Sleep(ctx, 800*time.Millisecond); err != nil {
		return err
	}

	if err := p.Navigate(ctx, DashboardURL); err != nil {
		return fmt.Errorf("%w: navigating to dashboard: %v", shared.ErrAuthFailed, err)
	}
	if err := p.WaitIdle(ctx, 10*time.Second); err != nil {
		return err
	}

	loc, err := p.Location(ctx)
	if err != nil {
		return err
	}
	logger.Info("login flow finished", "url", loc)
	return nil
}

// fillField clicks the field and types into it.
func fillField(ctx context.Context, p browser.Page, selector, value string) error {
	if err := p.Click(ctx, selector); err != nil {
		return err
	}
	return p.Type(ctx, value)
}

// submitLogin tries the explicit submit controls, then a role-based
// button matched by label text, then Enter on the password field.
func submitLogin(ctx context.Context, p browser.Page, logger *log.Logger) error {
	s, found, err := browser.ClickFirst(ctx, p, loginSubmitStrategies, 2*time.Second)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if found {
		logger.Debug("submitted login", "strategy", s.Name)
		return nil
	}

	clicked, err := clickByText(ctx, p, `log\s*in|login|sign\s*in|continue|next`)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if clicked {
		logger.Debug("submitted login", "strategy", "labeled-button")
		return nil
	}

	if err := p.Click(ctx, passwordInputSelector); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if err := p.Press(ctx, "Enter"); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	logger.Debug("submitted login", "strategy", "password-enter")
	return nil
}
