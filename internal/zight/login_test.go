package zight

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/carrotlabs/zshare/internal/shared"
	tu "github.com/carrotlabs/zshare/internal/testing"
)

func TestLogin(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	creds := Credentials{Username: "ops@example.com", Password: "secret"}

	t.Run("fills the form and submits", func(t *testing.T) {
		p := tu.NewFakePage()
		p.Visible[emailInputSelector] = true
		p.Visible[`button[type="submit"]`] = true

		if err := Login(context.Background(), p, creds, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(p.TypedText) != 2 || p.TypedText[0] != creds.Username || p.TypedText[1] != creds.Password {
			t.Errorf("expected username then password typed, got %v", p.TypedText)
		}

		if p.Navigations[0] != LoginURL {
			t.Errorf("expected first navigation to login page, got %s", p.Navigations[0])
		}
		if p.Navigations[len(p.Navigations)-1] != DashboardURL {
			t.Errorf("expected final navigation to dashboard, got %s", p.Navigations[len(p.Navigations)-1])
		}
	})

	t.Run("falls back to Enter on the password field", func(t *testing.T) {
		p := tu.NewFakePage()
		p.Visible[emailInputSelector] = true
		p.EvalFunc = func(expr string, out any) error {
			// No labeled submit button either.
			return tu.SetResult(out, false)
		}

		if err := Login(context.Background(), p, creds, logger); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		foundEnter := false
		for _, k := range p.PressedKeys {
			if k == "Enter" {
				foundEnter = true
			}
		}
		if !foundEnter {
			t.Error("expected Enter keypress fallback")
		}
	})

	t.Run("missing login form", func(t *testing.T) {
		p := tu.NewFakePage()

		err := Login(context.Background(), p, creds, logger)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})
}
