package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

const browserbaseSessionsURL = "https://api.browserbase.com/v1/sessions"

// SessionOpts configures how the browser session is created.
type SessionOpts struct {
	// Headless controls the local Chrome process. Ignored for remote sessions.
	Headless bool

	// Remote selects a Browserbase cloud session instead of a local process.
	Remote    bool
	APIKey    string
	ProjectID string

	// HTTPClient is used for the Browserbase session API. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	Logger *log.Logger
}

// Session owns the allocator and tab contexts for one automation run.
// Close releases both exactly once regardless of how the run ended.
type Session struct {
	page      *ChromePage
	sessionID string
	cancels   []context.CancelFunc
	closeOnce sync.Once
}

// NewSession creates a browser session, either a local headless Chrome or
// a remote Browserbase session, and opens one tab.
func NewSession(ctx context.Context, opts SessionOpts) (*Session, error) {
	if opts.Remote {
		return newRemoteSession(ctx, opts)
	}
	return newLocalSession(ctx, opts)
}

func newLocalSession(ctx context.Context, opts SessionOpts) (*Session, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Force the browser process to start so failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCreate, err)
	}

	return &Session{
		page:    NewChromePage(tabCtx),
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}, nil
}

func newRemoteSession(ctx context.Context, opts SessionOpts) (*Session, error) {
	if opts.APIKey == "" || opts.ProjectID == "" {
		return nil, fmt.Errorf("%w: browserbase api key and project id required", shared.ErrMissingCredentials)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	payload, _ := json.Marshal(map[string]string{"projectId": opts.ProjectID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, browserbaseSessionsURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCreate, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-BB-API-Key", opts.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: browserbase request failed: %v", shared.ErrSessionCreate, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading browserbase response: %v", shared.ErrSessionCreate, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: browserbase returned status %d: %s", shared.ErrSessionCreate, resp.StatusCode, body)
	}

	var session struct {
		ID         string `json:"id"`
		ConnectURL string `json:"connectUrl"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("%w: decoding browserbase response: %v", shared.ErrSessionCreate, err)
	}
	if session.ConnectURL == "" {
		return nil, fmt.Errorf("%w: browserbase session has no connect URL", shared.ErrSessionCreate)
	}

	if opts.Logger != nil {
		opts.Logger.Info("created browserbase session", "session", session.ID)
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, session.ConnectURL)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("%w: connecting to remote browser: %v", shared.ErrSessionCreate, err)
	}

	return &Session{
		page:      NewChromePage(tabCtx),
		sessionID: session.ID,
		cancels:   []context.CancelFunc{cancelTab, cancelAlloc},
	}, nil
}

// Page returns the session's tab.
func (s *Session) Page() Page {
	return s.page
}

// SessionID returns the remote session identifier, empty for local sessions.
func (s *Session) SessionID() string {
	return s.sessionID
}

// Close releases the tab and allocator. Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
	})
}
