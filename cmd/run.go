package main

import (
	"context"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/browser"
	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/repositories"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/carrotlabs/zshare/internal/sheets"
	"github.com/carrotlabs/zshare/internal/tasks"
	"github.com/carrotlabs/zshare/internal/zight"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// runParams collects everything one automation run needs.
type runParams struct {
	source      sheets.Source
	sheetURL    string
	creds       zight.Credentials
	submittedBy string
	logger      *log.Logger
}

// executeRun performs one full campaign: open a browser session, then
// hand it to runSession for login, recipient loading and the batch
// engine.
func (r *Runner) executeRun(ctx context.Context, params runParams, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
	logger := params.logger
	if logger == nil {
		logger = r.logger
	}

	session, err := browser.NewSession(ctx, browser.SessionOpts{
		Headless:   r.config.Browser.Headless,
		Remote:     r.config.Browser.Remote,
		APIKey:     r.config.Browser.APIKey,
		ProjectID:  r.config.Browser.ProjectID,
		HTTPClient: r.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var shots browser.Screenshotter = browser.NopScreenshotter{}
	if dir := r.config.Browser.ScreenshotDir; dir != "" {
		if ds, err := browser.NewDirScreenshotter(dir, logger); err != nil {
			logger.Warn("screenshots disabled", "error", err)
		} else {
			shots = ds
		}
	}

	return r.runSession(ctx, session.Page(), shots, params, progress)
}

// runSession drives an open browser session through one campaign.
// Recipients are loaded only after the asset page is reachable, and
// every fatal error from login onward still attempts to restore the
// asset's public link visibility before it propagates. Outcomes are
// recorded when the store is reachable; a missing store degrades to an
// unrecorded run rather than a failure.
func (r *Runner) runSession(ctx context.Context, page browser.Page, shots browser.Screenshotter, params runParams, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
	logger := params.logger
	if logger == nil {
		logger = r.logger
	}

	controller := zight.NewShareController(page, shots, zight.ShareControllerOpts{
		SettleDelay: time.Duration(r.config.Share.SettleDelayMS) * time.Millisecond,
	}, logger)

	// Best effort: a prior run may have left the asset on "only emailed
	// people", so even a failed login attempts the switch back.
	restore := func(cause error) error {
		if err := controller.SetPublicVisibility(ctx); err != nil {
			logger.Warn("could not restore public visibility", "error", err)
		}
		return cause
	}

	if err := zight.Login(ctx, page, params.creds, logger); err != nil {
		return nil, restore(err)
	}
	if err := zight.OpenAsset(ctx, page, shots, logger); err != nil {
		return nil, restore(err)
	}

	recipients, err := r.loader.Load(ctx, params.source)
	if err != nil {
		return nil, restore(err)
	}
	logger.Info("recipients loaded", "count", len(recipients))

	var reporter tasks.Reporter
	var campaignID string
	if db, closeDB, err := r.openStore(); err != nil {
		logger.Warn("store unavailable, outcomes will not be recorded", "error", err)
	} else {
		defer closeDB()
		campaigns, shares := r.campaignRepos(db)

		campaign := models.NewCampaign(0, params.sheetURL, params.source.SpreadsheetID, params.source.GID, params.creds.Username)
		campaign.SetSubmittedBy(params.submittedBy)
		if err := campaigns.Create(campaign); err != nil {
			logger.Warn("could not create campaign record", "error", err)
		} else {
			campaignID = campaign.ID()
			reporter = repositories.NewReporter(campaigns, shares, params.creds.Username, params.sheetURL, logger)
		}
	}

	reconciler := zight.NewReconciler(page, controller, zight.ReconcilerOpts{}, logger)

	engine := tasks.NewShareEngine(controller, reconciler, reporter, r.config.Share.BatchSize, campaignID, logger)
	result := engine.Run(ctx, recipients, progress)
	return result, result.Err
}

// Run executes a campaign from config and flags, streaming progress to stdout.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	sheetURL := cmd.String("sheet")
	if sheetURL == "" {
		sheetURL = r.config.Sheet.URL
	}
	if sheetURL == "" {
		return fmt.Errorf("%w: sheet URL (flag --sheet or [sheet] url)", shared.ErrMissingArgument)
	}

	source, err := sheets.ParseSheetURL(sheetURL)
	if err != nil {
		return err
	}
	if gid := cmd.String("gid"); gid != "" {
		source.GID = gid
	}
	source.Column = r.config.Sheet.Column
	if column := cmd.String("column"); column != "" {
		source.Column = column
	}

	if batch := cmd.Int("batch-size"); batch > 0 {
		r.config.Share.BatchSize = int(batch)
	}
	if cmd.IsSet("headless") {
		r.config.Browser.Headless = cmd.Bool("headless")
	}
	if cmd.Bool("remote") {
		r.config.Browser.Remote = true
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	creds := zight.Credentials{
		Username: r.config.Zight.Username,
		Password: r.config.Zight.Password,
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("%w: zight username and password", shared.ErrMissingCredentials)
	}

	r.writePlain("Starting share run...\n")
	r.writePlain("Sheet: %s (gid %s, column %q)\n\n", source.SpreadsheetID, source.GID, source.Column)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadRecipients:
				r.writePlain("📋 %s\n", update.Message)
			case tasks.ClearShares:
				r.writePlain("🧹 %s\n", update.Message)
			case tasks.ShareBatch:
				r.writePlain("📤 %s\n", update.Message)
			case tasks.Finalize:
				r.writePlain("🔓 %s\n", update.Message)
			}
		}
	}()

	result, runErr := r.executeRun(ctx, runParams{
		source:      source,
		sheetURL:    sheetURL,
		creds:       creds,
		submittedBy: cmd.String("submitted-by"),
	}, progressCh)
	close(progressCh)
	<-done

	if result == nil {
		return runErr
	}

	r.writePlain("\n")
	if runErr != nil {
		r.writePlainHeader("Run Failed")
	} else {
		r.writePlainHeader("Run Complete")
	}
	r.writePlain("Recipients: %d\n", result.TotalRecipients)
	r.writePlain("Batches: %d completed / %d attempted\n", result.BatchesCompleted, result.BatchesAttempted)
	r.writePlain("Final visibility: %s\n", result.FinalVisibility)

	return runErr
}
