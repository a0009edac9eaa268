package main

import (
	"context"
	"fmt"

	"github.com/carrotlabs/zshare/internal/server"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Serve starts the webhook trigger server. Each accepted trigger runs in
// its own goroutine with a per-job file logger, so the endpoint returns
// as soon as the job is validated.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	host := r.config.Server.Host
	port := r.config.Server.Port
	if p := cmd.Int("port"); p > 0 {
		port = int(p)
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	logDir := r.config.Server.LogDir
	if logDir == "" {
		logDir = "logs"
	}

	launch := func(job server.Job) {
		go r.runJob(job)
	}

	handler := server.NewWebhookHandler(logDir, launch, r.logger)

	rps := r.config.Server.RateRPS
	if rps <= 0 {
		rps = 2
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.CORS(),
		server.BearerAuth(r.config.Server.Token),
		server.Throttle(rate.NewLimiter(rate.Limit(rps), rps)),
	)
	router.Handler(handler)

	r.writePlain("Webhook server listening on %s\n", addr)
	r.writePlain("Trigger URL: http://%s/api/trigger\n", addr)

	return server.Serve(ctx, addr, router, r.logger)
}

// runJob executes one webhook-triggered campaign, logging to the job's
// log file. The webhook's HTTP context is long gone by the time the run
// finishes, so the job runs on a fresh background context.
func (r *Runner) runJob(job server.Job) {
	jobLogger, logFile, err := shared.NewFileLogger(job.LogPath)
	if err != nil {
		r.logger.Error("could not open job log", "job", job.ID, "error", err)
		return
	}
	defer logFile.Close()

	r.logger.Info("job started", "job", job.ID)
	jobLogger.Info("job started",
		"job", job.ID,
		"spreadsheet", job.Source.SpreadsheetID,
		"gid", job.Source.GID,
		"submitted_by", job.SubmittedBy,
	)

	source := job.Source
	source.Column = r.config.Sheet.Column

	result, runErr := r.executeRun(context.Background(), runParams{
		source:      source,
		sheetURL:    job.SheetURL,
		creds:       job.Credentials,
		submittedBy: job.SubmittedBy,
		logger:      jobLogger,
	}, nil)

	if runErr != nil {
		r.logger.Error("job failed", "job", job.ID, "error", runErr)
		jobLogger.Error("job failed", "error", runErr)
		return
	}

	r.logger.Info("job completed", "job", job.ID)
	jobLogger.Info("job completed",
		"recipients", result.TotalRecipients,
		"batches_completed", result.BatchesCompleted,
		"final_visibility", result.FinalVisibility,
	)
}
